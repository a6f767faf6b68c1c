package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RolePlanner    Role = "planner"
	RoleTechnician Role = "technician"
	RoleEHS        Role = "ehs"
	RoleSecurity   Role = "security"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RolePlanner, RoleTechnician, RoleEHS, RoleSecurity:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Name           string    `gorm:"not null" json:"name"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department"`
	Role           Role      `gorm:"type:varchar(32);not null;default:technician" json:"role"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
