package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a place on site: a power station, block, inverter row, building...
type Location struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Code        string     `gorm:"uniqueIndex;not null" json:"code"`
	Type        string     `gorm:"not null" json:"type"`
	ParentID    *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`
	Description string     `json:"description,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Equipment struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Code             string     `gorm:"uniqueIndex;not null" json:"code"`
	Type             string     `gorm:"not null;index" json:"type"`
	LocationID       uuid.UUID  `gorm:"type:uuid;not null" json:"location_id"`
	Brand            string     `json:"brand,omitempty"`
	Model            string     `json:"model,omitempty"`
	InstallationDate *time.Time `json:"installation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName keeps the table name uncountable.
func (Equipment) TableName() string {
	return "equipment"
}

// Contractor is an external company that can be held responsible for a task.
type Contractor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName string    `gorm:"uniqueIndex;not null" json:"company_name"`
	ContactInfo string    `gorm:"not null" json:"contact_info"`
	Specialty   string    `gorm:"not null" json:"specialty"`
	Phone       string    `gorm:"not null" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}
