package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledRule generates one task per equipment of TargetEquipmentType
// every time its cron Schedule fires.
type ScheduledRule struct {
	ID                  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string      `gorm:"not null" json:"name"`
	Schedule            string      `gorm:"not null" json:"schedule"`
	TargetEquipmentType string      `gorm:"not null" json:"target_equipment_type"`
	TemplateTitle       string      `gorm:"not null" json:"template_title"`
	TemplateDescription string      `gorm:"not null" json:"template_description"`
	Criticality         Criticality `gorm:"type:varchar(16);not null" json:"criticality"`
	TaskType            TaskType    `gorm:"type:varchar(16);not null" json:"task_type"`
	Enabled             bool        `gorm:"not null;default:true" json:"enabled"`
	LastRunAt           *time.Time  `json:"last_run_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}
