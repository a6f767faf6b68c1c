package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusPaused     TaskStatus = "paused"
	StatusCompleted  TaskStatus = "completed"
	StatusCanceled   TaskStatus = "canceled"
)

// ActiveStatuses are the statuses of work that is still open.
var ActiveStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusPaused}

// IsTerminal returns true if no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

func (s TaskStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusPaused
}

func (s TaskStatus) Valid() bool {
	return s.IsActive() || s.IsTerminal()
}

type Criticality string

const (
	CriticalityHigh   Criticality = "high"
	CriticalityMedium Criticality = "medium"
	CriticalityLow    Criticality = "low"
)

func (c Criticality) Valid() bool {
	return c == CriticalityHigh || c == CriticalityMedium || c == CriticalityLow
}

type TaskType string

const (
	TaskTypePreventive TaskType = "preventive"
	TaskTypeCorrective TaskType = "corrective"
	TaskTypeInspection TaskType = "inspection"
	TaskTypeOther      TaskType = "other"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypePreventive, TaskTypeCorrective, TaskTypeInspection, TaskTypeOther:
		return true
	}
	return false
}

// FailureMode classifies the root cause recorded on a corrective task.
type FailureMode string

const (
	FailureMechanical      FailureMode = "mechanical"
	FailureElectrical      FailureMode = "electrical"
	FailureHydraulic       FailureMode = "hydraulic"
	FailurePneumatic       FailureMode = "pneumatic"
	FailureOverheating     FailureMode = "overheating"
	FailureInstrumentation FailureMode = "instrumentation"
	FailureWear            FailureMode = "wear"
	FailureOperational     FailureMode = "operational"
	FailureOther           FailureMode = "other"
)

func (m FailureMode) Valid() bool {
	switch m {
	case FailureMechanical, FailureElectrical, FailureHydraulic, FailurePneumatic, FailureOverheating,
		FailureInstrumentation, FailureWear, FailureOperational, FailureOther:
		return true
	}
	return false
}

// FailureReport is filled in when a corrective task is completed. All three
// fields are required together.
type FailureReport struct {
	FailureMode      FailureMode `json:"failure_mode" binding:"required,oneof=mechanical electrical hydraulic pneumatic overheating instrumentation wear operational other"`
	Diagnosis        string      `json:"diagnosis" binding:"required"`
	CorrectiveAction string      `json:"corrective_action" binding:"required"`
}

// Task is a maintenance work order.
type Task struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"not null" json:"description"`
	Criticality Criticality `gorm:"type:varchar(16);not null;index" json:"criticality"`
	TaskType    TaskType    `gorm:"type:varchar(16);not null;index" json:"task_type"`
	DueDate     time.Time   `gorm:"not null;index" json:"due_date"`

	Status      TaskStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsArchived  bool       `gorm:"not null;default:false;index" json:"is_archived"`
	Version     int        `gorm:"not null;default:0" json:"version"`

	LocationID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"location_id"`
	EquipmentID            *uuid.UUID `gorm:"type:uuid;index" json:"equipment_id,omitempty"`
	AssignedToID           *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	ContractorID           *uuid.UUID `gorm:"type:uuid;index" json:"contractor_id,omitempty"`
	ContractorContactName  string     `json:"contractor_contact_name,omitempty"`
	ContractorContactPhone string     `json:"contractor_contact_phone,omitempty"`
	ContractorNotes        string     `json:"contractor_notes,omitempty"`
	CreatedByID            *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`

	FailureReport *datatypes.JSONType[FailureReport] `gorm:"type:jsonb" json:"failure_report,omitempty" swaggertype:"object"`
	Attachments   pq.StringArray                     `gorm:"type:text[]" json:"attachments"`

	StatusHistory []StatusChange `gorm:"foreignKey:TaskID" json:"status_history"`
	DailyLogs     []DailyLog     `gorm:"foreignKey:TaskID" json:"daily_logs"`
	Comments      []Comment      `gorm:"foreignKey:TaskID" json:"comments"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasResponsibleParty reports whether an internal user or a contractor is
// accountable for the task.
func (t *Task) HasResponsibleParty() bool {
	return t.AssignedToID != nil || t.ContractorID != nil
}
