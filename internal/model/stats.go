package model

import "github.com/google/uuid"

// TaskField names a task column that aggregate reads may group by.
type TaskField string

const (
	FieldStatus      TaskField = "status"
	FieldCriticality TaskField = "criticality"
	FieldTaskType    TaskField = "task_type"
	FieldAssignee    TaskField = "assigned_to_id"
	FieldEquipment   TaskField = "equipment_id"
	FieldCreatedAt   TaskField = "created_at"
	FieldCompletedAt TaskField = "completed_at"
)

// GroupCount is the number of tasks sharing one key.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupAverage is the mean completed_at - started_at over Count tasks.
type GroupAverage struct {
	Key                 string
	Count               int
	AverageMilliseconds float64
}

// RefCount is how many tasks reference one user or equipment.
type RefCount struct {
	ID    uuid.UUID
	Count int
}

type AssigneeLoad struct {
	UserID  uuid.UUID
	Active  int
	Overdue int
}

// MonthCount buckets tasks by calendar month in UTC, formatted YYYY-MM.
type MonthCount struct {
	Month string
	Count int
}
