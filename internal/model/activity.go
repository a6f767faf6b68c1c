package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTaskCreated       ActionType = "TASK_CREATED"
	ActionTaskUpdated       ActionType = "TASK_UPDATED"
	ActionTaskArchived      ActionType = "TASK_ARCHIVED"
	ActionTaskStatusChanged ActionType = "TASK_STATUS_CHANGED"
	ActionTaskAssigned      ActionType = "TASK_ASSIGNED"
	ActionCommentAdded      ActionType = "COMMENT_ADDED"
	ActionDailyLogAdded     ActionType = "DAILY_LOG_ADDED"
	ActionAttachmentAdded   ActionType = "ATTACHMENT_ADDED"
)

// ActivityLog is an immutable who-did-what record. A nil UserID marks a
// system-originated action.
type ActivityLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    ActionType `gorm:"type:varchar(32);not null;index" json:"action"`
	TaskID    *uuid.UUID `gorm:"type:uuid;index" json:"task_id,omitempty"`
	Details   string     `json:"details"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
}

// ActivityQuery filters the activity log listing.
type ActivityQuery struct {
	UserID *uuid.UUID
	TaskID *uuid.UUID
	Action ActionType
	From   *time.Time
	To     *time.Time
	Limit  int
}
