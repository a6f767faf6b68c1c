package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange records one lifecycle transition. Rows are insert-only.
type StatusChange struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	From      TaskStatus `gorm:"column:from_status;type:varchar(16);not null" json:"from"`
	To        TaskStatus `gorm:"column:to_status;type:varchar(16);not null" json:"to"`
	Reason    string     `gorm:"not null" json:"reason"`
	ActorID   uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

// DailyLog confirms work and location for a task on one calendar day.
type DailyLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID        uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	ConfirmedByID uuid.UUID `gorm:"type:uuid;not null" json:"confirmed_by"`
	Notes         string    `gorm:"not null" json:"notes"`
	LocationID    uuid.UUID `gorm:"type:uuid;not null" json:"location_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

// Day returns the UTC calendar day the log belongs to.
func (l DailyLog) Day() string {
	return l.CreatedAt.UTC().Format(time.DateOnly)
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Text      string    `gorm:"not null" json:"text"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
