package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workorder/internal/model"
)

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 1000
)

// ActivityRepository stores the audit trail. It only inserts and reads.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Find returns matching entries newest first, at most q.Limit (default 100).
func (r *ActivityRepository) Find(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	db := r.db.WithContext(ctx)
	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.TaskID != nil {
		db = db.Where("task_id = ?", *q.TaskID)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at <= ?", *q.To)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	err := db.Order("created_at DESC").Limit(min(limit, maxActivityLimit)).Find(&entries).Error
	return entries, err
}
