// Package audit writes the who-did-what trail consumed by the activity log
// and reports.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"workorder/internal/model"
)

// Entry is one audit event. A nil ActorID means the system acted.
type Entry struct {
	ActorID *uuid.UUID
	Action  model.ActionType
	TaskID  *uuid.UUID
	Details string
}

// Emitter is the sink services record audit events to.
type Emitter interface {
	Record(ctx context.Context, e Entry) error
}

// Store is the persistence the Recorder writes through.
type Store interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	Find(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error)
}

// Recorder persists entries as activity_logs rows.
type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, e Entry) error {
	row := &model.ActivityLog{
		ID:        uuid.New(),
		UserID:    e.ActorID,
		Action:    e.Action,
		TaskID:    e.TaskID,
		Details:   e.Details,
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.Create(ctx, row); err != nil {
		return fmt.Errorf("record %s: %w", e.Action, err)
	}
	return nil
}

// Activity lists recorded entries, newest first.
func (r *Recorder) Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error) {
	return r.store.Find(ctx, q)
}
