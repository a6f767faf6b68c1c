// Package report derives operational KPIs from the task collection. It only
// reads; every call takes a model.TaskQuery as its filter and ignores the
// query's sort and pagination.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workorder/internal/model"
	"workorder/internal/telemetry"
)

// TaskStats runs grouped aggregate queries over the tasks matching a query.
// The database does the counting; no task rows are loaded.
type TaskStats interface {
	Count(ctx context.Context, q model.TaskQuery) (int64, error)
	CountBy(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.GroupCount, error)
	AverageResolution(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.GroupAverage, error)
	TopReferenced(ctx context.Context, q model.TaskQuery, field model.TaskField, limit int) ([]model.RefCount, error)
	Workload(ctx context.Context, q model.TaskQuery, now time.Time) ([]model.AssigneeLoad, error)
	CountByMonth(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.MonthCount, error)
}

type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
}

type EquipmentDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error)
}

// Cache stores assembled dashboards. Get reports whether key was found.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// Deps are the collaborators of Engine. Cache, Logger and Now are optional.
type Deps struct {
	Tasks     TaskStats
	Users     UserDirectory
	Equipment EquipmentDirectory
	Cache     Cache
	Logger    *slog.Logger
	Now       func() time.Time
}

type Engine struct {
	tasks     TaskStats
	users     UserDirectory
	equipment EquipmentDirectory
	cache     Cache
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(d Deps) *Engine {
	e := &Engine{
		tasks:     d.Tasks,
		users:     d.Users,
		equipment: d.Equipment,
		cache:     d.Cache,
		logger:    d.Logger,
		now:       d.Now,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func (e *Engine) TasksByStatus(ctx context.Context, f model.TaskQuery) ([]GroupCount, error) {
	defer telemetry.ObserveReport("tasks_by_status", time.Now())
	return e.countBy(ctx, f, model.FieldStatus)
}

func (e *Engine) TasksByCriticality(ctx context.Context, f model.TaskQuery) ([]GroupCount, error) {
	defer telemetry.ObserveReport("tasks_by_criticality", time.Now())
	return e.countBy(ctx, f, model.FieldCriticality)
}

func (e *Engine) TasksByType(ctx context.Context, f model.TaskQuery) ([]GroupCount, error) {
	defer telemetry.ObserveReport("tasks_by_type", time.Now())
	return e.countBy(ctx, f, model.FieldTaskType)
}

func (e *Engine) countBy(ctx context.Context, f model.TaskQuery, field model.TaskField) ([]GroupCount, error) {
	rows, err := e.tasks.CountBy(ctx, f, field)
	if err != nil {
		return nil, fmt.Errorf("count tasks by %s: %w", field, err)
	}
	return rows, nil
}

// AverageResolutionTime is the mean over completed tasks that carry both
// timestamps; zero when there are none.
func (e *Engine) AverageResolutionTime(ctx context.Context, f model.TaskQuery) (Resolution, error) {
	defer telemetry.ObserveReport("average_resolution_time", time.Now())
	q, ok := f.WithStatuses(model.StatusCompleted)
	if !ok {
		return Resolution{}, nil
	}
	return e.overallResolution(ctx, q)
}

func (e *Engine) overallResolution(ctx context.Context, q model.TaskQuery) (Resolution, error) {
	rows, err := e.tasks.AverageResolution(ctx, q, "")
	if err != nil {
		return Resolution{}, fmt.Errorf("average resolution: %w", err)
	}
	if len(rows) == 0 {
		return Resolution{}, nil
	}
	return resolution(rows[0]), nil
}

func (e *Engine) ResolutionByCriticality(ctx context.Context, f model.TaskQuery) ([]GroupResolution, error) {
	defer telemetry.ObserveReport("resolution_by_criticality", time.Now())
	return e.resolutionBy(ctx, f, model.FieldCriticality)
}

func (e *Engine) ResolutionByType(ctx context.Context, f model.TaskQuery) ([]GroupResolution, error) {
	defer telemetry.ObserveReport("resolution_by_type", time.Now())
	return e.resolutionBy(ctx, f, model.FieldTaskType)
}

func (e *Engine) resolutionBy(ctx context.Context, f model.TaskQuery, field model.TaskField) ([]GroupResolution, error) {
	q, ok := f.WithStatuses(model.StatusCompleted)
	if !ok {
		return []GroupResolution{}, nil
	}
	rows, err := e.tasks.AverageResolution(ctx, q, field)
	if err != nil {
		return nil, fmt.Errorf("average resolution by %s: %w", field, err)
	}
	out := make([]GroupResolution, 0, len(rows))
	for _, r := range rows {
		out = append(out, GroupResolution{Key: r.Key, Resolution: resolution(r)})
	}
	return out, nil
}

// Workload reports open and overdue tasks per assignee, sorted by name.
func (e *Engine) Workload(ctx context.Context, f model.TaskQuery) ([]WorkloadEntry, error) {
	defer telemetry.ObserveReport("workload", time.Now())
	q, ok := f.WithStatuses(model.ActiveStatuses...)
	if !ok {
		return []WorkloadEntry{}, nil
	}
	loads, err := e.tasks.Workload(ctx, q, e.now())
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}

	ids := make([]uuid.UUID, len(loads))
	for i := range loads {
		ids[i] = loads[i].UserID
	}
	names, err := e.userNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	return workload(loads, names), nil
}

func (e *Engine) count(ctx context.Context, q model.TaskQuery) (int, error) {
	n, err := e.tasks.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return int(n), nil
}

func (e *Engine) userNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	users, err := e.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func (e *Engine) equipmentNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	items, err := e.equipment.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	for _, eq := range items {
		names[eq.ID] = eq.Name
	}
	return names, nil
}
