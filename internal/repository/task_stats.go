package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"workorder/internal/model"
)

// Columns that aggregate reads accept. Anything else is rejected before it
// reaches the SQL text.
var (
	groupColumns = map[model.TaskField]string{
		model.FieldStatus:      "status",
		model.FieldCriticality: "criticality",
		model.FieldTaskType:    "task_type",
	}
	refColumns = map[model.TaskField]string{
		model.FieldAssignee:  "assigned_to_id",
		model.FieldEquipment: "equipment_id",
	}
	monthColumns = map[model.TaskField]string{
		model.FieldCreatedAt:   "created_at",
		model.FieldCompletedAt: "completed_at",
	}
)

const resolutionMillis = "CAST(AVG(EXTRACT(EPOCH FROM (completed_at - started_at)) * 1000) AS DOUBLE PRECISION)"

func (r *TaskRepository) aggregate(ctx context.Context, q model.TaskQuery) *gorm.DB {
	return applyTaskQuery(r.db.WithContext(ctx).Model(&model.Task{}), q)
}

// CountBy counts tasks matching q per value of field, ordered by that value.
func (r *TaskRepository) CountBy(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.GroupCount, error) {
	col, ok := groupColumns[field]
	if !ok {
		return nil, fmt.Errorf("cannot group tasks by %q", field)
	}
	rows := []model.GroupCount{}
	err := r.aggregate(ctx, q).
		Select(col + " AS key, COUNT(*) AS count").
		Group(col).
		Order(col).
		Scan(&rows).Error
	return rows, err
}

// AverageResolution averages completed_at - started_at over the tasks that
// carry both timestamps. An empty field yields a single row for the whole
// set, with a zero average when nothing qualifies.
func (r *TaskRepository) AverageResolution(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.GroupAverage, error) {
	db := r.aggregate(ctx, q).Where("started_at IS NOT NULL AND completed_at IS NOT NULL")
	selected := "COUNT(*) AS count, COALESCE(" + resolutionMillis + ", 0) AS average_milliseconds"
	if field != "" {
		col, ok := groupColumns[field]
		if !ok {
			return nil, fmt.Errorf("cannot group tasks by %q", field)
		}
		db = db.Select(col + " AS key, " + selected).Group(col).Order(col)
	} else {
		db = db.Select("'' AS key, " + selected)
	}
	rows := []model.GroupAverage{}
	err := db.Scan(&rows).Error
	return rows, err
}

// TopReferenced ranks the users or equipment that the most matching tasks
// point at, highest count first with ties broken by id.
func (r *TaskRepository) TopReferenced(ctx context.Context, q model.TaskQuery, field model.TaskField, limit int) ([]model.RefCount, error) {
	col, ok := refColumns[field]
	if !ok {
		return nil, fmt.Errorf("cannot rank tasks by %q", field)
	}
	rows := []model.RefCount{}
	err := r.aggregate(ctx, q).
		Select(col + " AS id, COUNT(*) AS count").
		Where(col + " IS NOT NULL").
		Group(col).
		Order("count DESC, " + col).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Workload counts matching tasks per assignee and how many of them were due
// before now.
func (r *TaskRepository) Workload(ctx context.Context, q model.TaskQuery, now time.Time) ([]model.AssigneeLoad, error) {
	rows := []model.AssigneeLoad{}
	err := r.aggregate(ctx, q).
		Select("assigned_to_id AS user_id, COUNT(*) AS active, "+
			"COALESCE(SUM(CASE WHEN due_date < ? THEN 1 ELSE 0 END), 0) AS overdue", now).
		Where("assigned_to_id IS NOT NULL").
		Group("assigned_to_id").
		Scan(&rows).Error
	return rows, err
}

// CountByMonth buckets matching tasks by the UTC calendar month of field.
// Months without tasks are absent.
func (r *TaskRepository) CountByMonth(ctx context.Context, q model.TaskQuery, field model.TaskField) ([]model.MonthCount, error) {
	col, ok := monthColumns[field]
	if !ok {
		return nil, fmt.Errorf("cannot bucket tasks by %q", field)
	}
	rows := []model.MonthCount{}
	err := r.aggregate(ctx, q).
		Select("to_char(date_trunc('month', " + col + " AT TIME ZONE 'UTC'), 'YYYY-MM') AS month, COUNT(*) AS count").
		Where(col + " IS NOT NULL").
		Group("month").
		Order("month").
		Scan(&rows).Error
	return rows, err
}
