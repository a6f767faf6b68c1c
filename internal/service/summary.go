package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"workorder/internal/model"
)

// TaskSummary is the header of the task board.
type TaskSummary struct {
	Pending         int64 `json:"pending"`
	InProgress      int64 `json:"in_progress"`
	HighCriticality int64 `json:"high_criticality"`
	Overdue         int64 `json:"overdue"`
}

// Summary counts open work. High criticality and overdue only consider
// active tasks.
func (s *TaskService) Summary(ctx context.Context) (TaskSummary, error) {
	var sum TaskSummary
	now := s.now().UTC()

	queries := []struct {
		q   model.TaskQuery
		dst *int64
	}{
		{model.TaskQuery{Statuses: []model.TaskStatus{model.StatusPending}}, &sum.Pending},
		{model.TaskQuery{Statuses: []model.TaskStatus{model.StatusInProgress}}, &sum.InProgress},
		{model.TaskQuery{Statuses: model.ActiveStatuses, Criticality: model.CriticalityHigh}, &sum.HighCriticality},
		{model.TaskQuery{Statuses: model.ActiveStatuses, DueBefore: &now}, &sum.Overdue},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range queries {
		g.Go(func() error {
			n, err := s.tasks.Count(gctx, item.q)
			if err != nil {
				return internal(err, "count tasks")
			}
			*item.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TaskSummary{}, err
	}
	return sum, nil
}
