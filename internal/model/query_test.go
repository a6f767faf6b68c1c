package model_test

import (
	"testing"
	"time"

	"workorder/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTaskQuery_WithStatuses(t *testing.T) {
	q, ok := model.TaskQuery{}.WithStatuses(model.ActiveStatuses...)
	assert.True(t, ok)
	assert.Equal(t, model.ActiveStatuses, q.Statuses)

	q, ok = model.TaskQuery{Statuses: []model.TaskStatus{model.StatusPaused, model.StatusCompleted}}.
		WithStatuses(model.ActiveStatuses...)
	assert.True(t, ok)
	assert.Equal(t, []model.TaskStatus{model.StatusPaused}, q.Statuses)

	_, ok = model.TaskQuery{Statuses: []model.TaskStatus{model.StatusCompleted}}.
		WithStatuses(model.ActiveStatuses...)
	assert.False(t, ok)
}

func TestTaskQuery_WithTaskType(t *testing.T) {
	_, ok := model.TaskQuery{TaskType: model.TaskTypePreventive}.WithTaskType(model.TaskTypeCorrective)
	assert.False(t, ok)

	q, ok := model.TaskQuery{}.WithTaskType(model.TaskTypeCorrective)
	assert.True(t, ok)
	assert.Equal(t, model.TaskTypeCorrective, q.TaskType)
}

func TestTaskQuery_WithCreatedFromKeepsLaterBound(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 2, 0)

	q := model.TaskQuery{CreatedFrom: &late}.WithCreatedFrom(early)
	assert.Equal(t, late, *q.CreatedFrom)

	q = model.TaskQuery{CreatedFrom: &early}.WithCreatedFrom(late)
	assert.Equal(t, late, *q.CreatedFrom)
}

func TestTaskQuery_WithCompletedSince(t *testing.T) {
	month := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	filter := month.AddDate(0, 0, 10)

	q := model.TaskQuery{}.WithCompletedSince(month)
	assert.Equal(t, month, *q.CompletedSince)

	q = model.TaskQuery{CompletedSince: &filter}.WithCompletedSince(month)
	assert.Equal(t, filter, *q.CompletedSince)
}
