package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TaskQuery is the predicate, sort and pagination used to read tasks. The
// repository translates it to SQL.
type TaskQuery struct {
	Statuses    []TaskStatus
	Criticality Criticality
	TaskType    TaskType
	AssignedTo  *uuid.UUID
	EquipmentID *uuid.UUID

	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	DueFrom        *time.Time
	DueTo          *time.Time
	DueBefore      *time.Time
	CompletedSince *time.Time

	// Search is a case-insensitive substring of the title.
	Search string

	HasAssignee     bool
	HasEquipment    bool
	IncludeArchived bool

	OrderBy string
	Limit   int
	Offset  int
}

// WithStatuses narrows q to the given statuses. It returns false when the
// result can match nothing because q already asked for other statuses.
func (q TaskQuery) WithStatuses(statuses ...TaskStatus) (TaskQuery, bool) {
	if len(q.Statuses) == 0 {
		q.Statuses = slices.Clone(statuses)
		return q, true
	}
	var kept []TaskStatus
	for _, s := range q.Statuses {
		if slices.Contains(statuses, s) {
			kept = append(kept, s)
		}
	}
	q.Statuses = kept
	return q, len(kept) > 0
}

// WithTaskType narrows q to one task type, with the same contract as WithStatuses.
func (q TaskQuery) WithTaskType(tt TaskType) (TaskQuery, bool) {
	if q.TaskType != "" && q.TaskType != tt {
		return q, false
	}
	q.TaskType = tt
	return q, true
}

// WithCreatedFrom keeps the later of the existing and the given lower bound.
func (q TaskQuery) WithCreatedFrom(from time.Time) TaskQuery {
	if q.CreatedFrom == nil || q.CreatedFrom.Before(from) {
		q.CreatedFrom = &from
	}
	return q
}

// WithCompletedSince keeps the later of the existing and the given completion bound.
func (q TaskQuery) WithCompletedSince(from time.Time) TaskQuery {
	if q.CompletedSince == nil || q.CompletedSince.Before(from) {
		q.CompletedSince = &from
	}
	return q
}
