package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/apperr"
	"workorder/internal/model"
)

const defaultPageSize = 50

// taskFilter is the query string shared by task listings and reports.
type taskFilter struct {
	Status          string `form:"status"`
	Criticality     string `form:"criticality"`
	TaskType        string `form:"task_type"`
	AssignedTo      string `form:"assigned_to"`
	EquipmentID     string `form:"equipment_id"`
	Search          string `form:"search"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
	Sort            string `form:"sort"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
	IncludeArchived bool   `form:"include_archived"`
}

type dateField int

const (
	byCreated dateField = iota
	byDue
)

// bindTaskQuery parses the query string. start_date/end_date bound the field
// selected by dates; a date without a time of day covers that whole day.
func bindTaskQuery(c *gin.Context, dates dateField) (model.TaskQuery, error) {
	var f taskFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		return model.TaskQuery{}, apperr.InvalidArgument("invalid query: %v", err)
	}

	q := model.TaskQuery{
		Search:          strings.TrimSpace(f.Search),
		OrderBy:         f.Sort,
		Offset:          max(f.Offset, 0),
		IncludeArchived: f.IncludeArchived,
	}

	if f.Status != "" {
		for _, raw := range strings.Split(f.Status, ",") {
			s := model.TaskStatus(strings.TrimSpace(raw))
			if !s.Valid() {
				return q, apperr.InvalidArgument("invalid status %q", raw)
			}
			q.Statuses = append(q.Statuses, s)
		}
	}
	if f.Criticality != "" {
		q.Criticality = model.Criticality(f.Criticality)
		if !q.Criticality.Valid() {
			return q, apperr.InvalidArgument("invalid criticality %q", f.Criticality)
		}
	}
	if f.TaskType != "" {
		q.TaskType = model.TaskType(f.TaskType)
		if !q.TaskType.Valid() {
			return q, apperr.InvalidArgument("invalid task type %q", f.TaskType)
		}
	}

	var err error
	if q.AssignedTo, err = optionalID(f.AssignedTo, "assigned_to"); err != nil {
		return q, err
	}
	if q.EquipmentID, err = optionalID(f.EquipmentID, "equipment_id"); err != nil {
		return q, err
	}

	from, err := parseDate(f.StartDate, false)
	if err != nil {
		return q, err
	}
	to, err := parseDate(f.EndDate, true)
	if err != nil {
		return q, err
	}
	if dates == byDue {
		q.DueFrom, q.DueTo = from, to
	} else {
		q.CreatedFrom, q.CreatedTo = from, to
	}

	q.Limit = f.Limit
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	return q, nil
}

func optionalID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid %s", name)
	}
	return &id, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD. With endOfDay, a bare date
// stands for its last instant.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
