package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"workorder/internal/apperr"
	"workorder/internal/model"
)

type ActivityReader interface {
	Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error)
}

type ActivityHandler struct {
	activity ActivityReader
}

func NewActivityHandler(activity ActivityReader) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

type activityFilter struct {
	UserID    string `form:"user_id"`
	TaskID    string `form:"task_id"`
	Action    string `form:"action"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Limit     int    `form:"limit"`
}

// List возвращает журнал действий, новые записи первыми
func (h *ActivityHandler) List(c *gin.Context) {
	q, err := bindActivityQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	logs, err := h.activity.Activity(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	if logs == nil {
		logs = []model.ActivityLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func bindActivityQuery(c *gin.Context) (model.ActivityQuery, error) {
	var f activityFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		return model.ActivityQuery{}, apperr.InvalidArgument("invalid query: %v", err)
	}

	q := model.ActivityQuery{Action: model.ActionType(f.Action), Limit: f.Limit}
	var err error
	if q.UserID, err = optionalID(f.UserID, "user_id"); err != nil {
		return q, err
	}
	if q.TaskID, err = optionalID(f.TaskID, "task_id"); err != nil {
		return q, err
	}
	if q.From, err = parseDate(f.StartDate, false); err != nil {
		return q, err
	}
	if q.To, err = parseDate(f.EndDate, true); err != nil {
		return q, err
	}
	return q, nil
}
