package handler_test

import (
	"context"
	"net/http"
	"testing"

	"workorder/internal/handler"
	"workorder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockActivity struct{ mock.Mock }

func (m *MockActivity) Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error) {
	args := m.Called(ctx, q)
	logs, _ := args.Get(0).([]model.ActivityLog)
	return logs, args.Error(1)
}

func TestListActivity_Filters(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reader := new(MockActivity)
	r.GET("/activity", handler.NewActivityHandler(reader).List)

	taskID := uuid.New()
	reader.On("Activity", mock.Anything, mock.MatchedBy(func(q model.ActivityQuery) bool {
		return q.TaskID != nil && *q.TaskID == taskID &&
			q.Action == model.ActionTaskStatusChanged &&
			q.From != nil && q.To != nil && q.Limit == 10
	})).Return(nil, nil)

	// Act
	resp := doJSON(r, "GET",
		"/activity?task_id="+taskID.String()+"&action=TASK_STATUS_CHANGED&start_date=2026-06-01&end_date=2026-06-30&limit=10", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
	reader.AssertExpectations(t)
}

func TestListActivity_InvalidUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reader := new(MockActivity)
	r.GET("/activity", handler.NewActivityHandler(reader).List)

	resp := doJSON(r, "GET", "/activity?user_id=42", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	reader.AssertNotCalled(t, "Activity", mock.Anything, mock.Anything)
}
