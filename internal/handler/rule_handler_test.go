package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"workorder/internal/apperr"
	"workorder/internal/handler"
	"workorder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRuleStore struct {
	mock.Mock
}

func (m *MockRuleStore) Create(ctx context.Context, rule *model.ScheduledRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleStore) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduledRule, error) {
	args := m.Called(ctx, id)
	rule, _ := args.Get(0).(*model.ScheduledRule)
	return rule, args.Error(1)
}

func (m *MockRuleStore) List(ctx context.Context) ([]model.ScheduledRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]model.ScheduledRule)
	return rules, args.Error(1)
}

func (m *MockRuleStore) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return m.Called(ctx, id, enabled).Error(0)
}

func (m *MockRuleStore) Update(ctx context.Context, rule *model.ScheduledRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRuleRunner struct {
	mock.Mock
}

func (m *MockRuleRunner) RunRule(ctx context.Context, rule model.ScheduledRule, now time.Time) (int, error) {
	args := m.Called(ctx, rule, now)
	return args.Int(0), args.Error(1)
}

func setupRuleRouter() (*gin.Engine, *MockRuleStore, *MockRuleRunner) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store, runner := new(MockRuleStore), new(MockRuleRunner)
	h := handler.NewRuleHandler(store, runner)

	r.POST("/rules", h.Create)
	r.GET("/rules", h.List)
	r.PATCH("/rules/:id", h.Update)
	r.DELETE("/rules/:id", h.Delete)
	r.PATCH("/rules/:id/toggle", h.Toggle)
	r.POST("/rules/:id/run-now", h.RunNow)
	return r, store, runner
}

func validRule() map[string]string {
	return map[string]string{
		"name":                  "Monthly inverter check",
		"schedule":              "0 6 1 * *",
		"target_equipment_type": "inverter",
		"template_title":        "Inspect {{EQUIPMENT}}",
		"template_description":  "Visual inspection and thermal scan",
		"criticality":           "medium",
		"task_type":             "preventive",
	}
}

func TestCreateRule_Success(t *testing.T) {
	// Arrange
	router, store, _ := setupRuleRouter()
	store.On("Create", mock.Anything, mock.MatchedBy(func(r *model.ScheduledRule) bool {
		return r.Enabled && r.Schedule == "0 6 1 * *" && r.TaskType == model.TaskTypePreventive
	})).Return(nil)

	// Act
	resp := doJSON(router, "POST", "/rules", validRule())

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	store.AssertExpectations(t)
}

func TestCreateRule_InvalidSchedule(t *testing.T) {
	// Arrange
	router, store, _ := setupRuleRouter()
	body := validRule()
	body["schedule"] = "every monday"

	// Act
	resp := doJSON(router, "POST", "/rules", body)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid schedule")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestToggleRule_NotFound(t *testing.T) {
	router, store, _ := setupRuleRouter()
	id := uuid.New()
	store.On("SetEnabled", mock.Anything, id, false).Return(apperr.NotFound("scheduled rule not found"))

	resp := doJSON(router, "PATCH", "/rules/"+id.String()+"/toggle", map[string]bool{"enabled": false})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	store.AssertExpectations(t)
}

func TestRunRuleNow(t *testing.T) {
	// Arrange
	router, store, runner := setupRuleRouter()
	rule := &model.ScheduledRule{ID: uuid.New(), Name: "Monthly inverter check", Enabled: true}
	store.On("GetByID", mock.Anything, rule.ID).Return(rule, nil)
	runner.On("RunRule", mock.Anything, *rule, mock.AnythingOfType("time.Time")).Return(3, nil)

	// Act
	resp := doJSON(router, "POST", "/rules/"+rule.ID.String()+"/run-now", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"rule_id":"`+rule.ID.String()+`","created":3}`, resp.Body.String())
	runner.AssertExpectations(t)
}

func TestUpdateRule_ChangesGivenFields(t *testing.T) {
	// Arrange
	router, store, _ := setupRuleRouter()
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).Return(&model.ScheduledRule{
		ID: id, Name: "Monthly inverter check", Schedule: "0 6 1 * *", TargetEquipmentType: "inverter",
		Criticality: model.CriticalityMedium, TaskType: model.TaskTypePreventive, Enabled: true,
	}, nil)
	store.On("Update", mock.Anything, mock.MatchedBy(func(r *model.ScheduledRule) bool {
		return r.Schedule == "0 6 * * 1" && r.Criticality == model.CriticalityHigh &&
			r.Name == "Monthly inverter check" && r.TargetEquipmentType == "inverter"
	})).Return(nil)

	// Act
	resp := doJSON(router, "PATCH", "/rules/"+id.String(), map[string]string{"schedule": "0 6 * * 1", "criticality": "high"})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	store.AssertExpectations(t)
}

func TestUpdateRule_InvalidSchedule(t *testing.T) {
	router, store, _ := setupRuleRouter()

	resp := doJSON(router, "PATCH", "/rules/"+uuid.NewString(), map[string]string{"schedule": "every day"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteRule_NotFound(t *testing.T) {
	router, store, _ := setupRuleRouter()
	id := uuid.New()
	store.On("Delete", mock.Anything, id).Return(apperr.NotFound("scheduled rule not found"))

	resp := doJSON(router, "DELETE", "/rules/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
