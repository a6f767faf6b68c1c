package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/model"
	"workorder/internal/scheduler"
)

type RuleStore interface {
	Create(ctx context.Context, rule *model.ScheduledRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduledRule, error)
	List(ctx context.Context) ([]model.ScheduledRule, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	Update(ctx context.Context, rule *model.ScheduledRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RuleRunner interface {
	RunRule(ctx context.Context, rule model.ScheduledRule, now time.Time) (int, error)
}

type RuleHandler struct {
	rules  RuleStore
	runner RuleRunner
}

func NewRuleHandler(rules RuleStore, runner RuleRunner) *RuleHandler {
	return &RuleHandler{rules: rules, runner: runner}
}

// RuleRequest описывает правило планового обслуживания
type RuleRequest struct {
	Name                string            `json:"name" binding:"required"`
	Schedule            string            `json:"schedule" binding:"required"`
	TargetEquipmentType string            `json:"target_equipment_type" binding:"required"`
	TemplateTitle       string            `json:"template_title" binding:"required"`
	TemplateDescription string            `json:"template_description" binding:"required"`
	Criticality         model.Criticality `json:"criticality" binding:"required"`
	TaskType            model.TaskType    `json:"task_type" binding:"required"`
}

// RuleUpdateRequest меняет только переданные поля правила
type RuleUpdateRequest struct {
	Name                *string            `json:"name" binding:"omitempty,min=1"`
	Schedule            *string            `json:"schedule"`
	TargetEquipmentType *string            `json:"target_equipment_type" binding:"omitempty,min=1"`
	TemplateTitle       *string            `json:"template_title" binding:"omitempty,min=1"`
	TemplateDescription *string            `json:"template_description" binding:"omitempty,min=1"`
	Criticality         *model.Criticality `json:"criticality"`
	TaskType            *model.TaskType    `json:"task_type"`
}

type ToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type RunResponse struct {
	RuleID  uuid.UUID `json:"rule_id"`
	Created int       `json:"created"`
}

func (h *RuleHandler) Create(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := scheduler.ValidateSchedule(req.Schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Criticality.Valid() || !req.TaskType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criticality or task type"})
		return
	}

	rule := &model.ScheduledRule{
		Name:                strings.TrimSpace(req.Name),
		Schedule:            req.Schedule,
		TargetEquipmentType: req.TargetEquipmentType,
		TemplateTitle:       req.TemplateTitle,
		TemplateDescription: req.TemplateDescription,
		Criticality:         req.Criticality,
		TaskType:            req.TaskType,
		Enabled:             true,
		CreatedAt:           time.Now().UTC(),
	}
	if err := h.rules.Create(c.Request.Context(), rule); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(rules))
}

func (h *RuleHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rule, err := h.rules.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *RuleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RuleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Schedule != nil {
		if err := scheduler.ValidateSchedule(*req.Schedule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if (req.Criticality != nil && !req.Criticality.Valid()) || (req.TaskType != nil && !req.TaskType.Valid()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criticality or task type"})
		return
	}

	rule, err := h.rules.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	setIf(&rule.Schedule, req.Schedule)
	setIf(&rule.TargetEquipmentType, req.TargetEquipmentType)
	setIf(&rule.TemplateTitle, req.TemplateTitle)
	setIf(&rule.TemplateDescription, req.TemplateDescription)
	setIf(&rule.Criticality, req.Criticality)
	setIf(&rule.TaskType, req.TaskType)

	if err := h.rules.Update(c.Request.Context(), rule); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *RuleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.rules.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted successfully"})
}

// Toggle включает или выключает правило
func (h *RuleHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.rules.SetEnabled(c.Request.Context(), id, *req.Enabled); err != nil {
		writeError(c, err)
		return
	}
	h.GetByID(c)
}

// RunNow генерирует задачи по правилу немедленно, независимо от расписания
func (h *RuleHandler) RunNow(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rule, err := h.rules.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := h.runner.RunRule(c.Request.Context(), *rule, time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RunResponse{RuleID: rule.ID, Created: created})
}
