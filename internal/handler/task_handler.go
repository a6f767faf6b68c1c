package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/middleware"
	"workorder/internal/model"
	"workorder/internal/service"
)

// TaskService is the part of service.TaskService the handler drives.
type TaskService interface {
	Create(ctx context.Context, actor *model.User, in service.CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, q model.TaskQuery) ([]model.Task, int64, error)
	MyTasks(ctx context.Context, actor *model.User) ([]model.Task, error)
	Summary(ctx context.Context) (service.TaskSummary, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, in service.UpdateTaskInput) (*model.Task, error)
	Start(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error)
	Complete(ctx context.Context, actor *model.User, id uuid.UUID, report *model.FailureReport) (*model.Task, error)
	Pause(ctx context.Context, actor *model.User, id uuid.UUID, reason string) (*model.Task, error)
	Resume(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error)
	Cancel(ctx context.Context, actor *model.User, id uuid.UUID, reason string) (*model.Task, error)
	Archive(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error)
	AddDailyLog(ctx context.Context, actor *model.User, id, locationID uuid.UUID, notes string) (*model.Task, error)
	AddComment(ctx context.Context, actor *model.User, id uuid.UUID, text string) (*model.Task, error)
	AddAttachment(ctx context.Context, actor *model.User, id uuid.UUID, url string) (*model.Task, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Criticality model.Criticality `json:"criticality" binding:"required"`
	TaskType    model.TaskType    `json:"task_type" binding:"required"`
	DueDate     time.Time         `json:"due_date"`
	LocationID  uuid.UUID         `json:"location_id"`

	EquipmentID  *uuid.UUID `json:"equipment_id"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	ContractorID *uuid.UUID `json:"contractor_id"`

	ContractorContactName  string `json:"contractor_contact_name"`
	ContractorContactPhone string `json:"contractor_contact_phone"`
	ContractorNotes        string `json:"contractor_notes"`
}

// UpdateTaskRequest представляет частичное обновление задачи
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Criticality *model.Criticality `json:"criticality"`
	TaskType    *model.TaskType    `json:"task_type"`
	DueDate     *time.Time         `json:"due_date"`

	LocationID   *uuid.UUID `json:"location_id"`
	EquipmentID  *uuid.UUID `json:"equipment_id"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	ContractorID *uuid.UUID `json:"contractor_id"`

	ContractorContactName  *string `json:"contractor_contact_name"`
	ContractorContactPhone *string `json:"contractor_contact_phone"`
	ContractorNotes        *string `json:"contractor_notes"`
}

// StatusChangeRequest содержит причину паузы или отмены
type StatusChangeRequest struct {
	Reason string `json:"reason" binding:"required,min=10"`
}

// CompleteTaskRequest содержит отчет об отказе для корректирующих задач
type CompleteTaskRequest struct {
	FailureReport *model.FailureReport `json:"failure_report" binding:"omitempty"`
}

type DailyLogRequest struct {
	LocationID uuid.UUID `json:"location_id"`
	Notes      string    `json:"notes"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type AttachmentRequest struct {
	URL string `json:"url" binding:"required"`
}

// TaskListResponse представляет страницу задач
type TaskListResponse struct {
	Data   []model.Task `json:"data"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), middleware.Actor(c), service.CreateTaskInput{
		Title:                  req.Title,
		Description:            req.Description,
		Criticality:            req.Criticality,
		TaskType:               req.TaskType,
		DueDate:                req.DueDate,
		LocationID:             req.LocationID,
		EquipmentID:            req.EquipmentID,
		AssignedTo:             req.AssignedTo,
		ContractorID:           req.ContractorID,
		ContractorContactName:  req.ContractorContactName,
		ContractorContactPhone: req.ContractorContactPhone,
		ContractorNotes:        req.ContractorNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// List возвращает задачи с фильтрами, сортировкой и пагинацией
func (h *TaskHandler) List(c *gin.Context) {
	q, err := bindTaskQuery(c, byDue)
	if err != nil {
		writeError(c, err)
		return
	}
	if q.OrderBy == "" {
		q.OrderBy = "due_date"
	}
	h.list(c, q)
}

// ByEquipment возвращает историю задач по оборудованию
func (h *TaskHandler) ByEquipment(c *gin.Context) {
	equipmentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	q, err := bindTaskQuery(c, byDue)
	if err != nil {
		writeError(c, err)
		return
	}
	q.EquipmentID = &equipmentID
	q.IncludeArchived = true
	h.list(c, q)
}

func (h *TaskHandler) list(c *gin.Context, q model.TaskQuery) {
	tasks, total, err := h.tasks.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, TaskListResponse{Data: tasks, Total: total, Limit: q.Limit, Offset: q.Offset})
}

// Mine возвращает активные задачи текущего пользователя
func (h *TaskHandler) Mine(c *gin.Context) {
	tasks, err := h.tasks.MyTasks(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Summary(c *gin.Context) {
	sum, err := h.tasks.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GetByID получает задачу по ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update обновляет поля задачи; статус меняется только через переходы
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), middleware.Actor(c), id, service.UpdateTaskInput{
		Title:                  req.Title,
		Description:            req.Description,
		Criticality:            req.Criticality,
		TaskType:               req.TaskType,
		DueDate:                req.DueDate,
		LocationID:             req.LocationID,
		EquipmentID:            req.EquipmentID,
		AssignedTo:             req.AssignedTo,
		ContractorID:           req.ContractorID,
		ContractorContactName:  req.ContractorContactName,
		ContractorContactPhone: req.ContractorContactPhone,
		ContractorNotes:        req.ContractorNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Start(c *gin.Context) {
	h.transition(c, h.tasks.Start)
}

func (h *TaskHandler) Resume(c *gin.Context) {
	h.transition(c, h.tasks.Resume)
}

// Archive скрывает задачу из списков
func (h *TaskHandler) Archive(c *gin.Context) {
	h.transition(c, h.tasks.Archive)
}

// Complete завершает задачу; тело запроса необязательно
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	task, err := h.tasks.Complete(c.Request.Context(), middleware.Actor(c), id, req.FailureReport)
	h.respond(c, task, err)
}

func (h *TaskHandler) Pause(c *gin.Context) {
	h.withReason(c, h.tasks.Pause)
}

func (h *TaskHandler) Cancel(c *gin.Context) {
	h.withReason(c, h.tasks.Cancel)
}

// AddDailyLog подтверждает работу и местоположение за сегодня
func (h *TaskHandler) AddDailyLog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req DailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.tasks.AddDailyLog(c.Request.Context(), middleware.Actor(c), id, req.LocationID, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.tasks.AddComment(c.Request.Context(), middleware.Actor(c), id, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) AddAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.tasks.AddAttachment(c.Request.Context(), middleware.Actor(c), id, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type transitionFunc func(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error)

func (h *TaskHandler) transition(c *gin.Context, fn transitionFunc) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := fn(c.Request.Context(), middleware.Actor(c), id)
	h.respond(c, task, err)
}

type reasonFunc func(ctx context.Context, actor *model.User, id uuid.UUID, reason string) (*model.Task, error)

func (h *TaskHandler) withReason(c *gin.Context, fn reasonFunc) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := fn(c.Request.Context(), middleware.Actor(c), id, req.Reason)
	h.respond(c, task, err)
}

func (h *TaskHandler) respond(c *gin.Context, task *model.Task, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
