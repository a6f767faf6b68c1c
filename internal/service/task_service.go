// Package service orchestrates task operations: it loads the task, checks
// policy, applies the lifecycle change, persists it and then emits the audit
// entry and notifications.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"workorder/internal/apperr"
	"workorder/internal/audit"
	"workorder/internal/lifecycle"
	"workorder/internal/model"
	"workorder/internal/notify"
	"workorder/internal/policy"
	"workorder/internal/telemetry"
)

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Find(ctx context.Context, q model.TaskQuery) ([]model.Task, error)
	Count(ctx context.Context, q model.TaskQuery) (int64, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type LocationLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
}

type EquipmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
}

type ContractorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contractor, error)
}

// Deps are the collaborators of TaskService. Now and Logger are optional.
type Deps struct {
	Tasks       TaskStore
	Users       UserLookup
	Locations   LocationLookup
	Equipment   EquipmentLookup
	Contractors ContractorLookup
	Audit       audit.Emitter
	Notifier    notify.Dispatcher
	Logger      *slog.Logger
	Now         func() time.Time
}

type TaskService struct {
	tasks       TaskStore
	users       UserLookup
	locations   LocationLookup
	equipment   EquipmentLookup
	contractors ContractorLookup
	audit       audit.Emitter
	notifier    notify.Dispatcher
	logger      *slog.Logger
	now         func() time.Time
}

func NewTaskService(d Deps) *TaskService {
	s := &TaskService{
		tasks:       d.Tasks,
		users:       d.Users,
		locations:   d.Locations,
		equipment:   d.Equipment,
		contractors: d.Contractors,
		audit:       d.Audit,
		notifier:    d.Notifier,
		logger:      d.Logger,
		now:         d.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CreateTaskInput struct {
	Title       string
	Description string
	Criticality model.Criticality
	TaskType    model.TaskType
	DueDate     time.Time
	LocationID  uuid.UUID

	EquipmentID  *uuid.UUID
	AssignedTo   *uuid.UUID
	ContractorID *uuid.UUID

	ContractorContactName  string
	ContractorContactPhone string
	ContractorNotes        string
}

func (in CreateTaskInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperr.InvalidArgument("title is required")
	case !in.Criticality.Valid():
		return apperr.InvalidArgument("invalid criticality %q", in.Criticality)
	case !in.TaskType.Valid():
		return apperr.InvalidArgument("invalid task type %q", in.TaskType)
	case in.DueDate.IsZero():
		return apperr.InvalidArgument("due date is required")
	case in.LocationID == uuid.Nil:
		return apperr.InvalidArgument("location is required")
	}
	return nil
}

// UpdateTaskInput changes descriptive fields and relationships. Nil fields
// are left untouched. Status only moves through the transition methods.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Criticality *model.Criticality
	TaskType    *model.TaskType
	DueDate     *time.Time

	LocationID   *uuid.UUID
	EquipmentID  *uuid.UUID
	AssignedTo   *uuid.UUID
	ContractorID *uuid.UUID

	ContractorContactName  *string
	ContractorContactPhone *string
	ContractorNotes        *string
}

func (in UpdateTaskInput) validate() error {
	switch {
	case in.Title != nil && strings.TrimSpace(*in.Title) == "":
		return apperr.InvalidArgument("title cannot be empty")
	case in.Criticality != nil && !in.Criticality.Valid():
		return apperr.InvalidArgument("invalid criticality %q", *in.Criticality)
	case in.TaskType != nil && !in.TaskType.Valid():
		return apperr.InvalidArgument("invalid task type %q", *in.TaskType)
	case in.DueDate != nil && in.DueDate.IsZero():
		return apperr.InvalidArgument("due date cannot be empty")
	}
	return nil
}

// Create stores a new PENDING task. A nil actor is the system (scheduled
// rules) and skips the assignment policy.
func (s *TaskService) Create(ctx context.Context, actor *model.User, in CreateTaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, &in.LocationID, in.EquipmentID, in.ContractorID); err != nil {
		return nil, err
	}

	assignee := in.AssignedTo
	if assignee != nil {
		if err := s.authorizeAssignee(ctx, actor, *assignee); err != nil {
			return nil, err
		}
	} else if actor != nil && in.ContractorID == nil && !policy.CanCreateUnassigned(actor.Role) {
		self := actor.ID
		assignee = &self
	}

	now := s.now().UTC()
	task := &model.Task{
		ID:                     uuid.New(),
		Title:                  strings.TrimSpace(in.Title),
		Description:            in.Description,
		Criticality:            in.Criticality,
		TaskType:               in.TaskType,
		DueDate:                in.DueDate,
		Status:                 model.StatusPending,
		LocationID:             in.LocationID,
		EquipmentID:            in.EquipmentID,
		AssignedToID:           assignee,
		ContractorID:           in.ContractorID,
		ContractorContactName:  in.ContractorContactName,
		ContractorContactPhone: in.ContractorContactPhone,
		ContractorNotes:        in.ContractorNotes,
		CreatedByID:            actorID(actor),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, internal(err, "create task")
	}

	origin := "user"
	if actor == nil {
		origin = "system"
	}
	telemetry.TasksCreated.WithLabelValues(origin).Inc()

	s.record(ctx, actor, model.ActionTaskCreated, task.ID, fmt.Sprintf("created task %q", task.Title))
	if task.AssignedToID != nil && (actor == nil || *task.AssignedToID != actor.ID) {
		s.notifyAssignee(ctx, *task.AssignedToID, task)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	return task, nil
}

// List returns one page of matching tasks and the total number of matches.
func (s *TaskService) List(ctx context.Context, q model.TaskQuery) ([]model.Task, int64, error) {
	total, err := s.tasks.Count(ctx, q)
	if err != nil {
		return nil, 0, internal(err, "count tasks")
	}
	tasks, err := s.tasks.Find(ctx, q)
	if err != nil {
		return nil, 0, internal(err, "list tasks")
	}
	return tasks, total, nil
}

// MyTasks returns the open tasks assigned to actor, soonest due first.
func (s *TaskService) MyTasks(ctx context.Context, actor *model.User) ([]model.Task, error) {
	id := actor.ID
	tasks, err := s.tasks.Find(ctx, model.TaskQuery{
		Statuses:   model.ActiveStatuses,
		AssignedTo: &id,
		OrderBy:    "due_date",
	})
	if err != nil {
		return nil, internal(err, "list my tasks")
	}
	return tasks, nil
}

// Update applies in to the task. Exactly one audit entry is written:
// TASK_ASSIGNED when the assignee id changed, TASK_UPDATED otherwise.
func (s *TaskService) Update(ctx context.Context, actor *model.User, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	if err := s.checkReferences(ctx, in.LocationID, in.EquipmentID, in.ContractorID); err != nil {
		return nil, err
	}
	if in.AssignedTo != nil {
		if err := s.authorizeAssignee(ctx, actor, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	previous := task.AssignedToID
	applyUpdate(task, in)

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	if assigneeChanged(previous, task.AssignedToID) {
		s.record(ctx, actor, model.ActionTaskAssigned, task.ID, fmt.Sprintf("assigned task to %s", *task.AssignedToID))
		s.notifyAssignee(ctx, *task.AssignedToID, task)
	} else {
		s.record(ctx, actor, model.ActionTaskUpdated, task.ID, fmt.Sprintf("updated task %q", task.Title))
	}
	return task, nil
}

func applyUpdate(task *model.Task, in UpdateTaskInput) {
	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Criticality != nil {
		task.Criticality = *in.Criticality
	}
	if in.TaskType != nil {
		task.TaskType = *in.TaskType
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.LocationID != nil {
		task.LocationID = *in.LocationID
	}
	if in.EquipmentID != nil {
		task.EquipmentID = in.EquipmentID
	}
	if in.AssignedTo != nil {
		task.AssignedToID = in.AssignedTo
	}
	if in.ContractorID != nil {
		task.ContractorID = in.ContractorID
	}
	if in.ContractorContactName != nil {
		task.ContractorContactName = *in.ContractorContactName
	}
	if in.ContractorContactPhone != nil {
		task.ContractorContactPhone = *in.ContractorContactPhone
	}
	if in.ContractorNotes != nil {
		task.ContractorNotes = *in.ContractorNotes
	}
}

// assigneeChanged compares ids, so reloading the same user is not a reassignment.
func assigneeChanged(before, after *uuid.UUID) bool {
	if after == nil {
		return false
	}
	return before == nil || *before != *after
}

func (s *TaskService) Start(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error) {
	return s.transition(ctx, actor, id, func(t *model.Task, now time.Time) error {
		return lifecycle.Start(t, actor.ID, now)
	})
}

func (s *TaskService) Complete(ctx context.Context, actor *model.User, id uuid.UUID, report *model.FailureReport) (*model.Task, error) {
	return s.transition(ctx, actor, id, func(t *model.Task, now time.Time) error {
		return lifecycle.Complete(t, actor.ID, report, now)
	})
}

func (s *TaskService) Pause(ctx context.Context, actor *model.User, id uuid.UUID, reason string) (*model.Task, error) {
	return s.transition(ctx, actor, id, func(t *model.Task, now time.Time) error {
		return lifecycle.Pause(t, actor.ID, reason, now)
	})
}

func (s *TaskService) Resume(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error) {
	return s.transition(ctx, actor, id, func(t *model.Task, now time.Time) error {
		return lifecycle.Resume(t, actor.ID, now)
	})
}

func (s *TaskService) Cancel(ctx context.Context, actor *model.User, id uuid.UUID, reason string) (*model.Task, error) {
	return s.transition(ctx, actor, id, func(t *model.Task, now time.Time) error {
		return lifecycle.Cancel(t, actor.ID, reason, now)
	})
}

// transition runs one status change and records TASK_STATUS_CHANGED.
func (s *TaskService) transition(ctx context.Context, actor *model.User, id uuid.UUID, mutate func(*model.Task, time.Time) error) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	if err := mutate(task, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	change := task.StatusHistory[len(task.StatusHistory)-1]
	telemetry.TaskTransitions.WithLabelValues(string(change.To)).Inc()
	s.record(ctx, actor, model.ActionTaskStatusChanged, task.ID,
		fmt.Sprintf("status changed from %s to %s: %s", change.From, change.To, change.Reason))
	return task, nil
}

func (s *TaskService) Archive(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error) {
	if !policy.CanArchive(actor.Role) {
		return nil, apperr.Forbidden("role %q cannot archive tasks", actor.Role)
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	lifecycle.Archive(task)
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	s.record(ctx, actor, model.ActionTaskArchived, task.ID, fmt.Sprintf("archived task %q", task.Title))
	return task, nil
}

func (s *TaskService) AddDailyLog(ctx context.Context, actor *model.User, id, locationID uuid.UUID, notes string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		return nil, internal(err, "load location")
	}
	if err := lifecycle.AddDailyLog(task, actor.ID, locationID, notes, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	s.record(ctx, actor, model.ActionDailyLogAdded, task.ID, "daily log confirmed")
	return task, nil
}

func (s *TaskService) AddComment(ctx context.Context, actor *model.User, id uuid.UUID, text string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	if err := lifecycle.AddComment(task, actor.ID, text, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	s.record(ctx, actor, model.ActionCommentAdded, task.ID, "comment added")
	return task, nil
}

func (s *TaskService) AddAttachment(ctx context.Context, actor *model.User, id uuid.UUID, url string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "load task")
	}
	if err := lifecycle.AddAttachment(task, url); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	s.record(ctx, actor, model.ActionAttachmentAdded, task.ID, task.Attachments[len(task.Attachments)-1])
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = s.now().UTC()
	err := s.tasks.Update(ctx, task)
	if errors.Is(err, apperr.ErrConflict) {
		telemetry.VersionConflicts.Inc()
	}
	if err != nil {
		return internal(err, "save task")
	}
	return nil
}

// checkReferences verifies that every referenced entity exists. Nil ids are skipped.
func (s *TaskService) checkReferences(ctx context.Context, locationID, equipmentID, contractorID *uuid.UUID) error {
	if locationID != nil {
		if _, err := s.locations.GetByID(ctx, *locationID); err != nil {
			return internal(err, "load location")
		}
	}
	if equipmentID != nil {
		if _, err := s.equipment.GetByID(ctx, *equipmentID); err != nil {
			return internal(err, "load equipment")
		}
	}
	if contractorID != nil {
		if _, err := s.contractors.GetByID(ctx, *contractorID); err != nil {
			return internal(err, "load contractor")
		}
	}
	return nil
}

func (s *TaskService) authorizeAssignee(ctx context.Context, actor *model.User, assigneeID uuid.UUID) error {
	target, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return internal(err, "load assignee")
	}
	return policy.AuthorizeAssignment(actor, target)
}

// record writes an audit entry. Failures are logged and counted only.
func (s *TaskService) record(ctx context.Context, actor *model.User, action model.ActionType, taskID uuid.UUID, details string) {
	err := s.audit.Record(ctx, audit.Entry{
		ActorID: actorID(actor),
		Action:  action,
		TaskID:  &taskID,
		Details: details,
	})
	if err != nil {
		telemetry.AuditFailures.Inc()
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("action", string(action)),
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *TaskService) notifyAssignee(ctx context.Context, userID uuid.UUID, task *model.Task) {
	err := s.notifier.NotifyUser(ctx, userID, "New task assigned",
		fmt.Sprintf("%s (%s, due %s)", task.Title, task.Criticality, task.DueDate.Format(time.DateOnly)))
	if err != nil {
		telemetry.NotificationFailures.Inc()
		s.logger.WarnContext(ctx, "notification failed",
			slog.String("user_id", userID.String()),
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func actorID(actor *model.User) *uuid.UUID {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

// internal keeps classified errors as they are and marks everything else as
// an internal failure of op.
func internal(err error, op string) error {
	if apperr.Kind(err) != apperr.ErrInternal {
		return err
	}
	return apperr.Internal(err, op)
}
