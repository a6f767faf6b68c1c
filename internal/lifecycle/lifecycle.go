// Package lifecycle holds the task state machine. Every function mutates the
// task in memory only; callers persist the result.
package lifecycle

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"workorder/internal/apperr"
	"workorder/internal/model"
)

// Reasons recorded for transitions that do not take one from the caller.
const (
	ReasonStarted   = "started"
	ReasonCompleted = "completed"
	ReasonResumed   = "resumed"
)

// DefaultDailyLogNotes is stored when a daily log is confirmed without notes.
const DefaultDailyLogNotes = "Attendance and work confirmed."

// ErrDuplicateDailyLog is returned when the task already has a log for the
// current UTC day.
var ErrDuplicateDailyLog = apperr.InvalidArgument("a daily log was already recorded for this task today")

// transitions is consulted by every status change. CANCELED only leads back
// to itself: canceling again records one more reason.
var transitions = map[model.TaskStatus][]model.TaskStatus{
	model.StatusPending:    {model.StatusInProgress, model.StatusCanceled},
	model.StatusInProgress: {model.StatusPaused, model.StatusCompleted, model.StatusCanceled},
	model.StatusPaused:     {model.StatusInProgress, model.StatusCanceled},
	model.StatusCanceled:   {model.StatusCanceled},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to model.TaskStatus) bool {
	return slices.Contains(transitions[from], to)
}

func Start(task *model.Task, actorID uuid.UUID, now time.Time) error {
	if task.Status != model.StatusPending {
		return apperr.InvalidTransition("cannot start a task in status %s", task.Status)
	}
	if !task.HasResponsibleParty() {
		return apperr.InvalidTransition("task must be assigned to a user or a contractor before it can start")
	}
	if err := moveTo(task, model.StatusInProgress, actorID, ReasonStarted, now); err != nil {
		return err
	}
	at := now
	task.StartedAt = &at
	return nil
}

// Complete closes an in-progress task. The failure report is kept only for
// corrective tasks.
func Complete(task *model.Task, actorID uuid.UUID, report *model.FailureReport, now time.Time) error {
	if task.Status != model.StatusInProgress {
		return apperr.InvalidTransition("cannot complete a task in status %s", task.Status)
	}
	keep := report != nil && task.TaskType == model.TaskTypeCorrective
	if keep && !report.FailureMode.Valid() {
		return apperr.InvalidArgument("unknown failure mode %q", report.FailureMode)
	}
	if err := moveTo(task, model.StatusCompleted, actorID, ReasonCompleted, now); err != nil {
		return err
	}
	if keep {
		jt := datatypes.NewJSONType(*report)
		task.FailureReport = &jt
	}
	at := now
	task.CompletedAt = &at
	return nil
}

func Pause(task *model.Task, actorID uuid.UUID, reason string, now time.Time) error {
	if task.Status != model.StatusInProgress {
		return apperr.InvalidTransition("cannot pause a task in status %s", task.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.InvalidArgument("a reason is required to pause a task")
	}
	return moveTo(task, model.StatusPaused, actorID, reason, now)
}

func Resume(task *model.Task, actorID uuid.UUID, now time.Time) error {
	if task.Status != model.StatusPaused {
		return apperr.InvalidTransition("cannot resume a task in status %s", task.Status)
	}
	return moveTo(task, model.StatusInProgress, actorID, ReasonResumed, now)
}

// Cancel fails only for completed tasks. Canceling a canceled task appends
// another history entry with the new reason.
func Cancel(task *model.Task, actorID uuid.UUID, reason string, now time.Time) error {
	if task.Status == model.StatusCompleted {
		return apperr.InvalidTransition("cannot cancel a completed task")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.InvalidArgument("a reason is required to cancel a task")
	}
	return moveTo(task, model.StatusCanceled, actorID, reason, now)
}

// Archive hides the task from default listings and reports. The status is
// left as it is.
func Archive(task *model.Task) {
	task.IsArchived = true
}

// AddDailyLog records that work happened at locationID today and moves the
// task there.
func AddDailyLog(task *model.Task, actorID, locationID uuid.UUID, notes string, now time.Time) error {
	entry := newDailyLog(actorID, locationID, notes, now)
	for _, existing := range task.DailyLogs {
		if existing.Day() == entry.Day() {
			return ErrDuplicateDailyLog
		}
	}
	task.DailyLogs = append(task.DailyLogs, entry)
	task.LocationID = locationID
	return nil
}

func AddComment(task *model.Task, actorID uuid.UUID, text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.InvalidArgument("comment text is required")
	}
	task.Comments = append(task.Comments, newComment(actorID, text, now))
	return nil
}

// AddAttachment appends the URL of an already uploaded file.
func AddAttachment(task *model.Task, rawURL string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperr.InvalidArgument("attachment must be an absolute URL")
	}
	task.Attachments = append(task.Attachments, u.String())
	return nil
}

func moveTo(task *model.Task, to model.TaskStatus, actorID uuid.UUID, reason string, now time.Time) error {
	if !CanTransition(task.Status, to) {
		return apperr.InvalidTransition("cannot move a task from %s to %s", task.Status, to)
	}
	task.StatusHistory = append(task.StatusHistory, newStatusChange(task.Status, to, actorID, reason, now))
	task.Status = to
	return nil
}
