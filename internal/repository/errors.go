package repository

import (
	"errors"

	"workorder/internal/apperr"

	"gorm.io/gorm"
)

// Common repository errors. All of them carry an apperr kind, so callers
// can match either the specific value or the kind with errors.Is.
var (
	ErrTaskNotFound       = apperr.NotFound("task not found")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrLocationNotFound   = apperr.NotFound("location not found")
	ErrEquipmentNotFound  = apperr.NotFound("equipment not found")
	ErrContractorNotFound = apperr.NotFound("contractor not found")
	ErrRuleNotFound       = apperr.NotFound("scheduled rule not found")

	// ErrVersionConflict is returned when a task changed between read and write.
	ErrVersionConflict = apperr.Conflict("task was modified by another request, reload and retry")

	ErrDuplicate = apperr.Conflict("record already exists")

	// ErrInUse is returned when a row cannot be deleted because other rows
	// still point at it.
	ErrInUse = apperr.Conflict("record is still referenced and cannot be deleted")

	// ErrDuplicateDailyLog is returned when a concurrent request already
	// stored today's daily log for the task.
	ErrDuplicateDailyLog = apperr.Conflict("a daily log was already recorded for this task today")
)

// translate maps gorm errors onto the application error kinds.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	}
	return err
}
