package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"workorder/internal/model"
)

// The builders below are the only place history entries are constructed.
// IDs stay zero until the repository stores the entry.

func newStatusChange(from, to model.TaskStatus, actorID uuid.UUID, reason string, now time.Time) model.StatusChange {
	return model.StatusChange{From: from, To: to, Reason: reason, ActorID: actorID, CreatedAt: now}
}

func newDailyLog(actorID, locationID uuid.UUID, notes string, now time.Time) model.DailyLog {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = DefaultDailyLogNotes
	}
	return model.DailyLog{ConfirmedByID: actorID, Notes: notes, LocationID: locationID, CreatedAt: now}
}

func newComment(authorID uuid.UUID, text string, now time.Time) model.Comment {
	return model.Comment{Text: text, AuthorID: authorID, CreatedAt: now}
}
