package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"workorder/internal/model"
)

const msPerHour = 3_600_000

// GroupCount is the number of tasks sharing one key.
type GroupCount = model.GroupCount

// Resolution is the mean completedAt - startedAt over Count tasks.
type Resolution struct {
	AverageMilliseconds float64 `json:"average_milliseconds"`
	AverageHours        float64 `json:"average_hours"`
	Count               int     `json:"count"`
}

type GroupResolution struct {
	Key string `json:"key"`
	Resolution
}

type WorkloadEntry struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Active  int       `json:"active"`
	Overdue int       `json:"overdue"`
}

// Ranked is one row of a top-N list.
type Ranked struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int       `json:"count"`
}

type MonthTrend struct {
	Month     string `json:"month"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// resolution never divides by zero: no qualifying task gives 0.
func resolution(avg model.GroupAverage) Resolution {
	if avg.Count == 0 {
		return Resolution{}
	}
	return Resolution{
		AverageMilliseconds: avg.AverageMilliseconds,
		AverageHours:        avg.AverageMilliseconds / msPerHour,
		Count:               avg.Count,
	}
}

// workload joins per-assignee counts with display names, sorted by name.
func workload(loads []model.AssigneeLoad, names map[uuid.UUID]string) []WorkloadEntry {
	out := make([]WorkloadEntry, 0, len(loads))
	for _, l := range loads {
		out = append(out, WorkloadEntry{UserID: l.UserID, Name: names[l.UserID], Active: l.Active, Overdue: l.Overdue})
	}
	slices.SortFunc(out, func(a, b WorkloadEntry) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.UserID.String(), b.UserID.String()))
	})
	return out
}

// ranked keeps the order of refs, which arrive highest count first.
func ranked(refs []model.RefCount, names map[uuid.UUID]string) []Ranked {
	out := make([]Ranked, len(refs))
	for i, r := range refs {
		out[i] = Ranked{ID: r.ID, Name: names[r.ID], Count: r.Count}
	}
	return out
}

func refIDs(refs []model.RefCount) []uuid.UUID {
	ids := make([]uuid.UUID, len(refs))
	for i := range refs {
		ids[i] = refs[i].ID
	}
	return ids
}

// monthStart returns 00:00 UTC on the first day of t's month shifted by offset months.
func monthStart(t time.Time, offset int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

// trend lays monthly counts onto the months starting at from. Empty months
// are kept with zero counts; buckets outside the window are ignored.
func trend(created, completed []model.MonthCount, from time.Time, months int) []MonthTrend {
	out := make([]MonthTrend, months)
	index := map[string]int{}
	for i := range months {
		key := monthStart(from, i).Format("2006-01")
		out[i].Month = key
		index[key] = i
	}
	for _, m := range created {
		if j, ok := index[m.Month]; ok {
			out[j].Created += m.Count
		}
	}
	for _, m := range completed {
		if j, ok := index[m.Month]; ok {
			out[j].Completed += m.Count
		}
	}
	return out
}
