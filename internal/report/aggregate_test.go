package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workorder/internal/model"
)

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, 2, 14, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), monthStart(now, 0))
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), monthStart(now, -5))
}

func TestTrend_ZeroFilledMonths(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	created := []model.MonthCount{
		{Month: "2025-12", Count: 9}, // до начала окна
		{Month: "2026-01", Count: 1},
		{Month: "2026-03", Count: 2},
	}
	completed := []model.MonthCount{{Month: "2026-03", Count: 1}}

	got := trend(created, completed, from, 6)

	require.Len(t, got, 6)
	assert.Equal(t, MonthTrend{Month: "2026-01", Created: 1}, got[0])
	assert.Equal(t, MonthTrend{Month: "2026-02"}, got[1])
	assert.Equal(t, MonthTrend{Month: "2026-03", Created: 2, Completed: 1}, got[2])
	assert.Equal(t, "2026-06", got[5].Month)
}

func TestResolution_ZeroCount(t *testing.T) {
	assert.Equal(t, Resolution{}, resolution(model.GroupAverage{}))
	assert.Equal(t,
		Resolution{AverageMilliseconds: 5_400_000, AverageHours: 1.5, Count: 2},
		resolution(model.GroupAverage{Count: 2, AverageMilliseconds: 5_400_000}))
}

func TestRanked_KeepsOrderAndJoinsNames(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	refs := []model.RefCount{{ID: first, Count: 7}, {ID: second, Count: 3}}

	got := ranked(refs, map[uuid.UUID]string{first: "Inverter 12"})

	assert.Equal(t, []Ranked{
		{ID: first, Name: "Inverter 12", Count: 7},
		{ID: second, Count: 3},
	}, got)
	assert.Equal(t, []uuid.UUID{first, second}, refIDs(refs))
}

func TestWorkload_SortsByName(t *testing.T) {
	ana, bo := uuid.New(), uuid.New()
	loads := []model.AssigneeLoad{
		{UserID: bo, Active: 1, Overdue: 1},
		{UserID: ana, Active: 2, Overdue: 1},
	}

	got := workload(loads, map[uuid.UUID]string{ana: "Ana", bo: "Bo"})

	assert.Equal(t, []WorkloadEntry{
		{UserID: ana, Name: "Ana", Active: 2, Overdue: 1},
		{UserID: bo, Name: "Bo", Active: 1, Overdue: 1},
	}, got)
}
