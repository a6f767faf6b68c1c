package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"workorder/internal/model"
	"workorder/internal/telemetry"
)

const (
	topLimit       = 5
	trendMonths    = 6
	technicianDays = 30
)

type KPIs struct {
	ActiveTasks               int     `json:"active_tasks"`
	OverdueTasks              int     `json:"overdue_tasks"`
	CreatedThisMonth          int     `json:"created_this_month"`
	CompletedThisMonth        int     `json:"completed_this_month"`
	AvgResolutionMilliseconds float64 `json:"avg_resolution_milliseconds"`
}

type Dashboard struct {
	KPIs                KPIs         `json:"kpis"`
	TasksByStatus       []GroupCount `json:"tasks_by_status"`
	TasksByCriticality  []GroupCount `json:"tasks_by_criticality"`
	TasksByType         []GroupCount `json:"tasks_by_type"`
	TopTechnicians      []Ranked     `json:"top_technicians"`
	TopFailingEquipment []Ranked     `json:"top_failing_equipment"`
	TasksTrend          []MonthTrend `json:"tasks_trend"`
	GeneratedAt         time.Time    `json:"generated_at"`
}

// Dashboard computes every panel under the same filter. The seven panels
// are independent and run concurrently; the first error cancels the rest.
func (e *Engine) Dashboard(ctx context.Context, f model.TaskQuery) (*Dashboard, error) {
	defer telemetry.ObserveReport("dashboard", time.Now())
	f.OrderBy, f.Limit, f.Offset = "", 0, 0

	key := dashboardKey(f)
	if e.cache != nil {
		var cached Dashboard
		found, err := e.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			e.logger.WarnContext(ctx, "dashboard cache read failed", slog.String("error", err.Error()))
		case found:
			telemetry.DashboardCacheHits.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		telemetry.DashboardCacheHits.WithLabelValues("miss").Inc()
	}

	now := e.now().UTC()
	d := &Dashboard{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.KPIs, err = e.kpis(gctx, f, now)
		return err
	})
	g.Go(func() (err error) {
		d.TasksByStatus, err = e.activeCountBy(gctx, f, model.FieldStatus)
		return err
	})
	g.Go(func() (err error) {
		d.TasksByCriticality, err = e.activeCountBy(gctx, f, model.FieldCriticality)
		return err
	})
	g.Go(func() (err error) {
		d.TasksByType, err = e.activeCountBy(gctx, f, model.FieldTaskType)
		return err
	})
	g.Go(func() (err error) {
		d.TopTechnicians, err = e.topTechnicians(gctx, f, now)
		return err
	})
	g.Go(func() (err error) {
		d.TopFailingEquipment, err = e.topFailingEquipment(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		d.TasksTrend, err = e.tasksTrend(gctx, f, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, d); err != nil {
			e.logger.WarnContext(ctx, "dashboard cache write failed", slog.String("error", err.Error()))
		}
	}
	return d, nil
}

// kpis issues one COUNT per figure. now and startOfMonth are UTC.
func (e *Engine) kpis(ctx context.Context, f model.TaskQuery, now time.Time) (KPIs, error) {
	var k KPIs
	var err error
	startOfMonth := monthStart(now, 0)

	if q, ok := f.WithStatuses(model.ActiveStatuses...); ok {
		if k.ActiveTasks, err = e.count(ctx, q); err != nil {
			return KPIs{}, err
		}
		q.DueBefore = &now
		if k.OverdueTasks, err = e.count(ctx, q); err != nil {
			return KPIs{}, err
		}
	}
	if k.CreatedThisMonth, err = e.count(ctx, f.WithCreatedFrom(startOfMonth)); err != nil {
		return KPIs{}, err
	}
	if q, ok := f.WithStatuses(model.StatusCompleted); ok {
		if k.CompletedThisMonth, err = e.count(ctx, q.WithCompletedSince(startOfMonth)); err != nil {
			return KPIs{}, err
		}
		avg, err := e.overallResolution(ctx, q)
		if err != nil {
			return KPIs{}, err
		}
		k.AvgResolutionMilliseconds = avg.AverageMilliseconds
	}
	return k, nil
}

func (e *Engine) activeCountBy(ctx context.Context, f model.TaskQuery, field model.TaskField) ([]GroupCount, error) {
	q, ok := f.WithStatuses(model.ActiveStatuses...)
	if !ok {
		return []GroupCount{}, nil
	}
	return e.countBy(ctx, q, field)
}

// topTechnicians ranks assignees by completions in the trailing 30 days.
func (e *Engine) topTechnicians(ctx context.Context, f model.TaskQuery, now time.Time) ([]Ranked, error) {
	q, ok := f.WithStatuses(model.StatusCompleted)
	if !ok {
		return []Ranked{}, nil
	}
	q = q.WithCompletedSince(now.AddDate(0, 0, -technicianDays))

	refs, err := e.tasks.TopReferenced(ctx, q, model.FieldAssignee, topLimit)
	if err != nil {
		return nil, fmt.Errorf("rank technicians: %w", err)
	}
	names, err := e.userNames(ctx, refIDs(refs))
	if err != nil {
		return nil, err
	}
	return ranked(refs, names), nil
}

// topFailingEquipment ranks equipment by number of corrective tasks.
func (e *Engine) topFailingEquipment(ctx context.Context, f model.TaskQuery) ([]Ranked, error) {
	q, ok := f.WithTaskType(model.TaskTypeCorrective)
	if !ok {
		return []Ranked{}, nil
	}
	refs, err := e.tasks.TopReferenced(ctx, q, model.FieldEquipment, topLimit)
	if err != nil {
		return nil, fmt.Errorf("rank equipment: %w", err)
	}
	names, err := e.equipmentNames(ctx, refIDs(refs))
	if err != nil {
		return nil, err
	}
	return ranked(refs, names), nil
}

// tasksTrend covers the six calendar months ending with the current one.
func (e *Engine) tasksTrend(ctx context.Context, f model.TaskQuery, now time.Time) ([]MonthTrend, error) {
	from := monthStart(now, -(trendMonths - 1))

	created, err := e.tasks.CountByMonth(ctx, f.WithCreatedFrom(from), model.FieldCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created per month: %w", err)
	}

	var completed []model.MonthCount
	if q, ok := f.WithStatuses(model.StatusCompleted); ok {
		completed, err = e.tasks.CountByMonth(ctx, q.WithCompletedSince(from), model.FieldCompletedAt)
		if err != nil {
			return nil, fmt.Errorf("completed per month: %w", err)
		}
	}
	return trend(created, completed, from, trendMonths), nil
}

// dashboardKey identifies a filter for caching.
func dashboardKey(f model.TaskQuery) string {
	raw, _ := json.Marshal(f)
	sum := sha256.Sum256(raw)
	return "dashboard:" + hex.EncodeToString(sum[:16])
}
