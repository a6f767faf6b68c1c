// Package scheduler expands scheduled rules into tasks. It never starts or
// completes tasks; it only creates them as the system user.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"workorder/internal/model"
	"workorder/internal/service"
	"workorder/internal/telemetry"
)

// EquipmentPlaceholder in a rule's title or description is replaced by the
// equipment name.
const EquipmentPlaceholder = "{{EQUIPMENT}}"

const dueIn = 30 * 24 * time.Hour

type TaskCreator interface {
	Create(ctx context.Context, actor *model.User, in service.CreateTaskInput) (*model.Task, error)
}

type RuleStore interface {
	ListEnabled(ctx context.Context) ([]model.ScheduledRule, error)
	MarkRun(ctx context.Context, id uuid.UUID, at time.Time) error
}

type EquipmentSource interface {
	ListByType(ctx context.Context, equipmentType string) ([]model.Equipment, error)
}

// Generator checks enabled rules on a cron tick and fires the due ones.
type Generator struct {
	rules     RuleStore
	equipment EquipmentSource
	tasks     TaskCreator
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewGenerator(rules RuleStore, equipment EquipmentSource, tasks TaskCreator, logger *slog.Logger) *Generator {
	return &Generator{
		rules:     rules,
		equipment: equipment,
		tasks:     tasks,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(time.UTC)),
	}
}

// ValidateSchedule reports whether spec is a standard five-field cron
// expression or a descriptor such as @daily.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs RunDue every time checkSpec fires until Stop is called.
func (g *Generator) Start(ctx context.Context, checkSpec string) error {
	_, err := g.cron.AddFunc(checkSpec, func() {
		if err := g.RunDue(ctx, time.Now().UTC()); err != nil {
			g.logger.Error("scheduled rules", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("register generator %q: %w", checkSpec, err)
	}
	g.cron.Start()
	g.logger.Info("rule generator started", slog.String("check", checkSpec))
	return nil
}

// Stop waits for a running check to finish.
func (g *Generator) Stop() {
	<-g.cron.Stop().Done()
}

// RunDue fires every enabled rule whose next activation after its last run
// is not in the future. A rule that never ran counts from its creation.
func (g *Generator) RunDue(ctx context.Context, now time.Time) error {
	rules, err := g.rules.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}
	for _, rule := range rules {
		schedule, err := cron.ParseStandard(rule.Schedule)
		if err != nil {
			g.logger.Warn("skipping rule with invalid schedule",
				slog.String("rule", rule.Name),
				slog.String("schedule", rule.Schedule),
			)
			continue
		}
		last := rule.CreatedAt
		if rule.LastRunAt != nil {
			last = *rule.LastRunAt
		}
		if schedule.Next(last).After(now) {
			continue
		}
		if _, err := g.RunRule(ctx, rule, now); err != nil {
			g.logger.Error("rule failed", slog.String("rule", rule.Name), slog.String("error", err.Error()))
		}
	}
	return nil
}

// RunRule creates one task per equipment of the rule's target type and
// returns how many were created. Failures for single equipment are logged
// and skipped.
func (g *Generator) RunRule(ctx context.Context, rule model.ScheduledRule, now time.Time) (int, error) {
	items, err := g.equipment.ListByType(ctx, rule.TargetEquipmentType)
	if err != nil {
		return 0, fmt.Errorf("list equipment %q: %w", rule.TargetEquipmentType, err)
	}

	created := 0
	for _, eq := range items {
		equipmentID := eq.ID
		_, err := g.tasks.Create(ctx, nil, service.CreateTaskInput{
			Title:       strings.ReplaceAll(rule.TemplateTitle, EquipmentPlaceholder, eq.Name),
			Description: strings.ReplaceAll(rule.TemplateDescription, EquipmentPlaceholder, eq.Name),
			Criticality: rule.Criticality,
			TaskType:    rule.TaskType,
			DueDate:     now.Add(dueIn),
			LocationID:  eq.LocationID,
			EquipmentID: &equipmentID,
		})
		if err != nil {
			g.logger.Error("generate task",
				slog.String("rule", rule.Name),
				slog.String("equipment", eq.Code),
				slog.String("error", err.Error()),
			)
			continue
		}
		created++
	}
	telemetry.RuleTasksGenerated.WithLabelValues(rule.Name).Add(float64(created))

	if err := g.rules.MarkRun(ctx, rule.ID, now); err != nil {
		return created, fmt.Errorf("mark rule %q: %w", rule.Name, err)
	}
	g.logger.Info("scheduled rule fired",
		slog.String("rule", rule.Name),
		slog.Int("tasks", created),
	)
	return created, nil
}
