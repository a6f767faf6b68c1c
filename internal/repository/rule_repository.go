package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workorder/internal/model"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(ctx context.Context, rule *model.ScheduledRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(rule).Error, ErrRuleNotFound)
}

func (r *RuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduledRule, error) {
	var rule model.ScheduledRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrRuleNotFound)
	}
	return &rule, nil
}

func (r *RuleRepository) List(ctx context.Context) ([]model.ScheduledRule, error) {
	var rules []model.ScheduledRule
	err := r.db.WithContext(ctx).Order("created_at").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) ListEnabled(ctx context.Context) ([]model.ScheduledRule, error) {
	var rules []model.ScheduledRule
	err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("created_at").Find(&rules).Error
	return rules, err
}

// SetEnabled flips a rule on or off.
func (r *RuleRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&model.ScheduledRule{}).
		Where("id = ?", id).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// MarkRun records when the rule last generated tasks.
func (r *RuleRepository) MarkRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.ScheduledRule{}).
		Where("id = ?", id).
		Update("last_run_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Update rewrites the rule definition. LastRunAt is kept as stored.
func (r *RuleRepository) Update(ctx context.Context, rule *model.ScheduledRule) error {
	result := r.db.WithContext(ctx).Model(rule).
		Select("*").
		Omit("ID", "CreatedAt", "LastRunAt").
		Updates(rule)
	if result.Error != nil {
		return translate(result.Error, ErrRuleNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow[model.ScheduledRule](ctx, r.db, id, ErrRuleNotFound)
}
