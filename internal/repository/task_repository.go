package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workorder/internal/model"
)

// taskOrders lists the sort keys a TaskQuery may ask for.
var taskOrders = map[string]string{
	"":             "created_at DESC",
	"created_at":   "created_at ASC",
	"-created_at":  "created_at DESC",
	"due_date":     "due_date ASC",
	"-due_date":    "due_date DESC",
	"completed_at": "completed_at ASC",
	"title":        "title ASC",
}

// MaxPageSize caps TaskQuery.Limit for listings.
const MaxPageSize = 500

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task. History is written by Update only.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
	return translate(err, ErrTaskNotFound)
}

// GetByID retrieves a task with its history ordered oldest first.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	byCreated := func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", byCreated).
		Preload("DailyLogs", byCreated).
		Preload("Comments", byCreated).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, ErrTaskNotFound)
	}
	return &task, nil
}

// Update writes the task back if nobody changed it since it was read, bumping
// Version, and inserts history entries that have not been stored yet (zero ID).
// Stored history rows are never rewritten.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	expected := task.Version
	pending := pendingHistory(task)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.Version = expected + 1
		result := tx.Model(task).
			Where("version = ?", expected).
			Select("*").
			Omit(clause.Associations, "ID", "CreatedAt").
			Updates(task)
		if result.Error != nil {
			return translate(result.Error, ErrTaskNotFound)
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		for _, row := range pending {
			row.assign(task.ID)
			if err := tx.Create(row.value).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) && row.duplicate != nil {
					return row.duplicate
				}
				return translate(err, ErrTaskNotFound)
			}
		}
		return nil
	})
	if err != nil {
		task.Version = expected
		for _, row := range pending {
			row.reset()
		}
	}
	return err
}

// Find returns the tasks matching q, without history.
func (r *TaskRepository) Find(ctx context.Context, q model.TaskQuery) ([]model.Task, error) {
	var tasks []model.Task
	order, ok := taskOrders[q.OrderBy]
	if !ok {
		order = taskOrders[""]
	}
	db := applyTaskQuery(r.db.WithContext(ctx).Model(&model.Task{}), q).Order(order)
	if q.Limit > 0 {
		db = db.Limit(min(q.Limit, MaxPageSize))
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns how many tasks match q, ignoring sort and pagination.
func (r *TaskRepository) Count(ctx context.Context, q model.TaskQuery) (int64, error) {
	var count int64
	err := applyTaskQuery(r.db.WithContext(ctx).Model(&model.Task{}), q).Count(&count).Error
	return count, err
}

// applyTaskQuery translates the filter part of model.TaskQuery to WHERE clauses.
func applyTaskQuery(db *gorm.DB, q model.TaskQuery) *gorm.DB {
	if !q.IncludeArchived {
		db = db.Where("is_archived = ?", false)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	if q.Criticality != "" {
		db = db.Where("criticality = ?", q.Criticality)
	}
	if q.TaskType != "" {
		db = db.Where("task_type = ?", q.TaskType)
	}
	if q.AssignedTo != nil {
		db = db.Where("assigned_to_id = ?", *q.AssignedTo)
	}
	if q.EquipmentID != nil {
		db = db.Where("equipment_id = ?", *q.EquipmentID)
	}
	if q.HasAssignee {
		db = db.Where("assigned_to_id IS NOT NULL")
	}
	if q.HasEquipment {
		db = db.Where("equipment_id IS NOT NULL")
	}
	if q.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *q.CreatedFrom)
	}
	if q.CreatedTo != nil {
		db = db.Where("created_at <= ?", *q.CreatedTo)
	}
	if q.DueFrom != nil {
		db = db.Where("due_date >= ?", *q.DueFrom)
	}
	if q.DueTo != nil {
		db = db.Where("due_date <= ?", *q.DueTo)
	}
	if q.DueBefore != nil {
		db = db.Where("due_date < ?", *q.DueBefore)
	}
	if q.CompletedSince != nil {
		db = db.Where("completed_at >= ?", *q.CompletedSince)
	}
	if q.Search != "" {
		db = db.Where("title ILIKE ?", "%"+q.Search+"%")
	}
	return db
}

type historyRow struct {
	value  any
	assign func(taskID uuid.UUID)
	reset  func()
	// duplicate is returned when the insert hits a unique index.
	duplicate error
}

func pendingHistory(task *model.Task) []historyRow {
	var rows []historyRow
	for i := range task.StatusHistory {
		e := &task.StatusHistory[i]
		if e.ID == uuid.Nil {
			rows = append(rows, historyRow{
				value:  e,
				assign: func(id uuid.UUID) { e.ID, e.TaskID = uuid.New(), id },
				reset:  func() { e.ID = uuid.Nil },
			})
		}
	}
	for i := range task.DailyLogs {
		e := &task.DailyLogs[i]
		if e.ID == uuid.Nil {
			rows = append(rows, historyRow{
				value:     e,
				assign:    func(id uuid.UUID) { e.ID, e.TaskID = uuid.New(), id },
				reset:     func() { e.ID = uuid.Nil },
				duplicate: ErrDuplicateDailyLog,
			})
		}
	}
	for i := range task.Comments {
		e := &task.Comments[i]
		if e.ID == uuid.Nil {
			rows = append(rows, historyRow{
				value:  e,
				assign: func(id uuid.UUID) { e.ID, e.TaskID = uuid.New(), id },
				reset:  func() { e.ID = uuid.Nil },
			})
		}
	}
	return rows
}
