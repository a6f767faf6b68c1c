package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workorder/internal/model"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, equipment *model.Equipment) error {
	if equipment.ID == uuid.Nil {
		equipment.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(equipment).Error, ErrEquipmentNotFound)
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	var equipment model.Equipment
	if err := r.db.WithContext(ctx).First(&equipment, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrEquipmentNotFound)
	}
	return &equipment, nil
}

// GetByIDs loads the equipment with the given ids; unknown ids are skipped.
func (r *EquipmentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error) {
	var items []model.Equipment
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// ListByType returns equipment of one type, or everything when equipmentType is empty.
func (r *EquipmentRepository) ListByType(ctx context.Context, equipmentType string) ([]model.Equipment, error) {
	var items []model.Equipment
	db := r.db.WithContext(ctx)
	if equipmentType != "" {
		db = db.Where("type = ?", equipmentType)
	}
	err := db.Order("code").Find(&items).Error
	return items, err
}

// CreateBatch inserts all items in one statement. A duplicate code rejects
// the whole batch.
func (r *EquipmentRepository) CreateBatch(ctx context.Context, items []model.Equipment) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return translate(r.db.WithContext(ctx).Create(&items).Error, ErrEquipmentNotFound)
}

func (r *EquipmentRepository) Update(ctx context.Context, equipment *model.Equipment) error {
	return updateRow(ctx, r.db, equipment, ErrEquipmentNotFound)
}

func (r *EquipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow[model.Equipment](ctx, r.db, id, ErrEquipmentNotFound)
}
