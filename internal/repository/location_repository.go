package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workorder/internal/model"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create adds a new location; a duplicate code is a conflict.
func (r *LocationRepository) Create(ctx context.Context, location *model.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(location).Error, ErrLocationNotFound)
}

// GetByID retrieves a location by its ID
func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var location model.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrLocationNotFound)
	}
	return &location, nil
}

// List returns all locations, children of parentID only when it is set.
func (r *LocationRepository) List(ctx context.Context, parentID *uuid.UUID) ([]model.Location, error) {
	var locations []model.Location
	db := r.db.WithContext(ctx)
	if parentID != nil {
		db = db.Where("parent_id = ?", *parentID)
	}
	err := db.Order("code").Find(&locations).Error
	return locations, err
}

// Update rewrites a location; a code taken by another location is a conflict.
func (r *LocationRepository) Update(ctx context.Context, location *model.Location) error {
	return updateRow(ctx, r.db, location, ErrLocationNotFound)
}

// Delete removes a location that no task, equipment or child location uses.
func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow[model.Location](ctx, r.db, id, ErrLocationNotFound)
}
