package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workorder/internal/model"
)

type ContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

func (r *ContractorRepository) Create(ctx context.Context, contractor *model.Contractor) error {
	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(contractor).Error, ErrContractorNotFound)
}

func (r *ContractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contractor, error) {
	var contractor model.Contractor
	if err := r.db.WithContext(ctx).First(&contractor, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrContractorNotFound)
	}
	return &contractor, nil
}

func (r *ContractorRepository) List(ctx context.Context) ([]model.Contractor, error) {
	var contractors []model.Contractor
	err := r.db.WithContext(ctx).Order("company_name").Find(&contractors).Error
	return contractors, err
}

func (r *ContractorRepository) Update(ctx context.Context, contractor *model.Contractor) error {
	return updateRow(ctx, r.db, contractor, ErrContractorNotFound)
}

func (r *ContractorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow[model.Contractor](ctx, r.db, id, ErrContractorNotFound)
}
