package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updateRow writes every column of value except ID and CreatedAt. value must
// carry its primary key.
func updateRow[T any](ctx context.Context, db *gorm.DB, value *T, notFound error) error {
	result := db.WithContext(ctx).Model(value).
		Select("*").
		Omit("ID", "CreatedAt").
		Updates(value)
	if result.Error != nil {
		return translate(result.Error, notFound)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// deleteRow removes the row with the given id. Rows still referenced by
// other tables yield ErrInUse.
func deleteRow[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, notFound error) error {
	result := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, notFound)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
