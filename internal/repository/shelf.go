package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/weekprep/backend/internal/model"
)

type ShelfRepository struct {
	db *gorm.DB
}

func NewShelfRepository(db *gorm.DB) *ShelfRepository {
	return &ShelfRepository{db: db}
}

// List returns the user's shelf in insertion order.
func (r *ShelfRepository) List(ctx context.Context, userID uuid.UUID) ([]model.ShelfItem, error) {
	var items []model.ShelfItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list shelf: %w", err)
	}
	return items, nil
}

func (r *ShelfRepository) Add(ctx context.Context, item *model.ShelfItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add shelf item: %w", err)
	}
	return nil
}

// Remove deletes exactly one shelf entry.
func (r *ShelfRepository) Remove(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ShelfItem{})
	if res.Error != nil {
		return fmt.Errorf("remove shelf item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("remove shelf item %s: %w", id, ErrNotFound)
	}
	return nil
}
