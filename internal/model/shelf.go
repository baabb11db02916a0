package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShelfItem is something the user already has at home.
type ShelfItem struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Unit      string    `gorm:"size:50" json:"unit"`
}

func (ShelfItem) TableName() string {
	return "shelf_items"
}

func (s *ShelfItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
