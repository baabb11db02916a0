package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekprep/backend/internal/model"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Fetch returns the saved schedule references, or nil when the user never saved one.
func (r *ScheduleRepository) Fetch(ctx context.Context, userID uuid.UUID) (*model.ScheduleRef, error) {
	var rec model.ScheduleRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	ref := rec.Slots.Data()
	return &ref, nil
}

// Save replaces the user's schedule.
func (r *ScheduleRepository) Save(ctx context.Context, userID uuid.UUID, schedule model.WeeklySchedule) error {
	rec := model.ScheduleRecord{
		UserID:    userID,
		Slots:     datatypes.NewJSONType(schedule.Refs()),
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"slots", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}
