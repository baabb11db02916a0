package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/planner"
	"github.com/pageza/weekprep/backend/internal/session"
)

// ScheduleResult reports a schedule change and whether it reached the store.
// A failed save leaves the change in place in the session.
type ScheduleResult struct {
	Schedule     model.WeeklySchedule `json:"schedule"`
	Persisted    bool                 `json:"persisted"`
	PersistError string               `json:"persist_error,omitempty"`
}

// ScheduleService edits the weekly schedule
type ScheduleService struct {
	store    ScheduleStore
	sessions *session.Manager
	log      *zap.Logger
}

func NewScheduleService(store ScheduleStore, sessions *session.Manager, log *zap.Logger) *ScheduleService {
	return &ScheduleService{store: store, sessions: sessions, log: log}
}

func (s *ScheduleService) Get(ctx context.Context, userID uuid.UUID) (model.WeeklySchedule, error) {
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Schedule, nil
}

// Generate replaces the schedule with a fresh rotation over the user's recipes.
func (s *ScheduleService) Generate(ctx context.Context, userID uuid.UUID) (*ScheduleResult, error) {
	return s.apply(ctx, userID, "generate", func(snap *session.Snapshot) (model.WeeklySchedule, error) {
		return planner.Generate(snap.Recipes), nil
	})
}

// Clear empties every slot.
func (s *ScheduleService) Clear(ctx context.Context, userID uuid.UUID) (*ScheduleResult, error) {
	return s.apply(ctx, userID, "clear", func(*session.Snapshot) (model.WeeklySchedule, error) {
		return planner.Blank(), nil
	})
}

// SetSlot puts a recipe into one slot, or empties it when recipeID is nil.
// Snack recipes cannot be scheduled.
func (s *ScheduleService) SetSlot(ctx context.Context, userID uuid.UUID, day string, meal model.MealType, recipeID *uuid.UUID) (*ScheduleResult, error) {
	return s.apply(ctx, userID, "set_slot", func(snap *session.Snapshot) (model.WeeklySchedule, error) {
		if recipeID == nil {
			return planner.SetSlot(snap.Schedule, day, meal, nil)
		}
		recipe, ok := snap.RecipeByID(*recipeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		}
		if !recipe.MealType.Schedulable() {
			return nil, fmt.Errorf("%w: %s recipes cannot be scheduled", ErrInvalidRecipe, recipe.MealType)
		}
		return planner.SetSlot(snap.Schedule, day, meal, &recipe)
	})
}

// Swap exchanges the contents of two slots.
func (s *ScheduleService) Swap(ctx context.Context, userID uuid.UUID, day1 string, meal1 model.MealType, day2 string, meal2 model.MealType) (*ScheduleResult, error) {
	return s.apply(ctx, userID, "swap", func(snap *session.Snapshot) (model.WeeklySchedule, error) {
		return planner.Swap(snap.Schedule, day1, meal1, day2, meal2)
	})
}

// Prep builds the weekend prep plan for the current schedule.
func (s *ScheduleService) Prep(ctx context.Context, userID uuid.UUID) (planner.PrepPlan, error) {
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return planner.PrepPlan{}, err
	}
	return planner.BuildPrepPlan(snap.Schedule), nil
}

// apply updates the session first and then saves, still under the user's
// session lock. The save outcome is returned to the caller instead of undoing
// the session change.
func (s *ScheduleService) apply(ctx context.Context, userID uuid.UUID, op string, fn func(*session.Snapshot) (model.WeeklySchedule, error)) (*ScheduleResult, error) {
	result := &ScheduleResult{Persisted: true}
	save := func(snap *session.Snapshot) {
		if err := s.store.Save(ctx, userID, snap.Schedule); err != nil {
			s.log.Error("failed to persist schedule",
				zap.String("op", op),
				zap.String("user_id", userID.String()),
				zap.Error(err))
			result.Persisted = false
			result.PersistError = err.Error()
		}
	}
	snap, err := s.sessions.UpdateThen(ctx, userID, func(snap *session.Snapshot) error {
		next, err := fn(snap)
		if err != nil {
			return err
		}
		snap.Schedule = next
		return nil
	}, save)
	if err != nil {
		return nil, err
	}
	result.Schedule = snap.Schedule
	return result, nil
}
