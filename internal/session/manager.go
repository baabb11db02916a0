// Package session keeps a per-user snapshot of recipes, schedule and shelf
// and defines when that snapshot is reloaded from the stores.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/model"
)

// Snapshot is the user's working set.
type Snapshot struct {
	UserID   uuid.UUID            `json:"user_id"`
	Recipes  []model.Recipe       `json:"recipes"`
	Schedule model.WeeklySchedule `json:"schedule"`
	Shelf    []model.ShelfItem    `json:"shelf"`
	LoadedAt time.Time            `json:"loaded_at"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		UserID:   s.UserID,
		Schedule: s.Schedule.Clone(),
		LoadedAt: s.LoadedAt,
	}
	if s.Recipes != nil {
		out.Recipes = make([]model.Recipe, len(s.Recipes))
		for i, r := range s.Recipes {
			out.Recipes[i] = r.Clone()
		}
	}
	if s.Shelf != nil {
		out.Shelf = append([]model.ShelfItem(nil), s.Shelf...)
	}
	return out
}

// RecipeByID finds a recipe in the snapshot.
func (s *Snapshot) RecipeByID(id uuid.UUID) (model.Recipe, bool) {
	for _, r := range s.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return model.Recipe{}, false
}

type RecipeSource interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error)
}

type ScheduleSource interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*model.ScheduleRef, error)
}

type ShelfSource interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.ShelfItem, error)
}

// Manager owns the snapshots. Calls for the same user are serialized.
type Manager struct {
	recipes   RecipeSource
	schedules ScheduleSource
	shelf     ShelfSource
	cache     Cache
	log       *zap.Logger

	locks sync.Map
}

func NewManager(recipes RecipeSource, schedules ScheduleSource, shelf ShelfSource, cache Cache, log *zap.Logger) *Manager {
	return &Manager{
		recipes:   recipes,
		schedules: schedules,
		shelf:     shelf,
		cache:     cache,
		log:       log,
	}
}

func (m *Manager) lock(userID uuid.UUID) func() {
	mu, _ := m.locks.LoadOrStore(userID, &sync.Mutex{})
	l := mu.(*sync.Mutex)
	l.Lock()
	return l.Unlock
}

func (m *Manager) load(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	recipes, err := m.recipes.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	ref, err := m.schedules.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	shelf, err := m.shelf.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load shelf: %w", err)
	}

	schedule := model.NewWeeklySchedule()
	if ref != nil {
		schedule = ref.Resolve(recipes)
	}
	return &Snapshot{
		UserID:   userID,
		Recipes:  recipes,
		Schedule: schedule,
		Shelf:    shelf,
		LoadedAt: time.Now(),
	}, nil
}

// current returns the cached snapshot or loads a fresh one. Caller holds the user lock.
func (m *Manager) current(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	snap, err := m.cache.Get(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		m.log.Warn("session cache read failed, reloading from stores",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	snap, err = m.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, snap); err != nil {
		m.log.Warn("session cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return snap, nil
}

// SignIn reloads recipes, schedule and shelf from the stores.
func (m *Manager) SignIn(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	unlock := m.lock(userID)
	defer unlock()

	snap, err := m.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, snap); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.log.Info("session loaded",
		zap.String("user_id", userID.String()),
		zap.Int("recipes", len(snap.Recipes)),
		zap.Int("shelf_items", len(snap.Shelf)))
	return snap.Clone(), nil
}

// SignOut drops the user's snapshot.
func (m *Manager) SignOut(ctx context.Context, userID uuid.UUID) error {
	unlock := m.lock(userID)
	defer unlock()

	if err := m.cache.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the user's snapshot, loading it on first use.
func (m *Manager) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	unlock := m.lock(userID)
	defer unlock()

	snap, err := m.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Clone(), nil
}

// Update applies fn to the snapshot and stores the result. Nothing is stored when fn fails.
func (m *Manager) Update(ctx context.Context, userID uuid.UUID, fn func(*Snapshot) error) (*Snapshot, error) {
	return m.UpdateThen(ctx, userID, fn, nil)
}

// UpdateThen is Update followed by after, which runs on a copy of the stored
// snapshot before the user lock is released. Writes made in after reach the
// stores in the same order as the session changes.
func (m *Manager) UpdateThen(ctx context.Context, userID uuid.UUID, fn func(*Snapshot) error, after func(*Snapshot)) (*Snapshot, error) {
	unlock := m.lock(userID)
	defer unlock()

	snap, err := m.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(snap); err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, snap); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	out := snap.Clone()
	if after != nil {
		after(out)
	}
	return out, nil
}

// RefreshRecipes refetches the recipe list and re-resolves the schedule against it,
// so edited recipes show up in their slots and deleted ones leave them empty.
func (m *Manager) RefreshRecipes(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	return m.Update(ctx, userID, func(s *Snapshot) error {
		recipes, err := m.recipes.List(ctx, userID)
		if err != nil {
			return fmt.Errorf("refresh recipes: %w", err)
		}
		s.Recipes = recipes
		s.Schedule = s.Schedule.Refs().Resolve(recipes)
		return nil
	})
}

// RefreshShelf replaces the shelf with the store's current contents.
func (m *Manager) RefreshShelf(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	return m.Update(ctx, userID, func(s *Snapshot) error {
		shelf, err := m.shelf.List(ctx, userID)
		if err != nil {
			return fmt.Errorf("refresh shelf: %w", err)
		}
		s.Shelf = shelf
		return nil
	})
}
