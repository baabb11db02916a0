package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/session"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

type fixture struct {
	db        *gorm.DB
	recipes   *repository.RecipeRepository
	schedules *repository.ScheduleRepository
	shelf     *repository.ShelfRepository
	users     *repository.UserRepository
	sessions  *session.Manager
	user      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	f := &fixture{
		db:        db,
		recipes:   repository.NewRecipeRepository(db),
		schedules: repository.NewScheduleRepository(db),
		shelf:     repository.NewShelfRepository(db),
		users:     repository.NewUserRepository(db),
		user:      uuid.New(),
	}
	f.sessions = session.NewManager(f.recipes, f.schedules, f.shelf, session.NewMemoryCache(), zap.NewNop())
	return f
}

// seed stores a recipe directly, bypassing the service.
func (f *fixture) seed(t *testing.T, r model.Recipe) model.Recipe {
	t.Helper()
	if err := f.recipes.Create(context.Background(), &r); err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return r
}

// brokenScheduleStore reads normally but never saves.
type brokenScheduleStore struct {
	*repository.ScheduleRepository
}

var errStoreDown = errors.New("connection refused")

func (brokenScheduleStore) Save(context.Context, uuid.UUID, model.WeeklySchedule) error {
	return errStoreDown
}

// slowScheduleStore delays every save so concurrent edits overlap in the store.
type slowScheduleStore struct {
	*repository.ScheduleRepository
	mu    sync.Mutex
	calls int
}

func (s *slowScheduleStore) Save(ctx context.Context, userID uuid.UUID, schedule model.WeeklySchedule) error {
	s.mu.Lock()
	s.calls++
	delay := time.Duration(20-s.calls%20) * time.Millisecond
	s.mu.Unlock()
	time.Sleep(delay)
	return s.ScheduleRepository.Save(ctx, userID, schedule)
}
