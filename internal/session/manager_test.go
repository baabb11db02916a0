package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/planner"
	"github.com/pageza/weekprep/backend/internal/session"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

type fakeStores struct {
	mu       sync.Mutex
	recipes  []model.Recipe
	ref      *model.ScheduleRef
	shelf    []model.ShelfItem
	loads    int
	shelfErr error
}

func (f *fakeStores) List(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return append([]model.Recipe(nil), f.recipes...), nil
}

func (f *fakeStores) Fetch(ctx context.Context, userID uuid.UUID) (*model.ScheduleRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ref, nil
}

type fakeShelf struct{ *fakeStores }

func (f fakeShelf) List(ctx context.Context, userID uuid.UUID) ([]model.ShelfItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shelfErr != nil {
		return nil, f.shelfErr
	}
	return append([]model.ShelfItem(nil), f.shelf...), nil
}

func newManager(stores *fakeStores, cache session.Cache) *session.Manager {
	return session.NewManager(stores, stores, fakeShelf{stores}, cache, zap.NewNop())
}

func TestSignInLoadsEverything(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	oats := testhelpers.Recipe(user, "Oats", model.MealBreakfast)
	oats.ID = uuid.New()
	ref := planner.Generate([]model.Recipe{oats}).Refs()

	stores := &fakeStores{
		recipes: []model.Recipe{oats},
		ref:     &ref,
		shelf:   []model.ShelfItem{{ID: uuid.New(), Name: "Milk", Amount: 1, Unit: "l"}},
	}
	m := newManager(stores, session.NewMemoryCache())

	snap, err := m.SignIn(ctx, user)
	require.NoError(t, err)
	assert.Len(t, snap.Recipes, 1)
	assert.Len(t, snap.Shelf, 1)
	require.NotNil(t, snap.Schedule["Monday"].Breakfast)
	assert.Equal(t, "Oats", snap.Schedule["Monday"].Breakfast.Name)
}

func TestSnapshotLoadsLazilyAndCaches(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	stores := &fakeStores{}
	m := newManager(stores, session.NewMemoryCache())

	snap, err := m.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, planner.Blank(), snap.Schedule, "no saved schedule means a blank week")

	_, err = m.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, stores.loads)
}

func TestSignOutClears(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	stores := &fakeStores{recipes: []model.Recipe{testhelpers.Recipe(user, "Oats", model.MealBreakfast)}}
	cache := session.NewMemoryCache()
	m := newManager(stores, cache)

	_, err := m.SignIn(ctx, user)
	require.NoError(t, err)
	require.NoError(t, m.SignOut(ctx, user))

	_, err = cache.Get(ctx, user)
	assert.ErrorIs(t, err, session.ErrCacheMiss)
}

func TestUpdateDoesNotStoreOnError(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	m := newManager(&fakeStores{}, session.NewMemoryCache())

	boom := errors.New("boom")
	_, err := m.Update(ctx, user, func(s *session.Snapshot) error {
		s.Shelf = append(s.Shelf, model.ShelfItem{Name: "ghost"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	snap, err := m.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, snap.Shelf)
}

func TestSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	stores := &fakeStores{recipes: []model.Recipe{testhelpers.Recipe(user, "Oats", model.MealBreakfast)}}
	m := newManager(stores, session.NewMemoryCache())

	snap, err := m.Snapshot(ctx, user)
	require.NoError(t, err)
	snap.Recipes[0].Name = "mutated"

	again, err := m.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Oats", again.Recipes[0].Name)
}

func TestRefreshRecipesReResolvesSchedule(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	oats := testhelpers.Recipe(user, "Oats", model.MealBreakfast)
	oats.ID = uuid.New()
	curry := testhelpers.Recipe(user, "Curry", model.MealDinner)
	curry.ID = uuid.New()
	ref := planner.Generate([]model.Recipe{oats, curry}).Refs()

	stores := &fakeStores{recipes: []model.Recipe{oats, curry}, ref: &ref}
	m := newManager(stores, session.NewMemoryCache())
	_, err := m.SignIn(ctx, user)
	require.NoError(t, err)

	renamed := oats
	renamed.Name = "Overnight oats"
	stores.mu.Lock()
	stores.recipes = []model.Recipe{renamed}
	stores.mu.Unlock()

	snap, err := m.RefreshRecipes(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Overnight oats", snap.Schedule["Tuesday"].Breakfast.Name)
	assert.Nil(t, snap.Schedule["Tuesday"].Dinner, "deleted recipe leaves its slot empty")
}

func TestRefreshShelfPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	stores := &fakeStores{}
	m := newManager(stores, session.NewMemoryCache())
	_, err := m.SignIn(ctx, user)
	require.NoError(t, err)

	stores.shelfErr = errors.New("store down")
	_, err = m.RefreshShelf(ctx, user)
	assert.ErrorIs(t, err, stores.shelfErr)

	stores.shelfErr = nil
	stores.shelf = []model.ShelfItem{{Name: "Rice"}}
	snap, err := m.RefreshShelf(ctx, user)
	require.NoError(t, err)
	assert.Len(t, snap.Shelf, 1)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	m := newManager(&fakeStores{}, session.NewMemoryCache())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, user, func(s *session.Snapshot) error {
				s.Shelf = append(s.Shelf, model.ShelfItem{ID: uuid.New()})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := m.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.Len(t, snap.Shelf, 20)
}

func TestUpdateThenRunsInUpdateOrder(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	m := newManager(&fakeStores{}, session.NewMemoryCache())

	var mu sync.Mutex
	var seen []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.UpdateThen(ctx, user, func(s *session.Snapshot) error {
				s.Shelf = append(s.Shelf, model.ShelfItem{ID: uuid.New()})
				return nil
			}, func(s *session.Snapshot) {
				time.Sleep(time.Millisecond)
				mu.Lock()
				seen = append(seen, len(s.Shelf))
				mu.Unlock()
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, seen, 20)
	for i, n := range seen {
		assert.Equal(t, i+1, n)
	}
}

func TestUpdateThenSkipsAfterOnError(t *testing.T) {
	m := newManager(&fakeStores{}, session.NewMemoryCache())
	called := false
	_, err := m.UpdateThen(context.Background(), uuid.New(), func(*session.Snapshot) error {
		return errors.New("boom")
	}, func(*session.Snapshot) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRedisCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()
	cache := session.NewRedisCache(client, time.Minute)
	user := uuid.New()

	_, err := cache.Get(ctx, user)
	assert.ErrorIs(t, err, session.ErrCacheMiss)

	snap := &session.Snapshot{
		UserID:   user,
		Schedule: planner.Blank(),
		Shelf:    []model.ShelfItem{{ID: uuid.New(), Name: "Rice", Amount: 1, Unit: "kg"}},
	}
	require.NoError(t, cache.Set(ctx, snap))

	got, err := cache.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.Shelf[0].Name)
	assert.Len(t, got.Schedule, 7)

	ttl, err := client.TTL(ctx, "session:snapshot:"+user.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Delete(ctx, user))
	_, err = cache.Get(ctx, user)
	assert.ErrorIs(t, err, session.ErrCacheMiss)
}
