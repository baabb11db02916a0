package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/planner"
	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

func TestScheduleGeneratePersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.seed(t, testhelpers.Recipe(f.user, "Oats", model.MealBreakfast))
	stew := f.seed(t, testhelpers.Recipe(f.user, "Stew", model.MealDinner))
	f.seed(t, testhelpers.Recipe(f.user, "Trail mix", model.MealSnacks))

	svc := service.NewScheduleService(f.schedules, f.sessions, zap.NewNop())
	res, err := svc.Generate(ctx, f.user)
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Empty(t, res.PersistError)

	for _, day := range model.Days {
		require.NotNil(t, res.Schedule[day].Breakfast)
		assert.Equal(t, oats.ID, res.Schedule[day].Breakfast.ID)
		assert.Nil(t, res.Schedule[day].Lunch)
		assert.Equal(t, stew.ID, res.Schedule[day].Dinner.ID)
	}

	ref, err := f.schedules.Fetch(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, ref)
	stored := ref.Resolve([]model.Recipe{oats, stew})
	assert.Equal(t, stew.ID, stored["Friday"].Dinner.ID)
}

func TestSchedulePersistFailureKeepsSessionChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stew := f.seed(t, testhelpers.Recipe(f.user, "Stew", model.MealDinner))

	svc := service.NewScheduleService(brokenScheduleStore{f.schedules}, f.sessions, zap.NewNop())
	res, err := svc.SetSlot(ctx, f.user, "Tuesday", model.MealDinner, &stew.ID)
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Contains(t, res.PersistError, "connection refused")

	current, err := svc.Get(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, current["Tuesday"].Dinner)
	assert.Equal(t, "Stew", current["Tuesday"].Dinner.Name)

	ref, err := f.schedules.Fetch(ctx, f.user)
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestScheduleSetSlotRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stew := f.seed(t, testhelpers.Recipe(f.user, "Stew", model.MealDinner))
	chips := f.seed(t, testhelpers.Recipe(f.user, "Chips", model.MealSnacks))
	svc := service.NewScheduleService(f.schedules, f.sessions, zap.NewNop())

	_, err := svc.SetSlot(ctx, f.user, "Monday", model.MealLunch, &chips.ID)
	assert.ErrorIs(t, err, service.ErrInvalidRecipe)

	missing := uuid.New()
	_, err = svc.SetSlot(ctx, f.user, "Monday", model.MealLunch, &missing)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	_, err = svc.SetSlot(ctx, f.user, "Funday", model.MealLunch, &stew.ID)
	assert.ErrorIs(t, err, planner.ErrInvalidDay)

	_, err = svc.SetSlot(ctx, f.user, "Monday", model.MealSnacks, &stew.ID)
	assert.ErrorIs(t, err, planner.ErrInvalidMeal)

	// a recipe may go in any meal slot
	res, err := svc.SetSlot(ctx, f.user, "Monday", model.MealLunch, &stew.ID)
	require.NoError(t, err)
	assert.Equal(t, stew.ID, res.Schedule["Monday"].Lunch.ID)

	res, err = svc.SetSlot(ctx, f.user, "Monday", model.MealLunch, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Schedule["Monday"].Lunch)
}

func TestScheduleSwapAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stew := f.seed(t, testhelpers.Recipe(f.user, "Stew", model.MealDinner))
	svc := service.NewScheduleService(f.schedules, f.sessions, zap.NewNop())

	_, err := svc.SetSlot(ctx, f.user, "Monday", model.MealDinner, &stew.ID)
	require.NoError(t, err)

	res, err := svc.Swap(ctx, f.user, "Monday", model.MealDinner, "Sunday", model.MealBreakfast)
	require.NoError(t, err)
	assert.Nil(t, res.Schedule["Monday"].Dinner)
	assert.Equal(t, stew.ID, res.Schedule["Sunday"].Breakfast.ID)

	res, err = svc.Clear(ctx, f.user)
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	for _, day := range model.Days {
		assert.Equal(t, model.DayMeals{}, res.Schedule[day])
	}
}

func TestSchedulePrep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chili := testhelpers.Recipe(f.user, "Chili", model.MealDinner)
	chili.StorageType = model.StorageFreezer
	chili.PrepTime = 90
	chili = f.seed(t, chili)
	salad := f.seed(t, testhelpers.Recipe(f.user, "Salad", model.MealLunch))
	svc := service.NewScheduleService(f.schedules, f.sessions, zap.NewNop())

	_, err := svc.SetSlot(ctx, f.user, "Monday", model.MealDinner, &chili.ID)
	require.NoError(t, err)
	_, err = svc.SetSlot(ctx, f.user, "Monday", model.MealLunch, &salad.ID)
	require.NoError(t, err)

	plan, err := svc.Prep(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, plan.Saturday, 2)
	assert.Equal(t, "Chili", plan.Saturday[0].Recipe.Name)
	assert.Equal(t, "Salad", plan.Saturday[1].Recipe.Name)
	assert.Empty(t, plan.Sunday)
	assert.Equal(t, 120, plan.TotalMinutes)
}

func TestScheduleConcurrentEditsMatchStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var dinners []model.Recipe
	for _, name := range []string{"Stew", "Curry", "Chili", "Risotto", "Tacos"} {
		dinners = append(dinners, f.seed(t, testhelpers.Recipe(f.user, name, model.MealDinner)))
	}

	store := &slowScheduleStore{ScheduleRepository: f.schedules}
	svc := service.NewScheduleService(store, f.sessions, zap.NewNop())

	var wg sync.WaitGroup
	for i := range dinners {
		wg.Add(1)
		go func(r model.Recipe) {
			defer wg.Done()
			res, err := svc.SetSlot(ctx, f.user, "Monday", model.MealDinner, &r.ID)
			assert.NoError(t, err)
			assert.True(t, res.Persisted)
		}(dinners[i])
	}
	wg.Wait()

	current, err := svc.Get(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, current["Monday"].Dinner)

	ref, err := f.schedules.Fetch(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, ref)
	stored := ref.Resolve(dinners)
	require.NotNil(t, stored["Monday"].Dinner)
	assert.Equal(t, current["Monday"].Dinner.ID, stored["Monday"].Dinner.ID)
}
