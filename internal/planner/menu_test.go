package planner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipe(name string, meal model.MealType) model.Recipe {
	return model.Recipe{
		ID:            uuid.New(),
		Name:          name,
		MealType:      meal,
		StorageType:   model.StorageFridge,
		PrepTime:      30,
		BatchServings: 4,
		Steps:         []string{"cook"},
	}
}

func TestGenerateFillsEveryNonEmptyBucket(t *testing.T) {
	recipes := []model.Recipe{
		recipe("Oats", model.MealBreakfast),
		recipe("Salad", model.MealLunch),
		recipe("Wrap", model.MealLunch),
		recipe("Curry", model.MealDinner),
		recipe("Nuts", model.MealSnacks),
	}

	s := Generate(recipes)
	require.Len(t, s, 7)
	for i, day := range model.Days {
		meals := s[day]
		require.NotNil(t, meals.Breakfast, day)
		require.NotNil(t, meals.Lunch, day)
		require.NotNil(t, meals.Dinner, day)
		assert.Equal(t, "Oats", meals.Breakfast.Name)
		assert.Equal(t, "Curry", meals.Dinner.Name)
		// lunches rotate
		assert.Equal(t, recipes[1+i%2].Name, meals.Lunch.Name)
	}
}

func TestGenerateLeavesEmptyBucketsNull(t *testing.T) {
	s := Generate([]model.Recipe{recipe("Curry", model.MealDinner), recipe("Nuts", model.MealSnacks)})
	for _, day := range model.Days {
		assert.Nil(t, s[day].Breakfast)
		assert.Nil(t, s[day].Lunch)
		assert.NotNil(t, s[day].Dinner)
	}
}

func TestGenerateEmpty(t *testing.T) {
	s := Generate(nil)
	assert.Equal(t, Blank(), s)
	for _, day := range model.Days {
		assert.Equal(t, model.DayMeals{}, s[day])
	}
}

func TestGenerateDoesNotAliasInput(t *testing.T) {
	recipes := []model.Recipe{recipe("Curry", model.MealDinner)}
	s := Generate(recipes)
	s["Monday"].Dinner.Steps[0] = "burn"
	assert.Equal(t, "cook", recipes[0].Steps[0])
}

func TestSetSlot(t *testing.T) {
	curry := recipe("Curry", model.MealDinner)
	orig := Generate([]model.Recipe{recipe("Soup", model.MealDinner)})

	updated, err := SetSlot(orig, "Wednesday", model.MealDinner, &curry)
	require.NoError(t, err)
	assert.Equal(t, "Curry", updated["Wednesday"].Dinner.Name)
	assert.Equal(t, "Soup", orig["Wednesday"].Dinner.Name)
	for _, day := range model.Days {
		if day != "Wednesday" {
			assert.Equal(t, "Soup", updated[day].Dinner.Name)
		}
	}

	cleared, err := SetSlot(updated, "Wednesday", model.MealDinner, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared["Wednesday"].Dinner)
}

func TestSetSlotRejectsUnknownCoordinates(t *testing.T) {
	_, err := SetSlot(Blank(), "Funday", model.MealLunch, nil)
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = SetSlot(Blank(), "Monday", model.MealSnacks, nil)
	assert.ErrorIs(t, err, ErrInvalidMeal)
}

func TestSwapIsAnInvolution(t *testing.T) {
	s := Generate([]model.Recipe{
		recipe("Oats", model.MealBreakfast),
		recipe("Eggs", model.MealBreakfast),
		recipe("Curry", model.MealDinner),
	})

	once, err := Swap(s, "Monday", model.MealBreakfast, "Friday", model.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, "Curry", once["Monday"].Breakfast.Name)
	assert.Equal(t, "Oats", once["Friday"].Dinner.Name)

	twice, err := Swap(once, "Monday", model.MealBreakfast, "Friday", model.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, s, twice)
}

func TestSwapSameDay(t *testing.T) {
	s := Generate([]model.Recipe{recipe("Oats", model.MealBreakfast), recipe("Curry", model.MealDinner)})
	out, err := Swap(s, "Sunday", model.MealBreakfast, "Sunday", model.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, "Curry", out["Sunday"].Breakfast.Name)
	assert.Equal(t, "Oats", out["Sunday"].Dinner.Name)
}

func TestSwapIdenticalCoordinatesIsNoop(t *testing.T) {
	s := Generate([]model.Recipe{recipe("Curry", model.MealDinner)})
	out, err := Swap(s, "Monday", model.MealDinner, "Monday", model.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, s, out)
}

func TestSwapCopiesBeforeMutating(t *testing.T) {
	s := Generate([]model.Recipe{recipe("Oats", model.MealBreakfast), recipe("Curry", model.MealDinner)})
	out, err := Swap(s, "Monday", model.MealBreakfast, "Monday", model.MealDinner)
	require.NoError(t, err)

	out["Monday"].Breakfast.Name = "Mutated"
	assert.Equal(t, "Oats", s["Monday"].Breakfast.Name)
	assert.Equal(t, "Curry", s["Monday"].Dinner.Name)
}

func TestSwapRejectsUnknownCoordinates(t *testing.T) {
	_, err := Swap(Blank(), "Monday", model.MealLunch, "Someday", model.MealLunch)
	assert.ErrorIs(t, err, ErrInvalidDay)
	_, err = Swap(Blank(), "Monday", "brunch", "Monday", model.MealLunch)
	assert.ErrorIs(t, err, ErrInvalidMeal)
}
