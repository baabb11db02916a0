package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/planner"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

func unitVector(i int) pgvector.Vector {
	v := make([]float32, model.EmbeddingDims)
	v[i] = 1
	return pgvector.NewVector(v)
}

func createRecipe(t *testing.T, repo *repository.RecipeRepository, r model.Recipe) model.Recipe {
	t.Helper()
	r.Embedding = unitVector(0)
	require.NoError(t, repo.Create(context.Background(), &r))
	return r
}

func TestRecipeRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := repository.NewRecipeRepository(db)
	owner, stranger := uuid.New(), uuid.New()

	r := createRecipe(t, repo, testhelpers.Recipe(owner, "Chili", model.MealDinner,
		testhelpers.Ingredient("Beans", 400, "g", model.CategoryProtein)))
	assert.NotEqual(t, uuid.Nil, r.ID)

	got, err := repo.Get(ctx, owner, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chili", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Beans", got.Ingredients[0].Name)

	_, err = repo.Get(ctx, stranger, r.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got.Name = "Veggie chili"
	got.PrepTime = 45
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.Get(ctx, owner, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Veggie chili", again.Name)
	assert.Equal(t, 45, again.PrepTime)

	got.UserID = stranger
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)

	list, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.Delete(ctx, stranger, r.ID), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, owner, r.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner, r.ID), repository.ErrNotFound)

	list, err = repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecipeRepositorySearch(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := repository.NewRecipeRepository(db)
	owner := uuid.New()

	createRecipe(t, repo, testhelpers.Recipe(owner, "Garlic noodles", model.MealDinner,
		testhelpers.Ingredient("Noodles", 200, "g", model.CategoryOthers)))
	createRecipe(t, repo, testhelpers.Recipe(owner, "Stir fry", model.MealLunch,
		testhelpers.Ingredient("garlic", 2, "cloves", model.CategorySeasonings)))
	createRecipe(t, repo, testhelpers.Recipe(owner, "Porridge", model.MealBreakfast,
		testhelpers.Ingredient("Oats", 1, "cup", model.CategoryOthers)))
	// another user's recipe never matches
	createRecipe(t, repo, testhelpers.Recipe(uuid.New(), "Garlic bread", model.MealLunch))

	found, err := repo.Search(ctx, owner, repository.RecipeQuery{Text: "GARLIC"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(ctx, owner, repository.RecipeQuery{Text: "garlic", MealType: model.MealLunch})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Stir fry", found[0].Name)

	found, err = repo.Search(ctx, owner, repository.RecipeQuery{Text: "cup"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.Search(ctx, owner, repository.RecipeQuery{MealType: model.MealBreakfast})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Porridge", found[0].Name)
}

func TestScheduleRepository(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	recipes := repository.NewRecipeRepository(db)
	schedules := repository.NewScheduleRepository(db)
	owner := uuid.New()

	ref, err := schedules.Fetch(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, ref, "no schedule saved yet")

	oats := createRecipe(t, recipes, testhelpers.Recipe(owner, "Oats", model.MealBreakfast))
	s := planner.Generate([]model.Recipe{oats})
	require.NoError(t, schedules.Save(ctx, owner, s))

	ref, err = schedules.Fetch(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, ref)
	resolved := ref.Resolve([]model.Recipe{oats})
	require.NotNil(t, resolved["Friday"].Breakfast)
	assert.Equal(t, oats.ID, resolved["Friday"].Breakfast.ID)

	// saving again replaces the row
	require.NoError(t, schedules.Save(ctx, owner, planner.Blank()))
	ref, err = schedules.Fetch(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, ref.Resolve([]model.Recipe{oats})["Friday"].Breakfast)

	var count int64
	require.NoError(t, db.Model(&model.ScheduleRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestShelfRepository(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := repository.NewShelfRepository(db)
	owner := uuid.New()

	first := model.ShelfItem{UserID: owner, Name: "Rice", Amount: 1, Unit: "kg"}
	second := model.ShelfItem{UserID: owner, Name: "rice", Amount: 2, Unit: "kg"}
	require.NoError(t, repo.Add(ctx, &first))
	require.NoError(t, repo.Add(ctx, &second))

	items, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, repo.Remove(ctx, owner, first.ID))
	items, err = repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	assert.ErrorIs(t, repo.Remove(ctx, owner, first.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, uuid.New(), second.ID), repository.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := repository.NewUserRepository(db)

	u := model.User{Name: "Sam", Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, &u))

	byEmail, err := repo.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", byID.Name)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := model.User{Name: "Sam 2", Email: "sam@example.com", PasswordHash: "y"}
	assert.Error(t, repo.Create(ctx, &dup))
}

func TestRepositoriesOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	owner := uuid.New()

	createRecipe(t, repo, testhelpers.Recipe(owner, "Garlic noodles", model.MealDinner))
	vec := unitVector(3)
	found, err := repo.Search(ctx, owner, repository.RecipeQuery{Text: "garlic", Embedding: &vec})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
