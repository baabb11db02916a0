package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/grocery"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/session"
)

// RecipeService manages the user's recipe catalog
type RecipeService struct {
	store    RecipeStore
	sessions *session.Manager
	media    MediaStore
	log      *zap.Logger
}

func NewRecipeService(store RecipeStore, sessions *session.Manager, media MediaStore, log *zap.Logger) *RecipeService {
	return &RecipeService{
		store:    store,
		sessions: sessions,
		media:    media,
		log:      log,
	}
}

// RecipeDetail is a recipe plus how much of it is already on the shelf.
type RecipeDetail struct {
	model.Recipe
	OnShelf         int `json:"on_shelf"`
	IngredientCount int `json:"ingredient_count"`
}

// ValidateRecipe normalizes r in place and reports the first problem found.
func ValidateRecipe(r *model.Recipe) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if r.PrepTime <= 0 {
		return fmt.Errorf("%w: prep_time must be positive", ErrInvalidRecipe)
	}
	if r.BatchServings <= 0 {
		return fmt.Errorf("%w: batch_servings must be positive", ErrInvalidRecipe)
	}
	if !r.StorageType.Valid() {
		return fmt.Errorf("%w: unknown storage_type %q", ErrInvalidRecipe, r.StorageType)
	}
	if !r.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal_type %q", ErrInvalidRecipe, r.MealType)
	}
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrInvalidRecipe, i+1)
		}
		if ing.Amount < 0 {
			return fmt.Errorf("%w: ingredient %q has a negative amount", ErrInvalidRecipe, ing.Name)
		}
		if ing.ID == "" {
			ing.ID = uuid.NewString()
		}
		ing.Unit = strings.TrimSpace(ing.Unit)
		ing.Category = model.ParseCategory(string(ing.Category))
	}
	if r.Ingredients == nil {
		r.Ingredients = []model.Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	return nil
}

// List returns the user's recipes. Without filters the session snapshot is used;
// a text query or meal type goes to the store.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, query string, meal model.MealType) ([]model.Recipe, error) {
	query = strings.TrimSpace(query)
	if meal != "" && !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal_type %q", ErrInvalidRecipe, meal)
	}
	if query == "" && meal == "" {
		snap, err := s.sessions.Snapshot(ctx, userID)
		if err != nil {
			return nil, err
		}
		return snap.Recipes, nil
	}

	q := repository.RecipeQuery{Text: query, MealType: meal}
	if query != "" {
		vec := GenerateEmbedding(query)
		q.Embedding = &vec
	}
	return s.store.Search(ctx, userID, q)
}

// Get returns a recipe with its shelf coverage.
func (s *RecipeService) Get(ctx context.Context, userID, id uuid.UUID) (*RecipeDetail, error) {
	recipe, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RecipeDetail{
		Recipe:          *recipe,
		OnShelf:         grocery.OnShelfCount(*recipe, snap.Shelf),
		IngredientCount: len(recipe.Ingredients),
	}, nil
}

func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, recipe model.Recipe) (*model.Recipe, error) {
	if err := ValidateRecipe(&recipe); err != nil {
		return nil, err
	}
	recipe.ID = uuid.Nil
	recipe.UserID = userID
	recipe.Embedding = RecipeEmbedding(recipe)

	if err := s.store.Create(ctx, &recipe); err != nil {
		return nil, err
	}
	s.refresh(ctx, userID)
	return &recipe, nil
}

func (s *RecipeService) Update(ctx context.Context, userID, id uuid.UUID, recipe model.Recipe) (*model.Recipe, error) {
	if err := ValidateRecipe(&recipe); err != nil {
		return nil, err
	}
	existing, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	recipe.ID = id
	recipe.UserID = userID
	recipe.CreatedAt = existing.CreatedAt
	recipe.Embedding = RecipeEmbedding(recipe)

	if err := s.store.Update(ctx, &recipe); err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	s.refresh(ctx, userID)
	return s.fetch(ctx, userID, id)
}

func (s *RecipeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return mapNotFound(err, ErrRecipeNotFound)
	}
	s.refresh(ctx, userID)
	return nil
}

// AttachImage uploads a photo for the recipe and stores its URL as image_url.
func (s *RecipeService) AttachImage(ctx context.Context, userID, id uuid.UUID, data []byte) (*model.Recipe, error) {
	if s.media == nil {
		return nil, ErrMediaDisabled
	}
	recipe, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	contentType, err := sniffImage(data)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, recipeImageKey(userID, id, contentType), data, contentType)
	if err != nil {
		return nil, err
	}
	recipe.ImageURL = url
	if err := s.store.Update(ctx, recipe); err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	s.refresh(ctx, userID)
	return s.fetch(ctx, userID, id)
}

func (s *RecipeService) fetch(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRecipeNotFound)
	}
	return recipe, nil
}

// refresh reloads recipes into the session. The mutation already succeeded,
// so a failure here is only logged.
func (s *RecipeService) refresh(ctx context.Context, userID uuid.UUID) {
	if _, err := s.sessions.RefreshRecipes(ctx, userID); err != nil {
		s.log.Warn("failed to refresh recipes in session",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}
