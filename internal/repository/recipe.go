package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekprep/backend/internal/model"
)

// RecipeQuery narrows a recipe listing. Zero fields match everything.
type RecipeQuery struct {
	Text      string
	MealType  model.MealType
	Embedding *pgvector.Vector
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List returns every recipe owned by userID, oldest first.
func (r *RecipeRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&recipe).Error
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, notFound(err))
	}
	return &recipe, nil
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// Update overwrites an existing recipe. The recipe must belong to recipe.UserID.
func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	res := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
		Select("*").
		Omit("id", "user_id", "created_at", "deleted_at").
		Updates(recipe)
	if res.Error != nil {
		return fmt.Errorf("update recipe %s: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update recipe %s: %w", recipe.ID, ErrNotFound)
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Recipe{})
	if res.Error != nil {
		return fmt.Errorf("delete recipe %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// Search lists the user's recipes matching q. Text matches the recipe name or
// any ingredient name, case-insensitively. On PostgreSQL the results are ordered
// by embedding distance when q.Embedding is set.
func (r *RecipeRepository) Search(ctx context.Context, userID uuid.UUID, q RecipeQuery) ([]model.Recipe, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if q.MealType != "" {
		query = query.Where("meal_type = ?", q.MealType)
	}

	ordered := false
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text != "" {
		like := "%" + text + "%"
		if isPostgres(r.db) {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like)
			if q.Embedding != nil {
				query = query.Clauses(clause.OrderBy{
					Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{*q.Embedding}},
				})
				ordered = true
			}
		} else {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(ingredients) LIKE ?", like, like)
		}
	}

	if !ordered {
		query = query.Order("created_at, id")
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	if text == "" {
		return recipes, nil
	}

	// The LIKE on the JSON column also hits units and ids; keep only real matches.
	out := recipes[:0]
	for _, rec := range recipes {
		if MatchesText(rec, text) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// MatchesText reports whether the recipe name or one of its ingredient names contains text.
func MatchesText(r model.Recipe, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(strings.ToLower(r.Name), text) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), text) {
			return true
		}
	}
	return false
}
