package testhelpers

import (
	"github.com/google/uuid"

	"github.com/pageza/weekprep/backend/internal/model"
)

// Recipe builds a valid recipe owned by userID.
func Recipe(userID uuid.UUID, name string, meal model.MealType, ings ...model.Ingredient) model.Recipe {
	return model.Recipe{
		UserID:        userID,
		Name:          name,
		Ingredients:   ings,
		Steps:         []string{"prep", "cook"},
		PrepTime:      30,
		BatchServings: 4,
		StorageType:   model.StorageFridge,
		MealType:      meal,
	}
}

// Ingredient builds an ingredient with a fresh id.
func Ingredient(name string, amount float64, unit string, c model.IngredientCategory) model.Ingredient {
	return model.Ingredient{ID: uuid.NewString(), Name: name, Amount: amount, Unit: unit, Category: c}
}
