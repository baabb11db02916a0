package types

import (
	"github.com/google/uuid"

	"github.com/pageza/weekprep/backend/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RecipeRequest is the body of recipe create and update calls.
type RecipeRequest struct {
	Name                string             `json:"name" binding:"required"`
	Ingredients         []model.Ingredient `json:"ingredients"`
	Steps               []string           `json:"steps"`
	PrepTime            int                `json:"prep_time"`
	BatchServings       int                `json:"batch_servings"`
	StorageType         model.StorageType  `json:"storage_type"`
	MealType            model.MealType     `json:"meal_type"`
	ImageURL            string             `json:"image_url"`
	InstructionVideoURL string             `json:"instruction_video_url"`
}

// Recipe converts the request into an unsaved recipe.
func (r RecipeRequest) Recipe() model.Recipe {
	return model.Recipe{
		Name:                r.Name,
		Ingredients:         r.Ingredients,
		Steps:               r.Steps,
		PrepTime:            r.PrepTime,
		BatchServings:       r.BatchServings,
		StorageType:         r.StorageType,
		MealType:            r.MealType,
		ImageURL:            r.ImageURL,
		InstructionVideoURL: r.InstructionVideoURL,
	}
}

// SetSlotRequest assigns a recipe to a slot. A null recipe_id empties it.
type SetSlotRequest struct {
	RecipeID *uuid.UUID `json:"recipe_id"`
}

// SlotRef names a single schedule slot.
type SlotRef struct {
	Day  string         `json:"day" binding:"required"`
	Meal model.MealType `json:"meal" binding:"required"`
}

type SwapRequest struct {
	From SlotRef `json:"from" binding:"required"`
	To   SlotRef `json:"to" binding:"required"`
}

type ShelfItemRequest struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ExtractRequest carries a photo of a recipe, base64 encoded with or without a data URL prefix.
type ExtractRequest struct {
	ImageBase64 string `json:"imageBase64"`
}
