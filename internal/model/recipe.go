package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealType is the slot a recipe is meant for.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
)

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

// Schedulable reports whether recipes of this meal type can occupy a schedule slot.
func (m MealType) Schedulable() bool {
	return m == MealBreakfast || m == MealLunch || m == MealDinner
}

// StorageType says how a batch-cooked dish keeps.
type StorageType string

const (
	StorageFridge  StorageType = "fridge"
	StorageFreezer StorageType = "freezer"
)

func (s StorageType) Valid() bool {
	return s == StorageFridge || s == StorageFreezer
}

// IngredientCategory groups ingredients on the grocery list.
type IngredientCategory string

const (
	CategoryVegetablesFruits IngredientCategory = "vegetables_fruits"
	CategoryProtein          IngredientCategory = "protein"
	CategorySeasonings       IngredientCategory = "seasonings"
	CategoryOthers           IngredientCategory = "others"
)

// Categories lists the grocery categories in display order.
var Categories = []IngredientCategory{
	CategoryVegetablesFruits,
	CategoryProtein,
	CategorySeasonings,
	CategoryOthers,
}

func (c IngredientCategory) Valid() bool {
	switch c {
	case CategoryVegetablesFruits, CategoryProtein, CategorySeasonings, CategoryOthers:
		return true
	}
	return false
}

// ParseCategory maps free text onto a known category, falling back to others.
func ParseCategory(s string) IngredientCategory {
	c := IngredientCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOthers
}

// Ingredient is embedded in its recipe and never stored on its own.
type Ingredient struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Amount   float64            `json:"amount"`
	Unit     string             `json:"unit"`
	Category IngredientCategory `json:"category"`
}

// EmbeddingDims is the length of recipe search embeddings.
const EmbeddingDims = 16

type Recipe struct {
	ID                  uuid.UUID                       `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt           time.Time                       `json:"created_at"`
	UpdatedAt           time.Time                       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt                  `gorm:"index" json:"-"`
	UserID              uuid.UUID                       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name                string                          `gorm:"size:255;not null" json:"name"`
	Ingredients         datatypes.JSONSlice[Ingredient] `gorm:"not null" json:"ingredients"`
	Steps               datatypes.JSONSlice[string]     `gorm:"not null" json:"steps"`
	PrepTime            int                             `gorm:"not null" json:"prep_time"`
	BatchServings       int                             `gorm:"not null" json:"batch_servings"`
	StorageType         StorageType                     `gorm:"size:20;not null" json:"storage_type"`
	MealType            MealType                        `gorm:"size:20;not null;index" json:"meal_type"`
	ImageURL            string                          `gorm:"size:512" json:"image_url,omitempty"`
	InstructionVideoURL string                          `gorm:"size:512" json:"instruction_video_url,omitempty"`
	Embedding           pgvector.Vector                 `gorm:"type:vector(16)" json:"-"`
}

// BeforeCreate assigns an ID when the caller did not supply one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Clone returns a copy that shares no slices with r.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append(datatypes.JSONSlice[Ingredient]{}, r.Ingredients...)
	}
	if r.Steps != nil {
		out.Steps = append(datatypes.JSONSlice[string]{}, r.Steps...)
	}
	if s := r.Embedding.Slice(); s != nil {
		out.Embedding = pgvector.NewVector(append([]float32{}, s...))
	}
	return out
}
