package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/weekprep/backend/internal/model"
)

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestGenerateEmbedding(t *testing.T) {
	v := GenerateEmbedding("Garlic, garlic & CHILI").Slice()
	assert.Len(t, v, model.EmbeddingDims)

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	assert.Equal(t, v, GenerateEmbedding("garlic chili garlic").Slice())

	empty := GenerateEmbedding("  ").Slice()
	assert.Equal(t, make([]float32, model.EmbeddingDims), empty)
}

func TestRecipeEmbeddingUsesIngredientNames(t *testing.T) {
	r := model.Recipe{Name: "Noodles", Ingredients: []model.Ingredient{{Name: "Garlic"}, {Name: "Soy sauce"}}}
	query := GenerateEmbedding("garlic noodles").Slice()
	other := GenerateEmbedding("blueberry muffin").Slice()

	recipe := RecipeEmbedding(r).Slice()
	assert.Less(t, distance(recipe, query), distance(recipe, other))
}
