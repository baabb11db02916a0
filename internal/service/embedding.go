package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/weekprep/backend/internal/model"
)

// GenerateEmbedding hashes the words of text into a fixed-size, unit-length
// bag-of-words vector. Recipes sharing ingredients end up close together,
// which is all the search ordering needs.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, model.EmbeddingDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%model.EmbeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

// RecipeEmbedding embeds the recipe name together with its ingredient names.
func RecipeEmbedding(r model.Recipe) pgvector.Vector {
	parts := make([]string, 0, len(r.Ingredients)+1)
	parts = append(parts, r.Name)
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Name)
	}
	return GenerateEmbedding(strings.Join(parts, " "))
}
