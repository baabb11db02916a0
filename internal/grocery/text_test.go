package grocery

import (
	"testing"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	s := week(map[string]*model.Recipe{
		"Monday":  dish("Stir fry", ing("Garlic", 10, "g", model.CategorySeasonings), ing("Chicken", 0.5, "kg", model.CategoryProtein)),
		"Tuesday": dish("Pasta", ing("Garlic", 2, "cloves", model.CategorySeasonings), ing("Eggs", 3, "", model.CategoryProtein)),
	})

	want := "🍗 Protein\n" +
		"  • Chicken: 0.5 kg\n" +
		"  • Eggs: 3\n" +
		"\n" +
		"🧂 Seasonings\n" +
		"  • Garlic: 2 cloves + 10 g\n"
	assert.Equal(t, want, Text(Build(s, nil)))
}

func TestLabelFallsBackToOthers(t *testing.T) {
	assert.Equal(t, "📦 Others", Label("dairy"))
	assert.Equal(t, "🥦 Vegetables & Fruits", Label(model.CategoryVegetablesFruits))
}
