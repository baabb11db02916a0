package grocery

import (
	"strconv"
	"strings"

	"github.com/pageza/weekprep/backend/internal/model"
)

var categoryLabels = map[model.IngredientCategory]string{
	model.CategoryVegetablesFruits: "🥦 Vegetables & Fruits",
	model.CategoryProtein:          "🍗 Protein",
	model.CategorySeasonings:       "🧂 Seasonings",
	model.CategoryOthers:           "📦 Others",
}

// Label is the display heading for a category.
func Label(c model.IngredientCategory) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[model.CategoryOthers]
}

// Text renders the list as plain text for copying into a notes app.
// Empty categories are skipped.
func Text(list List) string {
	var b strings.Builder
	for _, g := range list.Groups {
		if len(g.Items) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Label(g.Category))
		b.WriteString("\n")
		for _, it := range g.Items {
			b.WriteString("  • ")
			b.WriteString(it.Name)
			b.WriteString(": ")
			parts := make([]string, 0, len(it.Quantities))
			for _, q := range it.Quantities {
				parts = append(parts, strings.TrimSpace(formatAmount(q.Amount)+" "+q.Unit))
			}
			b.WriteString(strings.Join(parts, " + "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
