// Package extraction turns a photo of a recipe into an editable draft using a
// vision capable LLM.
package extraction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/weekprep/backend/internal/model"
)

var (
	ErrEmptyImage   = errors.New("missing imageBase64")
	ErrInvalidImage = errors.New("invalid base64 image")
	ErrUnparseable  = errors.New("model response is not a recipe")
	ErrDraftExpired = errors.New("draft not found or expired")
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func parseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Draft is an unsaved recipe read from a photo. The user reviews it before saving.
type Draft struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	PrepTime      int                   `json:"prep_time"`
	BatchServings int                   `json:"batch_servings"`
	StorageType   model.StorageType     `json:"storage_type"`
	MealType      model.MealType        `json:"meal_type"`
	Ingredients   []model.Ingredient    `json:"ingredients"`
	Steps         []string              `json:"steps"`
	Confidence    map[string]Confidence `json:"confidence"`
	Provider      string                `json:"provider"`
	CreatedAt     time.Time             `json:"created_at"`
}

// Recipe converts the draft into a recipe ready for validation.
func (d *Draft) Recipe() model.Recipe {
	return model.Recipe{
		Name:          d.Name,
		PrepTime:      d.PrepTime,
		BatchServings: d.BatchServings,
		StorageType:   d.StorageType,
		MealType:      d.MealType,
		Ingredients:   append([]model.Ingredient(nil), d.Ingredients...),
		Steps:         append([]string(nil), d.Steps...),
	}
}

const prompt = `Read the recipe in this photo.
Return ONLY valid JSON:
{
  "name": "",
  "prepTime": 30,
  "batchServings": 4,
  "storageType": "fridge",
  "mealType": "dinner",
  "ingredients": [{"name":"","amount":0,"unit":"g","category":"others"}],
  "steps": ["Step 1"],
  "confidence": {"name":"high","ingredients":"medium","steps":"high"}
}
storageType: fridge|freezer
mealType: breakfast|lunch|dinner|snacks
category: vegetables_fruits|protein|seasonings|others
confidence values: high|medium|low`

// the shape the model is asked to produce
type rawDraft struct {
	Name          string  `json:"name"`
	PrepTime      float64 `json:"prepTime"`
	BatchServings float64 `json:"batchServings"`
	StorageType   string  `json:"storageType"`
	MealType      string  `json:"mealType"`
	Ingredients   []struct {
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	} `json:"ingredients"`
	Steps      []string          `json:"steps"`
	Confidence map[string]string `json:"confidence"`
}

// confidenceFields are always present in a parsed draft.
var confidenceFields = []string{"name", "ingredients", "steps"}

// cleanBase64 drops a data URL prefix and checks the payload decodes.
func cleanBase64(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "base64,"); i >= 0 {
		s = s[i+len("base64,"):]
	}
	if s == "" {
		return "", nil, ErrEmptyImage
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return "", nil, ErrEmptyImage
	}
	return s, data, nil
}

// stripFences removes markdown code fences around a JSON answer.
func stripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// parseDraft reads the model's answer and normalizes every field.
func parseDraft(raw string) (*Draft, error) {
	text := stripFences(raw)
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var in rawDraft
	if err := json.Unmarshal([]byte(text), &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	d := &Draft{
		Name:          strings.TrimSpace(in.Name),
		PrepTime:      int(in.PrepTime),
		BatchServings: int(in.BatchServings),
		StorageType:   model.StorageType(strings.ToLower(strings.TrimSpace(in.StorageType))),
		MealType:      model.MealType(strings.ToLower(strings.TrimSpace(in.MealType))),
		Ingredients:   make([]model.Ingredient, 0, len(in.Ingredients)),
		Steps:         make([]string, 0, len(in.Steps)),
		Confidence:    make(map[string]Confidence, len(confidenceFields)),
	}
	if !d.StorageType.Valid() {
		d.StorageType = model.StorageFridge
	}
	if !d.MealType.Valid() {
		d.MealType = model.MealDinner
	}
	if d.PrepTime < 0 {
		d.PrepTime = 0
	}
	if d.BatchServings < 0 {
		d.BatchServings = 0
	}

	for _, ing := range in.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		amount := ing.Amount
		if amount < 0 {
			amount = 0
		}
		d.Ingredients = append(d.Ingredients, model.Ingredient{
			ID:       uuid.NewString(),
			Name:     name,
			Amount:   amount,
			Unit:     strings.TrimSpace(ing.Unit),
			Category: model.ParseCategory(ing.Category),
		})
	}
	for _, step := range in.Steps {
		if step = strings.TrimSpace(step); step != "" {
			d.Steps = append(d.Steps, step)
		}
	}

	for _, field := range confidenceFields {
		d.Confidence[field] = ConfidenceLow
	}
	for field, level := range in.Confidence {
		d.Confidence[field] = parseConfidence(level)
	}

	if d.Name == "" && len(d.Ingredients) == 0 && len(d.Steps) == 0 {
		return nil, fmt.Errorf("%w: no recipe fields found", ErrUnparseable)
	}
	return d, nil
}
