// Package grocery turns a weekly schedule into a shopping list and checks it against the shelf.
package grocery

import (
	"math"
	"sort"
	"strings"

	"github.com/pageza/weekprep/backend/internal/model"
)

// Status is how well the shelf covers a grocery item.
type Status string

const (
	StatusNeed         Status = "need"
	StatusHaveAll      Status = "have_all"
	StatusHavePartial  Status = "have_partial"
	StatusUnitMismatch Status = "have_unit_mismatch"
)

// Quantity is an amount in a single unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Item is one ingredient merged across the week.
type Item struct {
	Name        string                   `json:"name"`
	Category    model.IngredientCategory `json:"category"`
	Quantities  []Quantity               `json:"quantities"`
	ShelfAmount *float64                 `json:"shelf_amount,omitempty"`
	ShelfUnit   string                   `json:"shelf_unit,omitempty"`
	Status      Status                   `json:"status"`
	Missing     *Quantity                `json:"missing,omitempty"`
}

// Group holds the items of a single category.
type Group struct {
	Category model.IngredientCategory `json:"category"`
	Items    []Item                   `json:"items"`
}

// List is the grouped shopping list. Groups always holds every category in model.Categories order.
type List struct {
	Groups     []Group `json:"groups"`
	TotalItems int     `json:"total_items"`
}

// Normalize is the matching key for ingredient names and units.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type entry struct {
	name     string
	category model.IngredientCategory
	units    map[string]int
	qty      []Quantity
}

// Build aggregates every ingredient of every scheduled recipe and reconciles it with shelf.
// Names and unit spellings use the lexically smallest trimmed variant seen. Neither argument is modified.
func Build(schedule model.WeeklySchedule, shelf []model.ShelfItem) List {
	entries := make(map[string]*entry)
	var order []string

	for _, day := range model.Days {
		meals := schedule[day]
		for _, meal := range model.MealSlots {
			r := meals.Get(meal)
			if r == nil {
				continue
			}
			for _, ing := range r.Ingredients {
				key := Normalize(ing.Name)
				if key == "" {
					continue
				}
				e, ok := entries[key]
				if !ok {
					e = &entry{
						name:     strings.TrimSpace(ing.Name),
						category: model.ParseCategory(string(ing.Category)),
						units:    make(map[string]int),
					}
					entries[key] = e
					order = append(order, key)
				} else if name := strings.TrimSpace(ing.Name); name < e.name {
					e.name = name
				}
				unit := Normalize(ing.Unit)
				if i, ok := e.units[unit]; ok {
					e.qty[i].Amount += ing.Amount
					if spelling := strings.TrimSpace(ing.Unit); spelling < e.qty[i].Unit {
						e.qty[i].Unit = spelling
					}
					continue
				}
				e.units[unit] = len(e.qty)
				e.qty = append(e.qty, Quantity{Amount: ing.Amount, Unit: strings.TrimSpace(ing.Unit)})
			}
		}
	}

	grouped := make(map[model.IngredientCategory][]Item, len(model.Categories))
	for _, key := range order {
		e := entries[key]
		item := Item{
			Name:       e.name,
			Category:   e.category,
			Quantities: sortedQuantities(e.qty),
		}
		reconcile(&item, FindShelfItem(shelf, key))
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	list := List{Groups: make([]Group, 0, len(model.Categories))}
	for _, c := range model.Categories {
		items := grouped[c]
		if items == nil {
			items = []Item{}
		}
		sort.SliceStable(items, func(i, j int) bool {
			ri, rj := items[i].Status == StatusHaveAll, items[j].Status == StatusHaveAll
			if ri != rj {
				return !ri
			}
			return Normalize(items[i].Name) < Normalize(items[j].Name)
		})
		list.Groups = append(list.Groups, Group{Category: c, Items: items})
		list.TotalItems += len(items)
	}
	return list
}

// roundAmount trims float noise to six decimals.
func roundAmount(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

func sortedQuantities(qs []Quantity) []Quantity {
	out := append([]Quantity(nil), qs...)
	for i := range out {
		out[i].Amount = roundAmount(out[i].Amount)
	}
	sort.SliceStable(out, func(i, j int) bool { return Normalize(out[i].Unit) < Normalize(out[j].Unit) })
	return out
}

func reconcile(item *Item, shelf *model.ShelfItem) {
	if shelf == nil {
		item.Status = StatusNeed
		return
	}
	amount := shelf.Amount
	item.ShelfAmount = &amount
	item.ShelfUnit = shelf.Unit

	unit := Normalize(shelf.Unit)
	for _, q := range item.Quantities {
		if Normalize(q.Unit) != unit {
			continue
		}
		if roundAmount(shelf.Amount) >= q.Amount {
			item.Status = StatusHaveAll
			return
		}
		item.Status = StatusHavePartial
		item.Missing = &Quantity{Amount: roundAmount(q.Amount - shelf.Amount), Unit: q.Unit}
		return
	}
	item.Status = StatusUnitMismatch
}

// FindShelfItem returns the first shelf entry whose name matches name case-insensitively.
// Later duplicates are ignored.
func FindShelfItem(shelf []model.ShelfItem, name string) *model.ShelfItem {
	key := Normalize(name)
	for i := range shelf {
		if Normalize(shelf[i].Name) == key {
			item := shelf[i]
			return &item
		}
	}
	return nil
}

// OnShelfCount reports how many of a recipe's ingredients are on the shelf.
func OnShelfCount(r model.Recipe, shelf []model.ShelfItem) int {
	n := 0
	for _, ing := range r.Ingredients {
		if FindShelfItem(shelf, ing.Name) != nil {
			n++
		}
	}
	return n
}

// Summary counts list items by whether they still need buying.
type Summary struct {
	Total int `json:"total"`
	Need  int `json:"need"`
	Have  int `json:"have"`
}

// Summarize counts have_all items as had and everything else as needed.
func Summarize(list List) Summary {
	s := Summary{Total: list.TotalItems}
	for _, g := range list.Groups {
		for _, it := range g.Items {
			if it.Status == StatusHaveAll {
				s.Have++
			} else {
				s.Need++
			}
		}
	}
	return s
}
