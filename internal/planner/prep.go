package planner

import (
	"sort"

	"github.com/pageza/weekprep/backend/internal/model"
)

const (
	PrepSaturday = "Saturday"
	PrepSunday   = "Sunday"
)

// PrepTask is one dish to batch-cook on a prep day.
type PrepTask struct {
	Recipe   model.Recipe `json:"recipe"`
	Day      string       `json:"day"`
	Priority int          `json:"priority"`
}

// PrepPlan splits the week's dishes over the weekend.
type PrepPlan struct {
	Saturday        []PrepTask `json:"saturday"`
	Sunday          []PrepTask `json:"sunday"`
	TotalMinutes    int        `json:"total_minutes"`
	SaturdayMinutes int        `json:"saturday_minutes"`
	SundayMinutes   int        `json:"sunday_minutes"`
	FreezerCount    int        `json:"freezer_count"`
	FridgeCount     int        `json:"fridge_count"`
}

// BuildPrepPlan schedules every dish on the menu for weekend prep.
// Freezer dishes all go on Saturday. Fridge dishes are split so the longer
// half (rounded up) is cooked on Saturday and the rest on Sunday.
// Within each group the longest dishes come first.
func BuildPrepPlan(schedule model.WeeklySchedule) PrepPlan {
	var freezer, fridge []model.Recipe
	for _, day := range model.Days {
		meals := schedule[day]
		for _, meal := range model.MealSlots {
			r := meals.Get(meal)
			if r == nil {
				continue
			}
			if r.StorageType == model.StorageFreezer {
				freezer = append(freezer, r.Clone())
			} else {
				fridge = append(fridge, r.Clone())
			}
		}
	}

	byPrepTime := func(rs []model.Recipe) {
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].PrepTime > rs[j].PrepTime })
	}
	byPrepTime(freezer)
	byPrepTime(fridge)

	half := (len(fridge) + 1) / 2
	saturday := append(append([]model.Recipe{}, freezer...), fridge[:half]...)
	sunday := fridge[half:]

	plan := PrepPlan{
		Saturday:     tasks(PrepSaturday, saturday),
		Sunday:       tasks(PrepSunday, sunday),
		FreezerCount: len(freezer),
		FridgeCount:  len(fridge),
	}
	plan.SaturdayMinutes = minutes(plan.Saturday)
	plan.SundayMinutes = minutes(plan.Sunday)
	plan.TotalMinutes = plan.SaturdayMinutes + plan.SundayMinutes
	return plan
}

func tasks(day string, recipes []model.Recipe) []PrepTask {
	out := make([]PrepTask, 0, len(recipes))
	for i, r := range recipes {
		out = append(out, PrepTask{Recipe: r, Day: day, Priority: i + 1})
	}
	return out
}

func minutes(ts []PrepTask) int {
	total := 0
	for _, t := range ts {
		total += t.Recipe.PrepTime
	}
	return total
}
