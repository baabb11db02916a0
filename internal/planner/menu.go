// Package planner builds weekly menus and weekend prep plans from a recipe collection.
package planner

import (
	"errors"
	"fmt"

	"github.com/pageza/weekprep/backend/internal/model"
)

var (
	ErrInvalidDay  = errors.New("invalid day")
	ErrInvalidMeal = errors.New("invalid meal")
)

// Generate fills the week by cycling through the recipes of each meal type.
// Day i takes bucket[i % len(bucket)]; a meal type without recipes stays empty.
// Snack recipes are never scheduled.
func Generate(recipes []model.Recipe) model.WeeklySchedule {
	buckets := make(map[model.MealType][]model.Recipe, len(model.MealSlots))
	for _, r := range recipes {
		if r.MealType.Schedulable() {
			buckets[r.MealType] = append(buckets[r.MealType], r)
		}
	}

	schedule := model.NewWeeklySchedule()
	for i, day := range model.Days {
		var meals model.DayMeals
		for _, meal := range model.MealSlots {
			bucket := buckets[meal]
			if len(bucket) == 0 {
				continue
			}
			r := bucket[i%len(bucket)].Clone()
			meals.Set(meal, &r)
		}
		schedule[day] = meals
	}
	return schedule
}

// Blank returns a schedule with every slot empty.
func Blank() model.WeeklySchedule {
	return model.NewWeeklySchedule()
}

func checkSlot(day string, meal model.MealType) error {
	if !model.IsDay(day) {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if !model.IsMealSlot(meal) {
		return fmt.Errorf("%w: %q", ErrInvalidMeal, meal)
	}
	return nil
}

// SetSlot returns a copy of schedule with a single slot replaced. A nil recipe empties the slot.
func SetSlot(schedule model.WeeklySchedule, day string, meal model.MealType, recipe *model.Recipe) (model.WeeklySchedule, error) {
	if err := checkSlot(day, meal); err != nil {
		return nil, err
	}
	out := schedule.Clone()
	meals := out[day]
	if recipe != nil {
		r := recipe.Clone()
		meals.Set(meal, &r)
	} else {
		meals.Set(meal, nil)
	}
	out[day] = meals
	return out, nil
}

// Swap returns a copy of schedule with the two slots exchanged.
// Swapping a slot with itself yields an unchanged copy.
func Swap(schedule model.WeeklySchedule, day1 string, meal1 model.MealType, day2 string, meal2 model.MealType) (model.WeeklySchedule, error) {
	if err := checkSlot(day1, meal1); err != nil {
		return nil, err
	}
	if err := checkSlot(day2, meal2); err != nil {
		return nil, err
	}
	out := schedule.Clone()
	if day1 == day2 && meal1 == meal2 {
		return out, nil
	}

	a := out[day1].Get(meal1)
	b := out[day2].Get(meal2)

	first := out[day1]
	first.Set(meal1, b)
	out[day1] = first

	second := out[day2]
	second.Set(meal2, a)
	out[day2] = second
	return out, nil
}
