package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Days is the fixed week, in order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MealSlots are the meal types that occupy schedule slots, in order.
var MealSlots = []MealType{MealBreakfast, MealLunch, MealDinner}

// IsDay reports whether day is one of Days.
func IsDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// IsMealSlot reports whether meal names a schedule slot.
func IsMealSlot(meal MealType) bool {
	return meal.Schedulable()
}

// DayMeals holds the three slots of a single day. A nil slot is empty.
type DayMeals struct {
	Breakfast *Recipe `json:"breakfast"`
	Lunch     *Recipe `json:"lunch"`
	Dinner    *Recipe `json:"dinner"`
}

// Get returns the recipe in the given slot.
func (d DayMeals) Get(meal MealType) *Recipe {
	switch meal {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	case MealDinner:
		return d.Dinner
	}
	return nil
}

// Set stores r in the given slot. Unknown meal types are ignored.
func (d *DayMeals) Set(meal MealType, r *Recipe) {
	switch meal {
	case MealBreakfast:
		d.Breakfast = r
	case MealLunch:
		d.Lunch = r
	case MealDinner:
		d.Dinner = r
	}
}

func (d DayMeals) clone() DayMeals {
	var out DayMeals
	for _, m := range MealSlots {
		if r := d.Get(m); r != nil {
			c := r.Clone()
			out.Set(m, &c)
		}
	}
	return out
}

// WeeklySchedule maps every day in Days to its meals.
type WeeklySchedule map[string]DayMeals

// NewWeeklySchedule returns a schedule with every slot empty.
func NewWeeklySchedule() WeeklySchedule {
	s := make(WeeklySchedule, len(Days))
	for _, d := range Days {
		s[d] = DayMeals{}
	}
	return s
}

// Clone deep-copies the schedule, including the recipes in each slot.
// Missing days are filled in as empty.
func (s WeeklySchedule) Clone() WeeklySchedule {
	out := NewWeeklySchedule()
	for _, d := range Days {
		out[d] = s[d].clone()
	}
	return out
}

// Refs reduces the schedule to the recipe ids it references.
func (s WeeklySchedule) Refs() ScheduleRef {
	ref := ScheduleRef{Days: make(map[string]DayRefs, len(Days))}
	for _, d := range Days {
		var dr DayRefs
		meals := s[d]
		for _, m := range MealSlots {
			if r := meals.Get(m); r != nil {
				id := r.ID
				dr.set(m, &id)
			}
		}
		ref.Days[d] = dr
	}
	return ref
}

// DayRefs is the stored form of DayMeals.
type DayRefs struct {
	Breakfast *uuid.UUID `json:"breakfast"`
	Lunch     *uuid.UUID `json:"lunch"`
	Dinner    *uuid.UUID `json:"dinner"`
}

func (d DayRefs) get(meal MealType) *uuid.UUID {
	switch meal {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	case MealDinner:
		return d.Dinner
	}
	return nil
}

func (d *DayRefs) set(meal MealType, id *uuid.UUID) {
	switch meal {
	case MealBreakfast:
		d.Breakfast = id
	case MealLunch:
		d.Lunch = id
	case MealDinner:
		d.Dinner = id
	}
}

// ScheduleRef is a schedule that references recipes by id only.
type ScheduleRef struct {
	Days map[string]DayRefs `json:"days"`
}

// Resolve turns the references back into a schedule using recipes.
// References to recipes that no longer exist resolve to empty slots.
func (r ScheduleRef) Resolve(recipes []Recipe) WeeklySchedule {
	byID := make(map[uuid.UUID]Recipe, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}
	out := NewWeeklySchedule()
	for _, d := range Days {
		refs := r.Days[d]
		var meals DayMeals
		for _, m := range MealSlots {
			id := refs.get(m)
			if id == nil {
				continue
			}
			if rec, ok := byID[*id]; ok {
				c := rec.Clone()
				meals.Set(m, &c)
			}
		}
		out[d] = meals
	}
	return out
}

// ScheduleRecord is the persisted schedule, one row per user.
type ScheduleRecord struct {
	UserID    uuid.UUID                       `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	Slots     datatypes.JSONType[ScheduleRef] `gorm:"not null" json:"slots"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

func (ScheduleRecord) TableName() string {
	return "schedules"
}
