package nutrition

import (
	"time"

	"kaloribot-api/internal/common"
)

// Meal time defaults used until a user configures their own schedule.
var defaultMealTimes = map[MealCategory]string{
	CategoryBreakfast: "09:00",
	CategoryLunch:     "13:00",
	CategoryDinner:    "19:00",
}

// ClassifyToleranceMinutes is how far a meal may be logged from its
// configured time and still count as that meal.
const ClassifyToleranceMinutes = 120

// ClassifyMeal assigns a meal category from the local wall-clock time the
// meal was logged and the categories already logged today. The day's meals
// are expected in order: lunch is only assigned once breakfast was logged,
// dinner once breakfast and lunch were. Anything that breaks the sequence
// or falls outside every window is a snack; classification never fails.
func ClassifyMeal(u User, logged map[MealCategory]bool, localTime time.Time) MealCategory {
	nowMins := localTime.Hour()*60 + localTime.Minute()

	within := func(category MealCategory) bool {
		target, err := common.ClockMinutes(u.MealTimeFor(category))
		if err != nil {
			return false
		}
		return common.WithinTolerance(nowMins, target, ClassifyToleranceMinutes)
	}

	switch {
	case !logged[CategoryBreakfast] && within(CategoryBreakfast):
		return CategoryBreakfast
	case logged[CategoryBreakfast] && !logged[CategoryLunch] && within(CategoryLunch):
		return CategoryLunch
	case logged[CategoryBreakfast] && logged[CategoryLunch] && !logged[CategoryDinner] && within(CategoryDinner):
		return CategoryDinner
	default:
		return CategorySnack
	}
}
