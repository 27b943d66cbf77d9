package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func localClock(hour, minute int) time.Time {
	return time.Date(2025, 5, 14, hour, minute, 0, 0, time.UTC)
}

func loggedSet(categories ...MealCategory) map[MealCategory]bool {
	logged := make(map[MealCategory]bool)
	for _, category := range categories {
		logged[category] = true
	}
	return logged
}

func TestClassifyMeal_SequentialDay(t *testing.T) {
	user := User{
		BreakfastTime: "08:00",
		LunchTime:     "12:30",
		DinnerTime:    "19:30",
	}

	tests := []struct {
		name     string
		logged   map[MealCategory]bool
		hour     int
		minute   int
		expected MealCategory
	}{
		{"first meal at breakfast time", loggedSet(), 8, 0, CategoryBreakfast},
		{"late breakfast inside tolerance", loggedSet(), 9, 59, CategoryBreakfast},
		{"breakfast boundary inclusive", loggedSet(), 10, 0, CategoryBreakfast},
		{"lunch time but breakfast skipped", loggedSet(), 13, 0, CategorySnack},
		{"lunch after breakfast", loggedSet(CategoryBreakfast), 13, 15, CategoryLunch},
		{"second entry at breakfast time is not breakfast again", loggedSet(CategoryBreakfast), 8, 30, CategorySnack},
		{"dinner requires breakfast and lunch", loggedSet(CategoryBreakfast), 19, 30, CategorySnack},
		{"dinner after full sequence", loggedSet(CategoryBreakfast, CategoryLunch), 20, 45, CategoryDinner},
		{"everything logged is always a snack", loggedSet(CategoryBreakfast, CategoryLunch, CategoryDinner), 19, 30, CategorySnack},
		{"mid afternoon gap is a snack", loggedSet(CategoryBreakfast), 16, 0, CategorySnack},
		{"late night is a snack", loggedSet(CategoryBreakfast, CategoryLunch), 23, 59, CategorySnack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyMeal(user, tt.logged, localClock(tt.hour, tt.minute)))
		})
	}
}

func TestClassifyMeal_OverlappingWindows(t *testing.T) {
	// Lunch and dinner less than four hours apart, so their two-hour
	// tolerance windows overlap. Decision order breaks the tie.
	user := User{
		BreakfastTime: "08:00",
		LunchTime:     "13:00",
		DinnerTime:    "16:00",
	}

	logged := loggedSet(CategoryBreakfast)
	assert.Equal(t, CategoryLunch, ClassifyMeal(user, logged, localClock(14, 30)))

	logged = loggedSet(CategoryBreakfast, CategoryLunch)
	assert.Equal(t, CategoryDinner, ClassifyMeal(user, logged, localClock(14, 30)))
}

func TestClassifyMeal_DefaultTimes(t *testing.T) {
	user := User{}

	assert.Equal(t, CategoryBreakfast, ClassifyMeal(user, loggedSet(), localClock(9, 0)))
	assert.Equal(t, CategoryLunch, ClassifyMeal(user, loggedSet(CategoryBreakfast), localClock(13, 0)))
	assert.Equal(t, CategoryDinner, ClassifyMeal(user, loggedSet(CategoryBreakfast, CategoryLunch), localClock(19, 0)))
}

func TestClassifyMeal_NeverErrs(t *testing.T) {
	user := User{BreakfastTime: "garbage", LunchTime: "25:99", DinnerTime: ""}

	for hour := 0; hour < 24; hour++ {
		category := ClassifyMeal(user, loggedSet(), localClock(hour, 0))
		assert.True(t, category.IsValid(), "hour %d produced invalid category %q", hour, category)
	}
}

func TestClassifyMeal_WrapsAroundMidnight(t *testing.T) {
	user := User{DinnerTime: "23:30", BreakfastTime: "09:00", LunchTime: "13:00"}

	// 00:30 is one hour past a 23:30 dinner, within tolerance across midnight.
	logged := loggedSet(CategoryBreakfast, CategoryLunch)
	assert.Equal(t, CategoryDinner, ClassifyMeal(user, logged, localClock(0, 30)))
}
