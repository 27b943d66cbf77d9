package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingStep_IsValid(t *testing.T) {
	for _, step := range []OnboardingStep{StepNone, StepAwaitingBreakfast, StepAwaitingLunch, StepAwaitingDinner, StepComplete} {
		assert.True(t, step.IsValid(), "step %q should be valid", step)
	}
	assert.False(t, OnboardingStep("awaiting_dessert").IsValid())
	assert.False(t, OnboardingStep("").IsValid())
}

func TestMealCategory_Label(t *testing.T) {
	assert.Equal(t, "Kahvaltı", CategoryBreakfast.Label())
	assert.Equal(t, "Öğle Yemeği", CategoryLunch.Label())
	assert.Equal(t, "Akşam Yemeği", CategoryDinner.Label())
	assert.Equal(t, "Atıştırmalık", CategorySnack.Label())
}

func TestUser_MealTimeFor(t *testing.T) {
	user := User{BreakfastTime: "07:30"}

	assert.Equal(t, "07:30", user.MealTimeFor(CategoryBreakfast))
	assert.Equal(t, "13:00", user.MealTimeFor(CategoryLunch))
	assert.Equal(t, "19:00", user.MealTimeFor(CategoryDinner))
}

func TestUser_ReminderEnabledFor(t *testing.T) {
	user := User{BreakfastReminder: true, LunchReminder: false, DinnerReminder: true}

	assert.True(t, user.ReminderEnabledFor(CategoryBreakfast))
	assert.False(t, user.ReminderEnabledFor(CategoryLunch))
	assert.True(t, user.ReminderEnabledFor(CategoryDinner))
	assert.False(t, user.ReminderEnabledFor(CategorySnack))
}

func TestUser_Location(t *testing.T) {
	loc, ok := User{Timezone: "America/New_York"}.Location()
	require.True(t, ok)
	assert.Equal(t, "America/New_York", loc.String())

	fallback, ok := User{Timezone: "Mars/Olympus_Mons"}.Location()
	assert.False(t, ok)
	assert.Equal(t, "Europe/Istanbul", fallback.String())
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 22:30 UTC on the 14th is already the 15th in Istanbul.
	moment := time.Date(2025, 5, 14, 22, 30, 0, 0, time.UTC)
	start, end := DayBounds(moment, loc)

	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 5, 16, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
