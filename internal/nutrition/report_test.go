package nutrition

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int
		goal    int
		filled  int
	}{
		{"empty", 0, 2000, 0},
		{"half", 1000, 2000, 5},
		{"full", 2000, 2000, 10},
		{"over goal caps at full", 3500, 2000, 10},
		{"zero goal", 500, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := progressBar(tt.current, tt.goal)

			assert.Equal(t, tt.filled, strings.Count(bar, "█"))
			assert.Equal(t, progressBarWidth-tt.filled, strings.Count(bar, "░"))
		})
	}
}

func TestMotivationalLine_Tiers(t *testing.T) {
	assert.Contains(t, motivationalLine(100, 100), "Muhteşem")
	assert.Contains(t, motivationalLine(80, 70), "Harika")
	assert.Contains(t, motivationalLine(50, 50), "İyi gidiyorsun")
	assert.Contains(t, motivationalLine(30, 20), "başlangıç")
	assert.Contains(t, motivationalLine(0, 0), "kayıt ekleyerek")
}

func TestFormatDailyReport(t *testing.T) {
	user := User{CalorieGoal: 2000, WaterGoalML: 2000}
	stats := DailyStats{Date: "2025-05-14", TotalCalories: 1500, TotalWaterML: 1000}
	meals := []*MealLog{
		{Category: CategoryBreakfast, Calories: 400, Description: "Menemen"},
		{Category: CategorySnack, Calories: 150},
	}

	report := FormatDailyReport(user, stats, meals)

	assert.Contains(t, report, "2025-05-14")
	assert.Contains(t, report, "1500 / 2000 kcal (%75)")
	assert.Contains(t, report, "1000 / 2000 ml (%50)")
	assert.Contains(t, report, "Menemen")
	// A meal without a description falls back to its category label.
	assert.Contains(t, report, "• Atıştırmalık — 150 kcal")
}

func TestFormatDailyReport_NoMeals(t *testing.T) {
	report := FormatDailyReport(User{CalorieGoal: 2000, WaterGoalML: 2000}, DailyStats{Date: "2025-05-14"}, nil)

	assert.Contains(t, report, "henüz öğün kaydı yok")
	assert.Contains(t, report, "kayıt ekleyerek")
}

func TestFormatHistory(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	created := time.Date(2025, 5, 14, 9, 0, 0, 0, time.UTC)
	meals := []*MealLog{
		{Category: CategoryLunch, Calories: 600, Description: "Mercimek çorbası", CreatedAt: created},
	}

	history := FormatHistory(meals, loc)

	assert.Contains(t, history, "Mercimek çorbası")
	// 09:00 UTC is 12:00 in Istanbul.
	assert.Contains(t, history, "14.05 12:00")
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Contains(t, FormatHistory(nil, time.UTC), "Henüz kayıtlı öğün yok")
}
