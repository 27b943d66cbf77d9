package nutrition

import (
	"fmt"
	"strings"
	"time"
)

const progressBarWidth = 10

// progressBar renders a filled/empty bar for a ratio of current to goal,
// capped at full.
func progressBar(current, goal int) string {
	filled := 0
	if goal > 0 {
		filled = current * progressBarWidth / goal
		if filled > progressBarWidth {
			filled = progressBarWidth
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

func percentOf(current, goal int) int {
	if goal <= 0 {
		return 0
	}
	return current * 100 / goal
}

// motivationalLine picks the closing line of the daily report from how much
// of both goals the user hit.
func motivationalLine(caloriePct, waterPct int) string {
	avg := (caloriePct + waterPct) / 2
	switch {
	case avg >= 100:
		return "🏆 Muhteşem! Bugün tüm hedeflerine ulaştın!"
	case avg >= 75:
		return "💪 Harika gidiyorsun, hedefe çok az kaldı!"
	case avg >= 50:
		return "🙂 İyi gidiyorsun, devam et!"
	case avg >= 25:
		return "🌱 Güzel bir başlangıç, biraz daha gayret!"
	default:
		return "📝 Bugün kayıt ekleyerek hedeflerine yaklaşabilirsin."
	}
}

// FormatDailyReport renders the Turkish daily summary sent for the report
// command and the evening summary reminder.
func FormatDailyReport(user User, stats DailyStats, meals []*MealLog) string {
	caloriePct := percentOf(stats.TotalCalories, user.CalorieGoal)
	waterPct := percentOf(stats.TotalWaterML, user.WaterGoalML)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Günlük Rapor* (%s)\n\n", stats.Date)

	fmt.Fprintf(&b, "🍽️ Kalori: %d / %d kcal (%%%d)\n%s\n\n",
		stats.TotalCalories, user.CalorieGoal, caloriePct, progressBar(stats.TotalCalories, user.CalorieGoal))
	fmt.Fprintf(&b, "💧 Su: %d / %d ml (%%%d)\n%s\n\n",
		stats.TotalWaterML, user.WaterGoalML, waterPct, progressBar(stats.TotalWaterML, user.WaterGoalML))

	if len(meals) > 0 {
		b.WriteString("🥗 *Bugünkü öğünler:*\n")
		for _, meal := range meals {
			desc := meal.Description
			if desc == "" {
				desc = meal.Category.Label()
			}
			fmt.Fprintf(&b, "• %s — %d kcal (%s)\n", desc, meal.Calories, meal.Category.Label())
		}
		b.WriteString("\n")
	} else {
		b.WriteString("🥗 Bugün henüz öğün kaydı yok.\n\n")
	}

	b.WriteString(motivationalLine(caloriePct, waterPct))
	return b.String()
}

// FormatHistory renders the recent-meals listing for the history command.
// Timestamps are shown in the user's local time.
func FormatHistory(meals []*MealLog, loc *time.Location) string {
	if len(meals) == 0 {
		return "📭 Henüz kayıtlı öğün yok. Yemek fotoğrafı göndererek başlayabilirsin!"
	}

	var b strings.Builder
	b.WriteString("📜 *Son öğünlerin:*\n\n")
	for _, meal := range meals {
		desc := meal.Description
		if desc == "" {
			desc = meal.Category.Label()
		}
		fmt.Fprintf(&b, "• %s — %d kcal (%s, %s)\n",
			desc, meal.Calories, meal.Category.Label(), meal.CreatedAt.In(loc).Format("02.01 15:04"))
	}
	return b.String()
}
