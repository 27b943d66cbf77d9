package scheduler

import (
	"time"

	"kaloribot-api/internal/common"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"go.uber.org/zap"
)

// waterReminderHours are the local hours a water nudge may go out.
var waterReminderHours = map[int]bool{
	8: true, 10: true, 12: true, 14: true,
	16: true, 18: true, 20: true, 22: true,
}

var waterReminderChoices = []messenger.Choice{
	{Label: "1 Bardak (200 ml)", Data: "water_200"},
	{Label: "Büyük Bardak (250 ml)", Data: "water_250"},
	{Label: "Küçük Şişe (500 ml)", Data: "water_500"},
	{Label: "Büyük Şişe (1 L)", Data: "water_1000"},
}

const windowWarningText = "👋 Uzun süredir senden haber alamıyorum. Takibe devam etmek için bir mesaj yazman yeterli!"

func mealReminderText(category nutrition.MealCategory) string {
	switch category {
	case nutrition.CategoryBreakfast:
		return "🌅 Günaydın! Kahvaltı zamanın geldi. Yemeğinin fotoğrafını göndermeyi unutma!"
	case nutrition.CategoryLunch:
		return "🥗 Öğle yemeği zamanı! Ne yediğini kaydetmeyi unutma."
	default:
		return "🍲 Akşam yemeği zamanı! Günü tamamlamak için yemeğini kaydet."
	}
}

// forEachActiveUser runs fn per user, logging and counting failures without
// stopping the tick.
func (s *scheduler) forEachActiveUser(job string, fn func(*nutrition.User) error) {
	users, err := s.repository.ListActiveUsers()
	if err != nil {
		s.logger.Error("Failed to list users for tick",
			zap.String("job", job),
			zap.Error(err))
		return
	}

	for _, user := range users {
		if err := fn(user); err != nil {
			s.metrics.userErrors.Add(1)
			s.logger.Warn("Skipping user after processing error",
				zap.String("job", job),
				zap.String("user_phone", string(user.Phone)),
				zap.Error(err))
		}
	}
}

// userClock converts the tick instant to the user's wall clock.
func (s *scheduler) userClock(user *nutrition.User, now time.Time) time.Time {
	loc, ok := user.Location()
	if !ok {
		s.logger.Warn("Unknown user timezone, using fallback",
			zap.String("user_phone", string(user.Phone)),
			zap.String("timezone", user.Timezone))
	}
	return now.In(loc)
}

// runMealTick sends meal reminders to users whose local clock matches a
// configured meal time to the minute and who have not logged that meal yet.
func (s *scheduler) runMealTick() {
	now := s.clock.Now()
	s.forEachActiveUser("meal_reminders", func(user *nutrition.User) error {
		if !user.OnboardingCompleted {
			return nil
		}

		local := s.userClock(user, now)
		if common.InSilentWindow(local.Hour(), local.Minute(), user.SilentStart, user.SilentEnd) {
			return nil
		}

		clock := local.Format("15:04")
		due := nutrition.MealCategory("")
		for _, category := range []nutrition.MealCategory{
			nutrition.CategoryBreakfast, nutrition.CategoryLunch, nutrition.CategoryDinner,
		} {
			if user.ReminderEnabledFor(category) && user.MealTimeFor(category) == clock {
				due = category
				break
			}
		}
		if due == "" {
			return nil
		}

		start, end := nutrition.DayBounds(local, local.Location())
		logged, err := s.repository.LoggedCategories(user.Phone, start, end)
		if err != nil {
			return NewUserProcessingError(string(user.Phone), "meal_reminders", err)
		}
		if logged[due] {
			return nil
		}

		if err := s.provider.SendText(user.Phone, mealReminderText(due)); err != nil {
			return NewUserProcessingError(string(user.Phone), "meal_reminders", err)
		}

		s.metrics.mealRemindersSent.Add(1)
		s.publishReminder(user, events.ReminderKindMeal)
		return nil
	})
}

// runWaterTick nudges users to drink at the fixed recurring hours.
func (s *scheduler) runWaterTick() {
	now := s.clock.Now()
	s.forEachActiveUser("water_reminders", func(user *nutrition.User) error {
		if !user.OnboardingCompleted || !user.WaterReminder {
			return nil
		}

		local := s.userClock(user, now)
		if !waterReminderHours[local.Hour()] {
			return nil
		}
		if common.InSilentWindow(local.Hour(), local.Minute(), user.SilentStart, user.SilentEnd) {
			return nil
		}

		if err := s.provider.SendChoices(user.Phone, "💧 Su içme zamanı! Bugün ne kadar içtin?", waterReminderChoices); err != nil {
			return NewUserProcessingError(string(user.Phone), "water_reminders", err)
		}

		s.metrics.waterRemindersSent.Add(1)
		s.publishReminder(user, events.ReminderKindWater)
		return nil
	})
}

// runSummaryTick sends the end-of-day report at the configured local hour.
func (s *scheduler) runSummaryTick() {
	now := s.clock.Now()
	s.forEachActiveUser("daily_summaries", func(user *nutrition.User) error {
		if !user.OnboardingCompleted {
			return nil
		}

		local := s.userClock(user, now)
		if local.Hour() != s.config.SummaryHour {
			return nil
		}

		start, end := nutrition.DayBounds(local, local.Location())
		stats, err := s.repository.StatsForRange(user.Phone, start, end)
		if err != nil {
			return NewUserProcessingError(string(user.Phone), "daily_summaries", err)
		}
		meals, err := s.repository.MealsForRange(user.Phone, start, end)
		if err != nil {
			return NewUserProcessingError(string(user.Phone), "daily_summaries", err)
		}

		if err := s.provider.SendText(user.Phone, nutrition.FormatDailyReport(*user, *stats, meals)); err != nil {
			return NewUserProcessingError(string(user.Phone), "daily_summaries", err)
		}

		s.metrics.summariesSent.Add(1)
		s.publishReminder(user, events.ReminderKindSummary)
		return nil
	})
}

// runWindowTick warns users whose messaging window is about to close. A
// user who never wrote is never warned, and one warning covers the whole
// inactivity episode via the suppression record.
func (s *scheduler) runWindowTick() {
	now := s.clock.Now()
	s.forEachActiveUser("window_warnings", func(user *nutrition.User) error {
		lastInbound, err := s.repository.LastInboundAt(user.Phone)
		if err != nil {
			return NewUserProcessingError(string(user.Phone), "window_warnings", err)
		}

		status := nutrition.EvaluateWindow(lastInbound, now, s.config.WarnAfterHours, s.config.WarnDeadlineHours)
		if !status.NeedsWarning {
			return nil
		}

		since := now.Add(-time.Duration(s.config.RewarnSuppressionHours) * time.Hour)
		warned, err := s.repository.WasWarnedSince(user.Phone, since)
		if err != nil {
			return NewUserProcessingError(string(user.Phone), "window_warnings", err)
		}
		if warned {
			return nil
		}

		if err := s.provider.SendText(user.Phone, windowWarningText); err != nil {
			return NewUserProcessingError(string(user.Phone), "window_warnings", err)
		}
		if err := s.repository.MarkWarned(user.Phone, now); err != nil {
			return NewUserProcessingError(string(user.Phone), "window_warnings", err)
		}

		s.metrics.windowWarningsSent.Add(1)
		s.publishReminder(user, events.ReminderKindWindow)
		return nil
	})
}

func (s *scheduler) publishReminder(user *nutrition.User, kind string) {
	if err := s.eventBus.Publish(events.TopicReminderSent, events.ReminderSent{
		Event:     events.NewEvent(),
		UserPhone: string(user.Phone),
		Kind:      kind,
	}); err != nil {
		s.logger.Warn("Failed to publish reminder event",
			zap.String("user_phone", string(user.Phone)),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
