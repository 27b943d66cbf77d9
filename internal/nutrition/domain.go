package nutrition

import (
	"time"

	"kaloribot-api/internal/common"
)

// OnboardingStep tracks where a user is in the meal time collection flow.
type OnboardingStep string

const (
	StepNone              OnboardingStep = "none"
	StepAwaitingBreakfast OnboardingStep = "awaiting_breakfast"
	StepAwaitingLunch     OnboardingStep = "awaiting_lunch"
	StepAwaitingDinner    OnboardingStep = "awaiting_dinner"
	StepComplete          OnboardingStep = "complete"
)

// String returns the string representation of OnboardingStep
func (s OnboardingStep) String() string {
	return string(s)
}

// IsValid checks if the OnboardingStep is valid
func (s OnboardingStep) IsValid() bool {
	switch s {
	case StepNone, StepAwaitingBreakfast, StepAwaitingLunch, StepAwaitingDinner, StepComplete:
		return true
	default:
		return false
	}
}

// MealCategory classifies a logged meal.
type MealCategory string

const (
	CategoryBreakfast MealCategory = "breakfast"
	CategoryLunch     MealCategory = "lunch"
	CategoryDinner    MealCategory = "dinner"
	CategorySnack     MealCategory = "snack"
)

// String returns the string representation of MealCategory
func (c MealCategory) String() string {
	return string(c)
}

// IsValid checks if the MealCategory is valid
func (c MealCategory) IsValid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack:
		return true
	default:
		return false
	}
}

// Label returns the Turkish display name used in messages to the user
func (c MealCategory) Label() string {
	switch c {
	case CategoryBreakfast:
		return "Kahvaltı"
	case CategoryLunch:
		return "Öğle Yemeği"
	case CategoryDinner:
		return "Akşam Yemeği"
	default:
		return "Atıştırmalık"
	}
}

// User holds a tracked user's profile and preferences. The messaging phone
// number is the primary key.
type User struct {
	Phone                common.UserID  `json:"phone" gorm:"primaryKey;type:varchar(20)"`
	Timezone             string         `json:"timezone" gorm:"type:varchar(64);not null;default:'Europe/Istanbul'"`
	OnboardingCompleted  bool           `json:"onboarding_completed" gorm:"not null;default:false"`
	OnboardingStep       OnboardingStep `json:"onboarding_step" gorm:"type:varchar(32);not null;default:'none'"`
	BreakfastTime        string         `json:"breakfast_time" gorm:"type:varchar(5)"`
	LunchTime            string         `json:"lunch_time" gorm:"type:varchar(5)"`
	DinnerTime           string         `json:"dinner_time" gorm:"type:varchar(5)"`
	BreakfastReminder    bool           `json:"breakfast_reminder" gorm:"not null;default:true"`
	LunchReminder        bool           `json:"lunch_reminder" gorm:"not null;default:true"`
	DinnerReminder       bool           `json:"dinner_reminder" gorm:"not null;default:true"`
	WaterReminder        bool           `json:"water_reminder" gorm:"not null;default:true"`
	CalorieGoal          int            `json:"calorie_goal" gorm:"not null;default:2000"`
	WaterGoalML          int            `json:"water_goal_ml" gorm:"not null;default:2000"`
	WaterIntervalMinutes int            `json:"water_interval_minutes" gorm:"not null;default:120"`
	SilentStart          string         `json:"silent_start" gorm:"type:varchar(5);not null;default:'23:00'"`
	SilentEnd            string         `json:"silent_end" gorm:"type:varchar(5);not null;default:'07:00'"`
	IsActive             bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt            time.Time      `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time      `json:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// MealTimeFor returns the configured reminder time for a category, falling
// back to the classifier defaults when the user never set one.
func (u User) MealTimeFor(category MealCategory) string {
	var configured string
	switch category {
	case CategoryBreakfast:
		configured = u.BreakfastTime
	case CategoryLunch:
		configured = u.LunchTime
	case CategoryDinner:
		configured = u.DinnerTime
	}
	if configured == "" {
		return defaultMealTimes[category]
	}
	return configured
}

// ReminderEnabledFor reports whether the user wants reminders for a category
func (u User) ReminderEnabledFor(category MealCategory) bool {
	switch category {
	case CategoryBreakfast:
		return u.BreakfastReminder
	case CategoryLunch:
		return u.LunchReminder
	case CategoryDinner:
		return u.DinnerReminder
	default:
		return false
	}
}

// Location resolves the user's IANA timezone. An unknown zone falls back to
// Europe/Istanbul so a corrupt setting never halts reminder evaluation.
func (u User) Location() (*time.Location, bool) {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return istanbul, false
	}
	return loc, true
}

var istanbul = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.FixedZone("TRT", 3*60*60)
	}
	return loc
}()

// MealLog is a single logged meal.
type MealLog struct {
	ID          common.ID     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserPhone   common.UserID `json:"user_phone" gorm:"type:varchar(20);not null;index"`
	Category    MealCategory  `json:"category" gorm:"type:varchar(20);not null"`
	Calories    int           `json:"calories" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text"`
	ImagePath   string        `json:"image_path" gorm:"type:varchar(512)"`
	CreatedAt   time.Time     `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index"`
}

// WaterLog is a single logged water intake.
type WaterLog struct {
	ID        common.ID     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserPhone common.UserID `json:"user_phone" gorm:"type:varchar(20);not null;index"`
	AmountML  int           `json:"amount_ml" gorm:"not null"`
	CreatedAt time.Time     `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index"`
}

// FavoriteMeal is a user-saved meal for one-tap logging.
type FavoriteMeal struct {
	ID          common.ID     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserPhone   common.UserID `json:"user_phone" gorm:"type:varchar(20);not null;uniqueIndex:idx_favorite_user_name"`
	Name        string        `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_favorite_user_name"`
	Calories    int           `json:"calories" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// ConversationLog records every message exchanged with a user.
type ConversationLog struct {
	ID          common.ID               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserPhone   common.UserID           `json:"user_phone" gorm:"type:varchar(20);not null;index"`
	Direction   common.MessageDirection `json:"direction" gorm:"type:varchar(10);not null"`
	MessageType string                  `json:"message_type" gorm:"type:varchar(20);not null"`
	Content     string                  `json:"content" gorm:"type:text"`
	CreatedAt   time.Time               `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index"`
}

// WindowWarning tracks the last re-engagement warning sent to a user so the
// same inactivity episode is not warned about twice.
type WindowWarning struct {
	UserPhone    common.UserID `json:"user_phone" gorm:"primaryKey;type:varchar(20)"`
	LastWarnedAt time.Time     `json:"last_warned_at" gorm:"type:timestamp;not null"`
}

// DailyStats aggregates one day of logging for a user.
type DailyStats struct {
	Date          string `json:"date"`
	TotalCalories int    `json:"total_calories"`
	TotalWaterML  int    `json:"total_water_ml"`
	MealCount     int    `json:"meal_count"`
	WaterCount    int    `json:"water_count"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// TableName returns the table name for the MealLog model
func (MealLog) TableName() string {
	return "meal_logs"
}

// TableName returns the table name for the WaterLog model
func (WaterLog) TableName() string {
	return "water_logs"
}

// TableName returns the table name for the FavoriteMeal model
func (FavoriteMeal) TableName() string {
	return "favorite_meals"
}

// TableName returns the table name for the ConversationLog model
func (ConversationLog) TableName() string {
	return "conversation_logs"
}

// TableName returns the table name for the WindowWarning model
func (WindowWarning) TableName() string {
	return "window_warnings"
}

// DayBounds returns the [start, end) instants of the calendar day containing
// t in the given location.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
