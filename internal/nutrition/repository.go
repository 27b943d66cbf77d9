package nutrition

import (
	"errors"
	"time"

	"kaloribot-api/internal/common"
)

// Repository errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFavoriteNotFound = errors.New("favorite meal not found")
)

// Goal and setting bounds, enforced at the repository edge so no caller can
// persist an out-of-range value.
const (
	MinCalorieGoal      = 500
	MaxCalorieGoal      = 5000
	MinWaterGoalML      = 500
	MaxWaterGoalML      = 10000
	MinWaterIntervalMin = 1
	MaxWaterIntervalMin = 480
)

// NutritionRepository provides unified data access for users and their logs
type NutritionRepository interface {
	// User operations
	GetUser(phone common.UserID) (*User, error)
	CreateUser(user *User) error
	SaveUser(user *User) error
	ListActiveUsers() ([]*User, error)
	ListAllUsers() ([]*User, error)
	ToggleUserActive(phone common.UserID) (bool, error)
	ResetUser(phone common.UserID) error

	// Meal operations
	AddMealLog(meal *MealLog) error
	MealsForRange(phone common.UserID, start, end time.Time) ([]*MealLog, error)
	LoggedCategories(phone common.UserID, start, end time.Time) (map[MealCategory]bool, error)
	RecentMeals(phone common.UserID, limit int) ([]*MealLog, error)
	DailyImageCount(phone common.UserID, start, end time.Time) (int64, error)

	// Water operations
	AddWaterLog(water *WaterLog) error

	// Aggregates
	StatsForRange(phone common.UserID, start, end time.Time) (*DailyStats, error)

	// Favorite meals
	SaveFavorite(favorite *FavoriteMeal) error
	GetFavorite(phone common.UserID, name string) (*FavoriteMeal, error)
	ListFavorites(phone common.UserID) ([]*FavoriteMeal, error)
	DeleteFavorite(phone common.UserID, name string) error

	// Conversation audit
	LogConversation(entry *ConversationLog) error
	RecentConversations(phone common.UserID, limit int) ([]*ConversationLog, error)
	LastInboundAt(phone common.UserID) (*time.Time, error)

	// Messaging window warnings
	WasWarnedSince(phone common.UserID, since time.Time) (bool, error)
	MarkWarned(phone common.UserID, at time.Time) error
	ClearWarning(phone common.UserID) error

	// Transaction support
	WithTransaction(fn func(NutritionRepository) error) error
}
