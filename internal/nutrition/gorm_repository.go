package nutrition

import (
	"errors"
	"time"

	"kaloribot-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormNutritionRepository implements the NutritionRepository interface using GORM
type gormNutritionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormNutritionRepository creates a new GORM-based nutrition repository
func NewGormNutritionRepository(db *gorm.DB, logger *zap.Logger) NutritionRepository {
	return &gormNutritionRepository{
		db:     db,
		logger: logger,
	}
}

// User operations

// GetUser retrieves a user by phone number
func (r *gormNutritionRepository) GetUser(phone common.UserID) (*User, error) {
	r.logger.Debug("Getting user", zap.String("phone", string(phone)))

	var user User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "User", ID: string(phone)}
		}
		return nil, WrapRepositoryError(err, "get user")
	}

	return &user, nil
}

// CreateUser creates a new user row
func (r *gormNutritionRepository) CreateUser(user *User) error {
	r.logger.Debug("Creating user", zap.String("phone", string(user.Phone)))

	if !user.Phone.IsValid() {
		return NewValidationError("phone", user.Phone, "not a valid phone number")
	}
	if !user.OnboardingStep.IsValid() {
		return NewValidationError("onboarding_step", user.OnboardingStep, "unknown onboarding step")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.db.Create(user).Error; err != nil {
		return WrapRepositoryError(err, "create user")
	}

	r.logger.Info("User created", zap.String("phone", string(user.Phone)))
	return nil
}

// SaveUser upserts the full user row
func (r *gormNutritionRepository) SaveUser(user *User) error {
	r.logger.Debug("Saving user", zap.String("phone", string(user.Phone)))

	if !user.OnboardingStep.IsValid() {
		return NewValidationError("onboarding_step", user.OnboardingStep, "unknown onboarding step")
	}
	if err := validateUserRanges(user); err != nil {
		return err
	}

	user.UpdatedAt = time.Now()

	if err := r.db.Save(user).Error; err != nil {
		return WrapRepositoryError(err, "save user")
	}
	return nil
}

func validateUserRanges(user *User) error {
	if user.CalorieGoal < MinCalorieGoal || user.CalorieGoal > MaxCalorieGoal {
		return NewGoalRangeError("calorie goal", user.CalorieGoal, MinCalorieGoal, MaxCalorieGoal)
	}
	if user.WaterGoalML < MinWaterGoalML || user.WaterGoalML > MaxWaterGoalML {
		return NewGoalRangeError("water goal", user.WaterGoalML, MinWaterGoalML, MaxWaterGoalML)
	}
	if user.WaterIntervalMinutes < MinWaterIntervalMin || user.WaterIntervalMinutes > MaxWaterIntervalMin {
		return NewGoalRangeError("water interval", user.WaterIntervalMinutes, MinWaterIntervalMin, MaxWaterIntervalMin)
	}
	return nil
}

// ListActiveUsers returns every active user, for scheduler passes
func (r *gormNutritionRepository) ListActiveUsers() ([]*User, error) {
	var users []*User
	err := r.db.Where("is_active = ?", true).Find(&users).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "list active users")
	}

	r.logger.Debug("Retrieved active users", zap.Int("count", len(users)))
	return users, nil
}

// ListAllUsers returns every user regardless of active state
func (r *gormNutritionRepository) ListAllUsers() ([]*User, error) {
	var users []*User
	err := r.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "list all users")
	}
	return users, nil
}

// ToggleUserActive flips the active flag and returns the new state
func (r *gormNutritionRepository) ToggleUserActive(phone common.UserID) (bool, error) {
	r.logger.Debug("Toggling user active state", zap.String("phone", string(phone)))

	user, err := r.GetUser(phone)
	if err != nil {
		return false, err
	}

	newState := !user.IsActive
	result := r.db.Model(&User{}).
		Where("phone = ?", phone).
		Updates(map[string]interface{}{
			"is_active":  newState,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, WrapRepositoryError(result.Error, "toggle user active")
	}

	r.logger.Info("User active state toggled",
		zap.String("phone", string(phone)),
		zap.Bool("is_active", newState))
	return newState, nil
}

// ResetUser deletes a user's logged data and favorites and returns the row
// itself to the not-onboarded initial state. The identity row survives.
func (r *gormNutritionRepository) ResetUser(phone common.UserID) error {
	r.logger.Debug("Resetting user data", zap.String("phone", string(phone)))

	if _, err := r.GetUser(phone); err != nil {
		return err
	}

	return r.WithTransaction(func(repo NutritionRepository) error {
		tx := repo.(*gormNutritionRepository).db
		if err := tx.Delete(&MealLog{}, "user_phone = ?", phone).Error; err != nil {
			return WrapRepositoryError(err, "reset user meals")
		}
		if err := tx.Delete(&WaterLog{}, "user_phone = ?", phone).Error; err != nil {
			return WrapRepositoryError(err, "reset user water logs")
		}
		if err := tx.Delete(&ConversationLog{}, "user_phone = ?", phone).Error; err != nil {
			return WrapRepositoryError(err, "reset user conversations")
		}
		if err := tx.Delete(&WindowWarning{}, "user_phone = ?", phone).Error; err != nil {
			return WrapRepositoryError(err, "reset user warnings")
		}
		if err := tx.Delete(&FavoriteMeal{}, "user_phone = ?", phone).Error; err != nil {
			return WrapRepositoryError(err, "reset user favorites")
		}
		result := tx.Model(&User{}).
			Where("phone = ?", phone).
			Updates(map[string]interface{}{
				"onboarding_completed": false,
				"onboarding_step":      StepNone,
				"breakfast_time":       "",
				"lunch_time":           "",
				"dinner_time":          "",
				"calorie_goal":         2000,
				"water_goal_ml":        2000,
				"is_active":            true,
				"updated_at":           time.Now(),
			})
		if result.Error != nil {
			return WrapRepositoryError(result.Error, "reset user profile")
		}
		r.logger.Info("User data reset", zap.String("phone", string(phone)))
		return nil
	})
}

// Meal operations

// AddMealLog persists a logged meal
func (r *gormNutritionRepository) AddMealLog(meal *MealLog) error {
	r.logger.Debug("Adding meal log",
		zap.String("phone", string(meal.UserPhone)),
		zap.String("category", string(meal.Category)))

	if !meal.Category.IsValid() {
		return NewValidationError("category", meal.Category, "unknown meal category")
	}
	if meal.Calories < 0 {
		return NewValidationError("calories", meal.Calories, "calories cannot be negative")
	}

	if meal.ID == "" {
		meal.ID = common.NewID()
	}
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now()
	}

	if err := r.db.Create(meal).Error; err != nil {
		return WrapRepositoryError(err, "add meal log")
	}

	r.logger.Info("Meal logged",
		zap.String("phone", string(meal.UserPhone)),
		zap.String("category", string(meal.Category)),
		zap.Int("calories", meal.Calories))
	return nil
}

// MealsForRange retrieves meals created within [start, end)
func (r *gormNutritionRepository) MealsForRange(phone common.UserID, start, end time.Time) ([]*MealLog, error) {
	var meals []*MealLog
	err := r.db.
		Where("user_phone = ? AND created_at >= ? AND created_at < ?", phone, start, end).
		Order("created_at ASC").
		Find(&meals).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "meals for range")
	}
	return meals, nil
}

// LoggedCategories reports which meal categories were logged within [start, end)
func (r *gormNutritionRepository) LoggedCategories(phone common.UserID, start, end time.Time) (map[MealCategory]bool, error) {
	var categories []MealCategory
	err := r.db.Model(&MealLog{}).
		Distinct("category").
		Where("user_phone = ? AND created_at >= ? AND created_at < ?", phone, start, end).
		Pluck("category", &categories).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "logged categories")
	}

	logged := make(map[MealCategory]bool, len(categories))
	for _, c := range categories {
		logged[c] = true
	}
	return logged, nil
}

// RecentMeals returns the user's latest meals, newest first
func (r *gormNutritionRepository) RecentMeals(phone common.UserID, limit int) ([]*MealLog, error) {
	if limit <= 0 {
		limit = 5
	}

	var meals []*MealLog
	err := r.db.
		Where("user_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&meals).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "recent meals")
	}
	return meals, nil
}

// DailyImageCount counts image-based meal logs within [start, end)
func (r *gormNutritionRepository) DailyImageCount(phone common.UserID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&MealLog{}).
		Where("user_phone = ? AND image_path <> '' AND created_at >= ? AND created_at < ?", phone, start, end).
		Count(&count).Error
	if err != nil {
		return 0, WrapRepositoryError(err, "daily image count")
	}
	return count, nil
}

// Water operations

// AddWaterLog persists a logged water intake
func (r *gormNutritionRepository) AddWaterLog(water *WaterLog) error {
	r.logger.Debug("Adding water log",
		zap.String("phone", string(water.UserPhone)),
		zap.Int("amount_ml", water.AmountML))

	if water.AmountML <= 0 {
		return NewValidationError("amount_ml", water.AmountML, "amount must be positive")
	}

	if water.ID == "" {
		water.ID = common.NewID()
	}
	if water.CreatedAt.IsZero() {
		water.CreatedAt = time.Now()
	}

	if err := r.db.Create(water).Error; err != nil {
		return WrapRepositoryError(err, "add water log")
	}

	r.logger.Info("Water logged",
		zap.String("phone", string(water.UserPhone)),
		zap.Int("amount_ml", water.AmountML))
	return nil
}

// Aggregates

// StatsForRange sums a user's calories and water within [start, end)
func (r *gormNutritionRepository) StatsForRange(phone common.UserID, start, end time.Time) (*DailyStats, error) {
	stats := &DailyStats{Date: start.Format("2006-01-02")}

	type mealAgg struct {
		Total int
		Count int
	}
	var meals mealAgg
	err := r.db.Model(&MealLog{}).
		Select("COALESCE(SUM(calories), 0) AS total, COUNT(*) AS count").
		Where("user_phone = ? AND created_at >= ? AND created_at < ?", phone, start, end).
		Scan(&meals).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "stats meals")
	}
	stats.TotalCalories = meals.Total
	stats.MealCount = meals.Count

	type waterAgg struct {
		Total int
		Count int
	}
	var water waterAgg
	err = r.db.Model(&WaterLog{}).
		Select("COALESCE(SUM(amount_ml), 0) AS total, COUNT(*) AS count").
		Where("user_phone = ? AND created_at >= ? AND created_at < ?", phone, start, end).
		Scan(&water).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "stats water")
	}
	stats.TotalWaterML = water.Total
	stats.WaterCount = water.Count

	return stats, nil
}

// Favorite meals

// SaveFavorite upserts a favorite meal by user and name
func (r *gormNutritionRepository) SaveFavorite(favorite *FavoriteMeal) error {
	r.logger.Debug("Saving favorite meal",
		zap.String("phone", string(favorite.UserPhone)),
		zap.String("name", favorite.Name))

	if favorite.Name == "" {
		return NewValidationError("name", favorite.Name, "favorite name cannot be empty")
	}
	if favorite.Calories < 0 {
		return NewValidationError("calories", favorite.Calories, "calories cannot be negative")
	}

	existing, err := r.GetFavorite(favorite.UserPhone, favorite.Name)
	if err == nil {
		favorite.ID = existing.ID
		favorite.CreatedAt = existing.CreatedAt
		if err := r.db.Save(favorite).Error; err != nil {
			return WrapRepositoryError(err, "update favorite")
		}
		return nil
	}
	if !errors.Is(err, ErrFavoriteNotFound) {
		return err
	}

	favorite.ID = common.NewID()
	favorite.CreatedAt = time.Now()
	if err := r.db.Create(favorite).Error; err != nil {
		return WrapRepositoryError(err, "create favorite")
	}
	return nil
}

// GetFavorite retrieves a favorite by case-insensitive name
func (r *gormNutritionRepository) GetFavorite(phone common.UserID, name string) (*FavoriteMeal, error) {
	var favorite FavoriteMeal
	err := r.db.
		Where("user_phone = ? AND LOWER(name) = LOWER(?)", phone, name).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, WrapRepositoryError(err, "get favorite")
	}
	return &favorite, nil
}

// ListFavorites returns a user's favorites ordered by creation
func (r *gormNutritionRepository) ListFavorites(phone common.UserID) ([]*FavoriteMeal, error) {
	var favorites []*FavoriteMeal
	err := r.db.
		Where("user_phone = ?", phone).
		Order("created_at ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "list favorites")
	}
	return favorites, nil
}

// DeleteFavorite removes a favorite by name
func (r *gormNutritionRepository) DeleteFavorite(phone common.UserID, name string) error {
	result := r.db.Delete(&FavoriteMeal{}, "user_phone = ? AND LOWER(name) = LOWER(?)", phone, name)
	if result.Error != nil {
		return WrapRepositoryError(result.Error, "delete favorite")
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}

	r.logger.Info("Favorite deleted",
		zap.String("phone", string(phone)),
		zap.String("name", name))
	return nil
}

// Conversation audit

// LogConversation appends an entry to the conversation audit trail
func (r *gormNutritionRepository) LogConversation(entry *ConversationLog) error {
	if !entry.Direction.IsValid() {
		return NewValidationError("direction", entry.Direction, "unknown message direction")
	}

	if entry.ID == "" {
		entry.ID = common.NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := r.db.Create(entry).Error; err != nil {
		return WrapRepositoryError(err, "log conversation")
	}
	return nil
}

// RecentConversations returns the user's latest conversation entries, newest first
func (r *gormNutritionRepository) RecentConversations(phone common.UserID, limit int) ([]*ConversationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*ConversationLog
	err := r.db.
		Where("user_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, WrapRepositoryError(err, "recent conversations")
	}
	return entries, nil
}

// LastInboundAt returns when the user last wrote, or nil if they never did
func (r *gormNutritionRepository) LastInboundAt(phone common.UserID) (*time.Time, error) {
	var entry ConversationLog
	err := r.db.
		Where("user_phone = ? AND direction = ?", phone, common.DirectionInbound).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapRepositoryError(err, "last inbound")
	}
	return &entry.CreatedAt, nil
}

// Messaging window warnings

// WasWarnedSince reports whether the user was warned after the cutoff
func (r *gormNutritionRepository) WasWarnedSince(phone common.UserID, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&WindowWarning{}).
		Where("user_phone = ? AND last_warned_at >= ?", phone, since).
		Count(&count).Error
	if err != nil {
		return false, WrapRepositoryError(err, "was warned since")
	}
	return count > 0, nil
}

// MarkWarned upserts the warning timestamp for the user
func (r *gormNutritionRepository) MarkWarned(phone common.UserID, at time.Time) error {
	warning := WindowWarning{UserPhone: phone, LastWarnedAt: at}
	if err := r.db.Save(&warning).Error; err != nil {
		return WrapRepositoryError(err, "mark warned")
	}

	r.logger.Info("Window warning recorded", zap.String("phone", string(phone)))
	return nil
}

// ClearWarning removes the warning marker, called when the user writes again
func (r *gormNutritionRepository) ClearWarning(phone common.UserID) error {
	if err := r.db.Delete(&WindowWarning{}, "user_phone = ?", phone).Error; err != nil {
		return WrapRepositoryError(err, "clear warning")
	}
	return nil
}

// Transaction support

// WithTransaction executes a function within a database transaction
func (r *gormNutritionRepository) WithTransaction(fn func(NutritionRepository) error) error {
	r.logger.Debug("Starting transaction")

	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &gormNutritionRepository{
			db:     tx,
			logger: r.logger,
		}

		err := fn(txRepo)
		if err != nil {
			r.logger.Debug("Transaction failed, rolling back", zap.Error(err))
			return err
		}
		return nil
	})
}
