package nutrition

import (
	"strings"
	"sync"
	"time"

	"kaloribot-api/internal/common"
)

// MockNutritionRepository provides an in-memory implementation for testing
type MockNutritionRepository struct {
	mu            sync.Mutex
	users         map[common.UserID]*User
	meals         []*MealLog
	water         []*WaterLog
	favorites     map[common.UserID]map[string]*FavoriteMeal
	conversations []*ConversationLog
	warnings      map[common.UserID]time.Time

	FailWith error
}

// NewMockNutritionRepository creates a new mock repository
func NewMockNutritionRepository() *MockNutritionRepository {
	return &MockNutritionRepository{
		users:     make(map[common.UserID]*User),
		favorites: make(map[common.UserID]map[string]*FavoriteMeal),
		warnings:  make(map[common.UserID]time.Time),
	}
}

func (m *MockNutritionRepository) GetUser(phone common.UserID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if user, exists := m.users[phone]; exists {
		copied := *user
		return &copied, nil
	}
	return nil, common.NotFoundError{Resource: "User", ID: string(phone)}
}

func (m *MockNutritionRepository) CreateUser(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	m.users[user.Phone] = &copied
	return nil
}

func (m *MockNutritionRepository) SaveUser(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if err := validateUserRanges(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	copied := *user
	m.users[user.Phone] = &copied
	return nil
}

func (m *MockNutritionRepository) ListActiveUsers() ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var users []*User
	for _, user := range m.users {
		if user.IsActive {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *MockNutritionRepository) ListAllUsers() ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var users []*User
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (m *MockNutritionRepository) ToggleUserActive(phone common.UserID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[phone]
	if !exists {
		return false, common.NotFoundError{Resource: "User", ID: string(phone)}
	}
	user.IsActive = !user.IsActive
	return user.IsActive, nil
}

func (m *MockNutritionRepository) ResetUser(phone common.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[phone]
	if !exists {
		return common.NotFoundError{Resource: "User", ID: string(phone)}
	}
	m.meals = filterMeals(m.meals, phone)
	m.water = filterWater(m.water, phone)
	m.conversations = filterConversations(m.conversations, phone)
	delete(m.warnings, phone)
	delete(m.favorites, phone)
	user.OnboardingCompleted = false
	user.OnboardingStep = StepNone
	user.BreakfastTime = ""
	user.LunchTime = ""
	user.DinnerTime = ""
	user.CalorieGoal = 2000
	user.WaterGoalML = 2000
	user.IsActive = true
	return nil
}

func filterMeals(meals []*MealLog, phone common.UserID) []*MealLog {
	var kept []*MealLog
	for _, meal := range meals {
		if meal.UserPhone != phone {
			kept = append(kept, meal)
		}
	}
	return kept
}

func filterWater(logs []*WaterLog, phone common.UserID) []*WaterLog {
	var kept []*WaterLog
	for _, log := range logs {
		if log.UserPhone != phone {
			kept = append(kept, log)
		}
	}
	return kept
}

func filterConversations(entries []*ConversationLog, phone common.UserID) []*ConversationLog {
	var kept []*ConversationLog
	for _, entry := range entries {
		if entry.UserPhone != phone {
			kept = append(kept, entry)
		}
	}
	return kept
}

func (m *MockNutritionRepository) AddMealLog(meal *MealLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if meal.ID == "" {
		meal.ID = common.NewID()
	}
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now()
	}
	copied := *meal
	m.meals = append(m.meals, &copied)
	return nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (m *MockNutritionRepository) MealsForRange(phone common.UserID, start, end time.Time) ([]*MealLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var meals []*MealLog
	for _, meal := range m.meals {
		if meal.UserPhone == phone && inRange(meal.CreatedAt, start, end) {
			copied := *meal
			meals = append(meals, &copied)
		}
	}
	return meals, nil
}

func (m *MockNutritionRepository) LoggedCategories(phone common.UserID, start, end time.Time) (map[MealCategory]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	logged := make(map[MealCategory]bool)
	for _, meal := range m.meals {
		if meal.UserPhone == phone && inRange(meal.CreatedAt, start, end) {
			logged[meal.Category] = true
		}
	}
	return logged, nil
}

func (m *MockNutritionRepository) RecentMeals(phone common.UserID, limit int) ([]*MealLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if limit <= 0 {
		limit = 5
	}
	var meals []*MealLog
	for i := len(m.meals) - 1; i >= 0 && len(meals) < limit; i-- {
		if m.meals[i].UserPhone == phone {
			copied := *m.meals[i]
			meals = append(meals, &copied)
		}
	}
	return meals, nil
}

func (m *MockNutritionRepository) DailyImageCount(phone common.UserID, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, meal := range m.meals {
		if meal.UserPhone == phone && meal.ImagePath != "" && inRange(meal.CreatedAt, start, end) {
			count++
		}
	}
	return count, nil
}

func (m *MockNutritionRepository) AddWaterLog(water *WaterLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if water.ID == "" {
		water.ID = common.NewID()
	}
	if water.CreatedAt.IsZero() {
		water.CreatedAt = time.Now()
	}
	copied := *water
	m.water = append(m.water, &copied)
	return nil
}

func (m *MockNutritionRepository) StatsForRange(phone common.UserID, start, end time.Time) (*DailyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	stats := &DailyStats{Date: start.Format("2006-01-02")}
	for _, meal := range m.meals {
		if meal.UserPhone == phone && inRange(meal.CreatedAt, start, end) {
			stats.TotalCalories += meal.Calories
			stats.MealCount++
		}
	}
	for _, water := range m.water {
		if water.UserPhone == phone && inRange(water.CreatedAt, start, end) {
			stats.TotalWaterML += water.AmountML
			stats.WaterCount++
		}
	}
	return stats, nil
}

func (m *MockNutritionRepository) SaveFavorite(favorite *FavoriteMeal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.favorites[favorite.UserPhone] == nil {
		m.favorites[favorite.UserPhone] = make(map[string]*FavoriteMeal)
	}
	if favorite.ID == "" {
		favorite.ID = common.NewID()
	}
	copied := *favorite
	m.favorites[favorite.UserPhone][strings.ToLower(favorite.Name)] = &copied
	return nil
}

func (m *MockNutritionRepository) GetFavorite(phone common.UserID, name string) (*FavoriteMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if favorite, exists := m.favorites[phone][strings.ToLower(name)]; exists {
		copied := *favorite
		return &copied, nil
	}
	return nil, ErrFavoriteNotFound
}

func (m *MockNutritionRepository) ListFavorites(phone common.UserID) ([]*FavoriteMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var favorites []*FavoriteMeal
	for _, favorite := range m.favorites[phone] {
		copied := *favorite
		favorites = append(favorites, &copied)
	}
	return favorites, nil
}

func (m *MockNutritionRepository) DeleteFavorite(phone common.UserID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(name)
	if _, exists := m.favorites[phone][key]; !exists {
		return ErrFavoriteNotFound
	}
	delete(m.favorites[phone], key)
	return nil
}

func (m *MockNutritionRepository) LogConversation(entry *ConversationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if entry.ID == "" {
		entry.ID = common.NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	copied := *entry
	m.conversations = append(m.conversations, &copied)
	return nil
}

func (m *MockNutritionRepository) RecentConversations(phone common.UserID, limit int) ([]*ConversationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var entries []*ConversationLog
	for i := len(m.conversations) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.conversations[i].UserPhone == phone {
			copied := *m.conversations[i]
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (m *MockNutritionRepository) LastInboundAt(phone common.UserID) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var last *time.Time
	for _, entry := range m.conversations {
		if entry.UserPhone == phone && entry.Direction == common.DirectionInbound {
			t := entry.CreatedAt
			if last == nil || t.After(*last) {
				last = &t
			}
		}
	}
	return last, nil
}

func (m *MockNutritionRepository) WasWarnedSince(phone common.UserID, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	warnedAt, exists := m.warnings[phone]
	if !exists {
		return false, nil
	}
	return !warnedAt.Before(since), nil
}

func (m *MockNutritionRepository) MarkWarned(phone common.UserID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings[phone] = at
	return nil
}

func (m *MockNutritionRepository) ClearWarning(phone common.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.warnings, phone)
	return nil
}

func (m *MockNutritionRepository) WithTransaction(fn func(NutritionRepository) error) error {
	return fn(m)
}

// Test helpers

// MealCount returns how many meals are stored for a user
func (m *MockNutritionRepository) MealCount(phone common.UserID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, meal := range m.meals {
		if meal.UserPhone == phone {
			count++
		}
	}
	return count
}

// WaterTotal returns the summed water amount stored for a user
func (m *MockNutritionRepository) WaterTotal(phone common.UserID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, water := range m.water {
		if water.UserPhone == phone {
			total += water.AmountML
		}
	}
	return total
}

// ConversationCount returns how many conversation entries are stored for a user
func (m *MockNutritionRepository) ConversationCount(phone common.UserID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, entry := range m.conversations {
		if entry.UserPhone == phone {
			count++
		}
	}
	return count
}
