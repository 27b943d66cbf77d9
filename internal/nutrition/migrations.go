package nutrition

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations performs auto-migration for all nutrition tables
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&MealLog{},
		&WaterLog{},
		&FavoriteMeal{},
		&ConversationLog{},
		&WindowWarning{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate nutrition tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates performance indexes beyond what the model tags declare
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_meal_logs_user_created ON meal_logs(user_phone, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_meal_logs_user_category ON meal_logs(user_phone, category)",
		"CREATE INDEX IF NOT EXISTS idx_water_logs_user_created ON water_logs(user_phone, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_conversation_logs_user_dir ON conversation_logs(user_phone, direction, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_users_active ON users(is_active)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// DropTables drops all nutrition tables (for testing cleanup)
func DropTables(db *gorm.DB) error {
	tables := []string{
		"window_warnings",
		"conversation_logs",
		"favorite_meals",
		"water_logs",
		"meal_logs",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
