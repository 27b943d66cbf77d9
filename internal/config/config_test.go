package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtempdir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalWd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalWd) })
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	chtempdir(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "kaloribot", cfg.Database.DBName)
	assert.Equal(t, "/webhook", cfg.Messenger.WebhookURL)
	assert.Contains(t, cfg.AI.APIEndpoint, "openrouter.ai")
	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestLoad_NutritionDefaults(t *testing.T) {
	chtempdir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Istanbul", cfg.Nutrition.DefaultTimezone)
	assert.Equal(t, 2000, cfg.Nutrition.DefaultCalorieGoal)
	assert.Equal(t, 2000, cfg.Nutrition.DefaultWaterGoalML)
	assert.Equal(t, "23:00", cfg.Nutrition.DefaultSilentStart)
	assert.Equal(t, "07:00", cfg.Nutrition.DefaultSilentEnd)
	assert.Equal(t, 20, cfg.Nutrition.DailyImageLimit)
	assert.Equal(t, 120, cfg.Nutrition.WaterIntervalMinutes)
}

func TestLoad_SchedulerDefaults(t *testing.T) {
	chtempdir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.Scheduler.SummaryHour)
	assert.Equal(t, 20, cfg.Scheduler.WarnAfterHours)
	assert.Equal(t, 24, cfg.Scheduler.WarnDeadlineHours)
	assert.Equal(t, 4, cfg.Scheduler.RewarnSuppressionHours)
	assert.Equal(t, 30, cfg.Scheduler.ShutdownTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	tempDir := chtempdir(t)

	configContent := `
server:
  port: 9999
  environment: "test"

database:
  host: "test-db"
  port: 5433
  dbname: "kaloribot_test"

messenger:
  token: "test-token"
  webhook_url: "/test-webhook"

ai:
  api_endpoint: "https://test-api.example.com"
  api_key: "test-key"
  model: "test-model"
  timeout: 90
  max_retries: 5

nutrition:
  default_timezone: "Europe/Berlin"
  daily_image_limit: 5

scheduler:
  summary_hour: 21
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Environment)
	assert.Equal(t, "test-db", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "kaloribot_test", cfg.Database.DBName)
	assert.Equal(t, "test-token", cfg.Messenger.Token)
	assert.Equal(t, "https://test-api.example.com", cfg.AI.APIEndpoint)
	assert.Equal(t, 90, cfg.AI.Timeout)
	assert.Equal(t, 5, cfg.AI.MaxRetries)
	assert.Equal(t, "Europe/Berlin", cfg.Nutrition.DefaultTimezone)
	assert.Equal(t, 5, cfg.Nutrition.DailyImageLimit)
	assert.Equal(t, 21, cfg.Scheduler.SummaryHour)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	tempDir := chtempdir(t)

	configContent := `
server:
  port: 8081
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "Europe/Istanbul", cfg.Nutrition.DefaultTimezone)
	assert.Equal(t, 22, cfg.Scheduler.SummaryHour)
}

func TestLoad_MalformedYAML(t *testing.T) {
	tempDir := chtempdir(t)

	malformed := `
server:
  port: 8080
invalid_yaml: [
  - missing_closing_bracket
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(malformed), 0644))

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chtempdir(t)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_HOST", "env-db-host")
	t.Setenv("MESSENGER_TOKEN", "env-token")
	t.Setenv("AI_API_KEY", "env-api-key")
	t.Setenv("ADMIN_TOKEN", "env-admin-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-db-host", cfg.Database.Host)
	assert.Equal(t, "env-token", cfg.Messenger.Token)
	assert.Equal(t, "env-api-key", cfg.AI.APIKey)
	assert.Equal(t, "env-admin-token", cfg.Admin.Token)
}
