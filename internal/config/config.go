package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messenger MessengerConfig `mapstructure:"messenger"`
	AI        AIConfig        `mapstructure:"ai"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type MessengerConfig struct {
	Token      string `mapstructure:"token"`
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"`
}

type AIConfig struct {
	APIEndpoint string `mapstructure:"api_endpoint"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	VisionModel string `mapstructure:"vision_model"`
	Timeout     int    `mapstructure:"timeout"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

// NutritionConfig carries the defaults assigned to a user the first time they
// message the assistant, plus service-wide limits.
type NutritionConfig struct {
	DefaultTimezone      string `mapstructure:"default_timezone"`
	DefaultCalorieGoal   int    `mapstructure:"default_calorie_goal"`
	DefaultWaterGoalML   int    `mapstructure:"default_water_goal_ml"`
	DefaultSilentStart   string `mapstructure:"default_silent_start"`
	DefaultSilentEnd     string `mapstructure:"default_silent_end"`
	DailyImageLimit      int    `mapstructure:"daily_image_limit"`
	WaterIntervalMinutes int    `mapstructure:"water_interval_minutes"`
}

type SchedulerConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	SummaryHour            int  `mapstructure:"summary_hour"`
	WarnAfterHours         int  `mapstructure:"warn_after_hours"`
	WarnDeadlineHours      int  `mapstructure:"warn_deadline_hours"`
	RewarnSuppressionHours int  `mapstructure:"rewarn_suppression_hours"`
	ShutdownTimeout        int  `mapstructure:"shutdown_timeout"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "kaloribot")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	viper.SetDefault("messenger.token", "")
	viper.SetDefault("messenger.webhook_url", "/webhook")
	viper.SetDefault("messenger.timeout", 30)

	viper.SetDefault("ai.api_endpoint", "https://openrouter.ai/api/v1/chat/completions")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "google/gemini-2.0-flash-001")
	viper.SetDefault("ai.vision_model", "google/gemini-2.0-flash-001")
	viper.SetDefault("ai.timeout", 60)
	viper.SetDefault("ai.max_retries", 3)

	viper.SetDefault("nutrition.default_timezone", "Europe/Istanbul")
	viper.SetDefault("nutrition.default_calorie_goal", 2000)
	viper.SetDefault("nutrition.default_water_goal_ml", 2000)
	viper.SetDefault("nutrition.default_silent_start", "23:00")
	viper.SetDefault("nutrition.default_silent_end", "07:00")
	viper.SetDefault("nutrition.daily_image_limit", 20)
	viper.SetDefault("nutrition.water_interval_minutes", 120)

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.summary_hour", 22)
	viper.SetDefault("scheduler.warn_after_hours", 20)
	viper.SetDefault("scheduler.warn_deadline_hours", 24)
	viper.SetDefault("scheduler.rewarn_suppression_hours", 4)
	viper.SetDefault("scheduler.shutdown_timeout", 30)

	viper.SetDefault("admin.token", "")
}
