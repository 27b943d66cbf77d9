package main

import (
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically

	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kaloribot-api/api/routes"
	"kaloribot-api/internal/ai"
	"kaloribot-api/internal/chatbot"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/database"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"
	"kaloribot-api/internal/scheduler"
	"kaloribot-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger
	logger := logger.New()
	defer logger.Sync()

	// Get the underlying zap logger for services
	zapLogger := logger.SugaredLogger.Desugar()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}

	if err := nutrition.RunMigrations(db); err != nil {
		logger.Fatalw("Failed to run migrations", "error", err)
	}

	// Initialize event bus
	eventBus := events.NewEventBus(zapLogger)

	// Initialize services
	repository := nutrition.NewGormNutritionRepository(db, zapLogger)

	provider, err := messenger.NewTelegramProvider(cfg.Messenger, zapLogger)
	if err != nil {
		logger.Fatalw("Failed to initialize Telegram provider", "error", err)
	}
	if cfg.Messenger.WebhookURL != "" {
		if err := provider.SetWebhook(cfg.Messenger.WebhookURL); err != nil {
			logger.Errorw("Failed to register Telegram webhook", "error", err)
		}
	}

	aiProvider := ai.NewOpenRouterProvider(cfg.AI, zapLogger)

	chatbotService := chatbot.NewService(repository, provider, aiProvider, eventBus, zapLogger, cfg.Nutrition)

	// Initialize scheduler
	var reminderScheduler scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		reminderScheduler, err = scheduler.NewScheduler(cfg.Scheduler, repository, provider, eventBus, zapLogger)
		if err != nil {
			logger.Fatalw("Failed to create scheduler", "error", err)
		}

		if err := reminderScheduler.Start(context.Background()); err != nil {
			logger.Fatalw("Failed to start scheduler", "error", err)
		}

		logger.Infow("Reminder scheduler started",
			"summary_hour", cfg.Scheduler.SummaryHour,
			"warn_after_hours", cfg.Scheduler.WarnAfterHours)
	} else {
		logger.Infow("Reminder scheduler disabled")
	}

	// Setup Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, routes.Dependencies{
		DB:         db,
		Logger:     logger,
		Chatbot:    chatbotService,
		Repository: repository,
		Scheduler:  reminderScheduler,
		Admin:      cfg.Admin,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infow("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("Shutting down server...")

	// Stop scheduler first so no reminder goes out mid-shutdown
	if reminderScheduler != nil {
		if err := reminderScheduler.Stop(); err != nil {
			logger.Errorw("Failed to stop scheduler gracefully", "error", err)
		}
	}

	if err := eventBus.Close(); err != nil {
		logger.Errorw("Failed to close event bus", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}
