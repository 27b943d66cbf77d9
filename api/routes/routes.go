package routes

import (
	"kaloribot-api/api/handlers"
	"kaloribot-api/api/middleware"
	"kaloribot-api/internal/chatbot"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/nutrition"
	"kaloribot-api/internal/scheduler"
	"kaloribot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	DB         *gorm.DB
	Logger     *logger.Logger
	Chatbot    chatbot.Service
	Repository nutrition.NutritionRepository
	Scheduler  scheduler.Scheduler
	Admin      config.AdminConfig
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(middleware.RequestLogging(deps.Logger))
	router.Use(gin.Recovery())

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Logger)
	webhookHandler := handlers.NewWebhookHandler(deps.Chatbot, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Repository, deps.Scheduler, deps.Logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Check)

		v1.POST("/telegram/webhook", webhookHandler.HandleTelegramWebhook)

		admin := v1.Group("/admin", middleware.AdminAuth(deps.Admin.Token))
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:phone/meals", adminHandler.UserMeals)
			admin.GET("/users/:phone/conversations", adminHandler.UserConversations)
			admin.POST("/users/:phone/toggle-active", adminHandler.ToggleUserActive)
			admin.POST("/users/:phone/reset", adminHandler.ResetUser)
			admin.GET("/scheduler/metrics", adminHandler.SchedulerMetrics)
		}
	}

	// Root health check
	router.GET("/health", healthHandler.Check)
}
