package handlers

import (
	"net/http"
	"strconv"
	"time"

	"kaloribot-api/internal/common"
	"kaloribot-api/internal/nutrition"
	"kaloribot-api/internal/scheduler"
	"kaloribot-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operational endpoints behind token auth: user
// inspection, activity toggles and scheduler metrics.
type AdminHandler struct {
	repository nutrition.NutritionRepository
	sched      scheduler.Scheduler
	logger     *logger.Logger
}

// NewAdminHandler creates a new AdminHandler instance. The scheduler may be
// nil when reminders are disabled.
func NewAdminHandler(repository nutrition.NutritionRepository, sched scheduler.Scheduler, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		repository: repository,
		sched:      sched,
		logger:     logger,
	}
}

// Dashboard summarizes the user base.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	users, err := h.repository.ListAllUsers()
	if err != nil {
		h.logger.Errorw("Failed to list users for dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	var active, onboarded int
	for _, user := range users {
		if user.IsActive {
			active++
		}
		if user.OnboardingCompleted {
			onboarded++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":     len(users),
		"active_users":    active,
		"onboarded_users": onboarded,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// ListUsers returns every registered user.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.repository.ListAllUsers()
	if err != nil {
		h.logger.Errorw("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UserMeals returns the most recent meal logs for one user.
func (h *AdminHandler) UserMeals(c *gin.Context) {
	phone, ok := h.userParam(c)
	if !ok {
		return
	}

	meals, err := h.repository.RecentMeals(phone, queryLimit(c, 20))
	if err != nil {
		h.logger.WithUser(string(phone)).Errorw("Failed to load meals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load meals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals, "count": len(meals)})
}

// UserConversations returns the most recent conversation entries for one user.
func (h *AdminHandler) UserConversations(c *gin.Context) {
	phone, ok := h.userParam(c)
	if !ok {
		return
	}

	entries, err := h.repository.RecentConversations(phone, queryLimit(c, 50))
	if err != nil {
		h.logger.WithUser(string(phone)).Errorw("Failed to load conversations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": entries, "count": len(entries)})
}

// ToggleUserActive flips whether the bot talks to a user at all.
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	phone, ok := h.userParam(c)
	if !ok {
		return
	}

	active, err := h.repository.ToggleUserActive(phone)
	if err != nil {
		if nutrition.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.WithUser(string(phone)).Errorw("Failed to toggle user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle user"})
		return
	}

	h.logger.WithUser(string(phone)).Infow("User activity toggled", "is_active", active)
	c.JSON(http.StatusOK, gin.H{"phone": phone, "is_active": active})
}

// ResetUser wipes a user's meal, water and conversation logs and favorites
// and puts the profile back to the not-onboarded initial state. The identity
// row itself survives.
func (h *AdminHandler) ResetUser(c *gin.Context) {
	phone, ok := h.userParam(c)
	if !ok {
		return
	}

	if err := h.repository.ResetUser(phone); err != nil {
		if nutrition.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.WithUser(string(phone)).Errorw("Failed to reset user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset user"})
		return
	}

	h.logger.WithUser(string(phone)).Infow("User reset")
	c.JSON(http.StatusOK, gin.H{"phone": phone, "reset": true})
}

// SchedulerMetrics reports reminder delivery counters.
func (h *AdminHandler) SchedulerMetrics(c *gin.Context) {
	if h.sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler disabled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"running": h.sched.IsRunning(),
		"metrics": h.sched.GetMetrics(),
	})
}

func (h *AdminHandler) userParam(c *gin.Context) (common.UserID, bool) {
	phone := common.UserID(c.Param("phone"))
	if !phone.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone"})
		return "", false
	}
	return phone, true
}

func queryLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
