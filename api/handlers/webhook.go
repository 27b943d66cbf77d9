package handlers

import (
	"io"
	"net/http"

	"kaloribot-api/internal/chatbot"
	"kaloribot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler handles Telegram webhook requests
type WebhookHandler struct {
	chatbotService chatbot.Service
	logger         *logger.Logger
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(chatbotService chatbot.Service, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		chatbotService: chatbotService,
		logger:         logger,
	}
}

// HandleTelegramWebhook processes incoming Telegram webhook updates. Telegram
// retries any non-200 response, so this endpoint acknowledges every payload
// and logs failures instead of surfacing them.
func (h *WebhookHandler) HandleTelegramWebhook(c *gin.Context) {
	correlationID := uuid.New().String()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Errorw("Failed to read webhook body",
			"correlation_id", correlationID,
			"error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if len(body) == 0 {
		h.logger.Warnw("Received empty webhook body",
			"correlation_id", correlationID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if contentType := c.GetHeader("Content-Type"); contentType != "application/json" {
		h.logger.Warnw("Unexpected webhook content type",
			"correlation_id", correlationID,
			"content_type", contentType)
	}

	if err := h.chatbotService.HandleWebhook(body); err != nil {
		h.logger.Errorw("Failed to process webhook",
			"correlation_id", correlationID,
			"error", err,
			"body_size", len(body))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.logger.Debugw("Webhook processed",
		"correlation_id", correlationID,
		"body_size", len(body))

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
