package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kaloribot-api/internal/config"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"
	"kaloribot-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Mock chatbot service for route testing
type mockChatbotService struct {
	handled int
}

func (m *mockChatbotService) HandleWebhook(webhookData []byte) error {
	m.handled++
	return nil
}

func (m *mockChatbotService) HandleInbound(inbound *messenger.InboundMessage) error {
	return nil
}

func createTestRouter(adminToken string) (*gin.Engine, *mockChatbotService) {
	gin.SetMode(gin.TestMode)

	mockChatbot := &mockChatbotService{}
	router := gin.New()
	SetupRoutes(router, Dependencies{
		DB:         nil,
		Logger:     logger.New(),
		Chatbot:    mockChatbot,
		Repository: nutrition.NewMockNutritionRepository(),
		Scheduler:  nil,
		Admin:      config.AdminConfig{Token: adminToken},
	})
	return router, mockChatbot
}

func TestSetupRoutes_HealthEndpoint(t *testing.T) {
	router, _ := createTestRouter("")

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		// nil DB fails the check but the endpoint is wired
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	}
}

func TestSetupRoutes_WebhookEndpoint(t *testing.T) {
	router, mockChatbot := createTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook",
		strings.NewReader(`{"update_id":1}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mockChatbot.handled)
}

func TestSetupRoutes_AdminAuth(t *testing.T) {
	tests := []struct {
		name            string
		configuredToken string
		request         func(*http.Request)
		expectedStatus  int
	}{
		{
			name:            "no token configured disables admin",
			configuredToken: "",
			request:         func(r *http.Request) {},
			expectedStatus:  http.StatusForbidden,
		},
		{
			name:            "missing token rejected",
			configuredToken: "sekret",
			request:         func(r *http.Request) {},
			expectedStatus:  http.StatusUnauthorized,
		},
		{
			name:            "wrong token rejected",
			configuredToken: "sekret",
			request:         func(r *http.Request) { r.Header.Set("X-Admin-Token", "guess") },
			expectedStatus:  http.StatusUnauthorized,
		},
		{
			name:            "header token accepted",
			configuredToken: "sekret",
			request:         func(r *http.Request) { r.Header.Set("X-Admin-Token", "sekret") },
			expectedStatus:  http.StatusOK,
		},
		{
			name:            "query token accepted",
			configuredToken: "sekret",
			request:         func(r *http.Request) { r.URL.RawQuery = "token=sekret" },
			expectedStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := createTestRouter(tt.configuredToken)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
			tt.request(req)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
