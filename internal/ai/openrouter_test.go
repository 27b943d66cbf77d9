package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kaloribot-api/internal/config"
	"kaloribot-api/internal/nutrition"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"calories": 250}`, `{"calories": 250}`},
		{"chatter around object", "Sure! Here it is:\n{\"calories\": 250}\nHope that helps.", `{"calories": 250}`},
		{"nested braces", `{"a": {"b": 1}} trailing`, `{"a": {"b": 1}}`},
		{"no object", "no json here", "no json here"},
		{"unterminated object", `{"calories": 250`, `{"calories": 250`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.input))
		})
	}
}

func TestParseMealAnalysis(t *testing.T) {
	t.Run("valid analysis", func(t *testing.T) {
		analysis, err := parseMealAnalysis(`{"description": "Menemen", "calories": 320, "confidence": 0.85}`)
		require.NoError(t, err)
		assert.Equal(t, "Menemen", analysis.Description)
		assert.Equal(t, 320, analysis.Calories)
	})

	t.Run("missing description gets placeholder", func(t *testing.T) {
		analysis, err := parseMealAnalysis(`{"calories": 200}`)
		require.NoError(t, err)
		assert.Equal(t, "Bilinmeyen yemek", analysis.Description)
	})

	t.Run("zero calories rejected", func(t *testing.T) {
		_, err := parseMealAnalysis(`{"description": "Su", "calories": 0}`)
		require.Error(t, err)
		assert.False(t, IsRetryable(err))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := parseMealAnalysis("I could not identify the meal.")
		assert.Error(t, err)
	})
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, retryableStatus(http.StatusTooManyRequests))
	assert.True(t, retryableStatus(http.StatusInternalServerError))
	assert.True(t, retryableStatus(http.StatusBadGateway))
	assert.False(t, retryableStatus(http.StatusBadRequest))
	assert.False(t, retryableStatus(http.StatusUnauthorized))
}

func testProvider(t *testing.T, endpoint string) *OpenRouterProvider {
	return NewOpenRouterProvider(config.AIConfig{
		APIEndpoint: endpoint,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     5,
		MaxRetries:  0,
	}, zaptest.NewLogger(t))
}

func TestAnalyzeMealText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"description\": \"Izgara tavuk\", \"calories\": 450, \"confidence\": 0.8}"}}]}`))
	}))
	defer server.Close()

	analysis, err := testProvider(t, server.URL).AnalyzeMealText(context.Background(), "ızgara tavuk ve pilav")
	require.NoError(t, err)
	assert.Equal(t, "Izgara tavuk", analysis.Description)
	assert.Equal(t, 450, analysis.Calories)
}

func TestAnalyzeMealText_APIErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"invalid key"}}`))
	}))
	defer server.Close()

	_, err := testProvider(t, server.URL).AnalyzeMealText(context.Background(), "pilav")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	provider := NewOpenRouterProvider(config.AIConfig{Model: "m"}, zaptest.NewLogger(t))

	_, err := provider.AnalyzeMealText(context.Background(), "pilav")
	require.Error(t, err)

	var confErr ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestGetAdvice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Su içmeyi unutma!  "}}]}`))
	}))
	defer server.Close()

	advice, err := testProvider(t, server.URL).GetAdvice(context.Background(),
		nutrition.User{CalorieGoal: 2000, WaterGoalML: 2000},
		nutrition.DailyStats{TotalCalories: 1200, TotalWaterML: 800, MealCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "Su içmeyi unutma!", advice)
}
