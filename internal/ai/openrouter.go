package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kaloribot-api/internal/config"
	"kaloribot-api/internal/nutrition"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// OpenRouterProvider implements the Provider interface against the
// OpenRouter chat completions API.
type OpenRouterProvider struct {
	config     config.AIConfig
	logger     *zap.Logger
	httpClient *http.Client
}

// chatRequest represents the chat completions request structure
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage represents a single message in the conversation
type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

// contentPart is one piece of a multimodal message
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse represents the chat completions response
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type apiError struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message"`
}

const mealPromptFormat = `You are a nutrition assistant for Turkish users.
%s

IMPORTANT: Respond with valid JSON only, no other text. The JSON must have this exact structure:
{"description": "<short dish name in Turkish>", "calories": <estimated total calories as integer>, "confidence": <0.0 to 1.0>}`

// NewOpenRouterProvider creates a new OpenRouterProvider instance
func NewOpenRouterProvider(config config.AIConfig, logger *zap.Logger) *OpenRouterProvider {
	return &OpenRouterProvider{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// AnalyzeMealImage estimates the calories of a meal from a photo URL
func (p *OpenRouterProvider) AnalyzeMealImage(ctx context.Context, imgURL string) (*MealAnalysis, error) {
	p.logger.Info("Analyzing meal image", zap.String("model", p.visionModel()))

	prompt := fmt.Sprintf(mealPromptFormat, "Estimate the calories of the meal in the photo.")
	message := chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: imgURL}},
		},
	}

	return p.analyze(ctx, p.visionModel(), message)
}

// AnalyzeMealText estimates the calories of a meal from its description
func (p *OpenRouterProvider) AnalyzeMealText(ctx context.Context, description string) (*MealAnalysis, error) {
	p.logger.Info("Analyzing meal description", zap.String("model", p.config.Model))

	task := fmt.Sprintf("Estimate the calories of this meal described by the user: %q.", description)
	message := chatMessage{
		Role:    "user",
		Content: []contentPart{{Type: "text", Text: fmt.Sprintf(mealPromptFormat, task)}},
	}

	return p.analyze(ctx, p.config.Model, message)
}

// GetAdvice generates personal nutrition advice from the day's totals
func (p *OpenRouterProvider) GetAdvice(ctx context.Context, user nutrition.User, stats nutrition.DailyStats) (string, error) {
	p.logger.Info("Requesting nutrition advice", zap.String("model", p.config.Model))

	prompt := fmt.Sprintf(`You are a friendly nutrition coach. Answer in Turkish, in at most 4 short sentences.
Today the user consumed %d kcal of a %d kcal goal and drank %d ml of a %d ml water goal across %d meals.
Give one concrete, encouraging piece of advice for the rest of the day.`,
		stats.TotalCalories, user.CalorieGoal, stats.TotalWaterML, user.WaterGoalML, stats.MealCount)

	message := chatMessage{
		Role:    "user",
		Content: []contentPart{{Type: "text", Text: prompt}},
	}

	content, err := p.complete(ctx, p.config.Model, message, 0.7)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (p *OpenRouterProvider) visionModel() string {
	if p.config.VisionModel != "" {
		return p.config.VisionModel
	}
	return p.config.Model
}

// analyze runs a completion and decodes the structured meal JSON from it.
func (p *OpenRouterProvider) analyze(ctx context.Context, model string, message chatMessage) (*MealAnalysis, error) {
	content, err := p.complete(ctx, model, message, 0.1)
	if err != nil {
		return nil, err
	}
	return parseMealAnalysis(content)
}

// complete calls the API with retries and returns the first choice's text.
func (p *OpenRouterProvider) complete(ctx context.Context, model string, message chatMessage, temperature float64) (string, error) {
	if p.config.APIKey == "" {
		return "", ConfigurationError{Field: "api_key", ErrorMsg: "AI API key is required"}
	}

	request := chatRequest{
		Model:       model,
		Messages:    []chatMessage{message},
		Temperature: temperature,
		MaxTokens:   1024,
	}

	var content string
	operation := func() error {
		var err error
		content, err = p.callAPI(ctx, request)
		if err != nil {
			if IsRetryable(err) {
				p.logger.Warn("Retryable inference error, will retry", zap.Error(err))
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 1 * time.Second
	strategy.MaxInterval = 30 * time.Second
	strategy.MaxElapsedTime = 2 * time.Minute

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(strategy, uint64(p.config.MaxRetries)), ctx))
	if err != nil {
		p.logger.Error("Inference failed after retries", zap.Error(err))
		return "", err
	}

	return content, nil
}

func (p *OpenRouterProvider) callAPI(ctx context.Context, request chatRequest) (string, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", AnalysisError{Details: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIEndpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", NetworkError{Operation: "create_request", Wrapped: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", NetworkError{Operation: "http_request", Wrapped: err}
	}
	defer httpResp.Body.Close()

	responseBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", NetworkError{Operation: "read_response", Wrapped: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", httpStatusError(httpResp.StatusCode, responseBody)
	}

	var response chatResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", AnalysisError{Details: fmt.Sprintf("failed to parse API response: %v", err)}
	}
	if response.Error != nil {
		return "", APIError{
			HTTPStatus: httpResp.StatusCode,
			ErrorCode:  fmt.Sprintf("%v", response.Error.Code),
			ErrorMsg:   response.Error.Message,
		}
	}
	if len(response.Choices) == 0 {
		return "", AnalysisError{Details: "API returned no choices", Retryable: true}
	}

	return response.Choices[0].Message.Content, nil
}

// httpStatusError maps a non-200 response to a typed error
func httpStatusError(statusCode int, responseBody []byte) error {
	message := "unknown error"

	var response chatResponse
	if err := json.Unmarshal(responseBody, &response); err == nil && response.Error != nil {
		message = response.Error.Message
	}

	return APIError{
		HTTPStatus: statusCode,
		ErrorCode:  http.StatusText(statusCode),
		ErrorMsg:   message,
		Retryable:  retryableStatus(statusCode),
	}
}

// parseMealAnalysis decodes the model's JSON answer, tolerating chatter
// around the JSON object.
func parseMealAnalysis(content string) (*MealAnalysis, error) {
	jsonStr := extractJSON(content)

	var analysis MealAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, AnalysisError{Details: fmt.Sprintf("model did not return valid JSON: %v", err)}
	}

	if analysis.Calories <= 0 {
		return nil, AnalysisError{Details: "model returned no calorie estimate"}
	}
	if analysis.Description == "" {
		analysis.Description = "Bilinmeyen yemek"
	}

	return &analysis, nil
}

// extractJSON extracts the first balanced JSON object from model output.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}

	braceCount := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return text[start : i+1]
			}
		}
	}

	return text[start:]
}
