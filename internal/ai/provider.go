package ai

import (
	"context"

	"kaloribot-api/internal/nutrition"
)

// MealAnalysis is the structured result of analyzing a meal photo or
// description.
type MealAnalysis struct {
	Description string  `json:"description"` // Short Turkish name of the dish
	Calories    int     `json:"calories"`    // Estimated total calories
	Confidence  float64 `json:"confidence"`  // Model's own estimate quality, 0 to 1
}

// Provider defines the interface for AI inference implementations
type Provider interface {
	// AnalyzeMealImage estimates the calories of a meal from a photo URL
	AnalyzeMealImage(ctx context.Context, imageURL string) (*MealAnalysis, error)

	// AnalyzeMealText estimates the calories of a meal from its description
	AnalyzeMealText(ctx context.Context, description string) (*MealAnalysis, error)

	// GetAdvice generates personal nutrition advice from the day's totals
	GetAdvice(ctx context.Context, user nutrition.User, stats nutrition.DailyStats) (string, error)
}
