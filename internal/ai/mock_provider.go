package ai

import (
	"context"
	"sync"

	"kaloribot-api/internal/nutrition"
)

// MockProvider provides a canned-response implementation for testing
type MockProvider struct {
	mu sync.Mutex

	Analysis *MealAnalysis
	Advice   string
	FailWith error

	imageCalls  []string
	textCalls   []string
	adviceCalls int
}

// NewMockProvider creates a new mock AI provider with a default analysis
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Analysis: &MealAnalysis{Description: "Mercimek çorbası", Calories: 180, Confidence: 0.9},
		Advice:   "Harika gidiyorsun, akşam yemeğinde sebze ağırlıklı beslenmeyi dene.",
	}
}

func (m *MockProvider) AnalyzeMealImage(ctx context.Context, imageURL string) (*MealAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls = append(m.imageCalls, imageURL)
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	copied := *m.Analysis
	return &copied, nil
}

func (m *MockProvider) AnalyzeMealText(ctx context.Context, description string) (*MealAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls = append(m.textCalls, description)
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	copied := *m.Analysis
	return &copied, nil
}

func (m *MockProvider) GetAdvice(ctx context.Context, user nutrition.User, stats nutrition.DailyStats) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adviceCalls++
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return m.Advice, nil
}

// ImageCalls returns the image URLs analyzed so far
func (m *MockProvider) ImageCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]string, len(m.imageCalls))
	copy(copied, m.imageCalls)
	return copied
}

// TextCalls returns the meal descriptions analyzed so far
func (m *MockProvider) TextCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]string, len(m.textCalls))
	copy(copied, m.textCalls)
	return copied
}

// AdviceCalls returns how many times advice was requested
func (m *MockProvider) AdviceCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adviceCalls
}
