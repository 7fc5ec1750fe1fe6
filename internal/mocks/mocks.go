// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/healthbite/backend/internal/ai"
)

// MockAnalyzer is a mock implementation of service.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Parse(ctx context.Context, text string) (*ai.ParsedRecipe, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.ParsedRecipe), args.Error(1)
}

func (m *MockAnalyzer) Calculate(ctx context.Context, ingredients []ai.Ingredient, servings int) (*ai.NutritionResult, error) {
	args := m.Called(ctx, ingredients, servings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.NutritionResult), args.Error(1)
}

func (m *MockAnalyzer) Analyze(ctx context.Context, in ai.HealthInput) (*ai.HealthReport, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.HealthReport), args.Error(1)
}
