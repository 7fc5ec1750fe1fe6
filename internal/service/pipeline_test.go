package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/mocks"
	"github.com/pageza/healthbite/backend/internal/service"
	"github.com/pageza/healthbite/backend/internal/testdb"
	"github.com/pageza/healthbite/backend/internal/types"
)

func TestRecipeService_SubmitServings(t *testing.T) {
	six := 6
	tests := []struct {
		name         string
		parsed       *int
		wantServings int
	}{
		{"defaults to four", nil, 4},
		{"uses parsed servings", &six, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredients := []ai.Ingredient{{Name: "Oats"}}
			calories := 150.0
			nutrition := &ai.NutritionResult{
				PerServing: ai.Nutrients{Calories: &calories},
				Servings:   tt.wantServings,
			}

			analyzer := &mocks.MockAnalyzer{}
			analyzer.On("Parse", mock.Anything, "oats and milk, simmered").Return(&ai.ParsedRecipe{
				Title:        "Porridge",
				Ingredients:  ingredients,
				Instructions: []string{"Simmer"},
				Servings:     tt.parsed,
				DietaryTags:  []string{},
			}, nil)
			analyzer.On("Calculate", mock.Anything, ingredients, tt.wantServings).Return(nutrition, nil)
			analyzer.On("Analyze", mock.Anything, ai.HealthInput{
				Ingredients:  ingredients,
				Instructions: []string{"Simmer"},
				PerServing:   nutrition.PerServing,
			}).Return(&ai.HealthReport{Score: 6.04, Summary: "Plain", Breakdown: "**Health Score: 6.04/10**"}, nil)

			svc := service.NewRecipeService(testdb.NewSQLite(t), analyzer, nil, nil)
			recipe, err := svc.Submit(context.Background(), uuid.New(), types.CreateRecipeRequest{RawText: "  oats and milk, simmered "})
			require.NoError(t, err)

			assert.Equal(t, tt.wantServings, *recipe.Servings)
			assert.Equal(t, 6.0, *recipe.HealthRating)
			assert.Equal(t, "**Health Score: 6.04/10**", recipe.HealthBreakdown)
			analyzer.AssertExpectations(t)
		})
	}
}

func TestRecipeService_SubmitStopsAtFirstFailure(t *testing.T) {
	analyzer := &mocks.MockAnalyzer{}
	analyzer.On("Parse", mock.Anything, mock.Anything).Return(nil, &ai.ParseError{Raw: "garbage", Err: ai.ErrMissingField})

	svc := service.NewRecipeService(testdb.NewSQLite(t), analyzer, nil, nil)
	_, err := svc.Submit(context.Background(), uuid.New(), types.CreateRecipeRequest{RawText: "whatever recipe text"})
	assert.ErrorIs(t, err, ai.ErrMissingField)

	analyzer.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything, mock.Anything)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}
