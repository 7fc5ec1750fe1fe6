package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNutritionCalculator_Calculate(t *testing.T) {
	client := &fakeClient{response: `{
		"total": {"calories": 1200.44, "protein": 40, "carbs": "150.26", "fat": 45, "fiber": 20, "sugar": 12, "sodium": 2400},
		"per_serving": {"calories": 300.11, "protein": 10, "carbs": 37.5, "fat": 11.25, "fiber": 5, "sugar": 3, "sodium": 600},
		"servings": 4,
		"estimated": true,
		"detailed_breakdown": [
			{"ingredient": "2 cups rice", "calories": 410, "protein": 8.44, "notes": "long grain"}
		]
	}`}
	calc := NewNutritionCalculator(testConfig, client)

	ingredients := []Ingredient{
		{Name: "rice", Quantity: strPtr("2"), Unit: strPtr("cups")},
		{Name: "salt"},
	}
	result, err := calc.Calculate(context.Background(), ingredients, 4)
	require.NoError(t, err)

	assert.Equal(t, nutritionTemperature, client.last.Temperature)
	prompt := client.last.Messages[1].Content
	assert.Contains(t, prompt, "- 2 cups rice")
	assert.Contains(t, prompt, "- salt")
	assert.True(t, strings.Contains(prompt, "4"))

	assert.Equal(t, 4, result.Servings)
	assert.True(t, result.Estimated)
	require.NotNil(t, result.Total.Calories)
	assert.Equal(t, 1200.4, *result.Total.Calories)
	assert.Equal(t, 150.3, *result.Total.Carbs)
	assert.Equal(t, 300.1, *result.PerServing.Calories)
	assert.Equal(t, 11.3, *result.PerServing.Fat)

	require.Len(t, result.DetailedBreakdown, 1)
	row := result.DetailedBreakdown[0]
	assert.Equal(t, "2 cups rice", row.Ingredient)
	assert.Equal(t, 8.4, *row.Protein)
	assert.Nil(t, row.Fat)
	assert.Equal(t, "long grain", row.Notes)
}

func TestNutritionCalculator_PartialNutrients(t *testing.T) {
	client := &fakeClient{response: `{"total": {"calories": 800}, "per_serving": {"calories": 400}, "servings": 2}`}

	result, err := NewNutritionCalculator(testConfig, client).Calculate(context.Background(), []Ingredient{{Name: "pasta"}}, 2)
	require.NoError(t, err)

	assert.Equal(t, 400.0, *result.PerServing.Calories)
	assert.Nil(t, result.PerServing.Protein)
	assert.Nil(t, result.Total.Sodium)
	assert.Empty(t, result.DetailedBreakdown)
}

func TestNutritionCalculator_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no total", `{"per_serving": {"calories": 1}, "servings": 1}`},
		{"no per serving", `{"total": {"calories": 1}, "servings": 1}`},
		{"no per serving calories", `{"total": {}, "per_serving": {"protein": 1}, "servings": 1}`},
		{"no servings", `{"total": {}, "per_serving": {"calories": 1}}`},
		{"zero servings", `{"total": {}, "per_serving": {"calories": 1}, "servings": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			_, err := NewNutritionCalculator(testConfig, client).Calculate(context.Background(), []Ingredient{{Name: "x"}}, 1)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestNutritionCalculator_NonNumericValue(t *testing.T) {
	client := &fakeClient{response: `{"total": {"calories": "lots"}, "per_serving": {"calories": 1}, "servings": 1}`}

	_, err := NewNutritionCalculator(testConfig, client).Calculate(context.Background(), []Ingredient{{Name: "x"}}, 1)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NotErrorIs(t, err, ErrMissingField)
}
