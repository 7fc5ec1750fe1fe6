package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullHealthResponse = "```json\n" + `{
  "score": 7.5,
  "summary": "A balanced vegetable dish with moderate oil.",
  "healthy_aspects": [
    {"title": "High Fiber", "description": "Okra provides soluble fiber"},
    "Rich in antioxidants"
  ],
  "watch_points": [
    {"ingredient": "oil", "concern": "Deep frying adds fat"}
  ],
  "nutritional_highlights": {
    "vitamins": ["Vitamin C (38% DV)", {"name": "Vitamin K"}],
    "minerals": ["Magnesium"],
    "macros": {"protein_quality": "Moderate", "carb_quality": "Complex carbs", "fat_quality": "Mostly unsaturated"},
    "special_compounds": ["Polyphenols"]
  },
  "dietary_considerations": {
    "suitable_for": ["Vegan", "Gluten-free"],
    "may_not_suit": [],
    "modifications_for_conditions": {
      "high_blood_pressure": "Use less salt",
      "diabetes": "",
      "heart_disease": "Bake instead of frying"
    }
  },
  "improvement_tips": [{"tip": "Use an air fryer"}, "{'tip': 'Add lemon juice'}"],
  "meal_pairing_suggestions": [{"suggestion": "Serve with dal"}]
}` + "\n```"

func TestHealthAnalyzer_Analyze(t *testing.T) {
	client := &fakeClient{response: fullHealthResponse}
	calories := 210.0
	input := HealthInput{
		Ingredients:  []Ingredient{{Name: "okra", Quantity: strPtr("500"), Unit: strPtr("g")}},
		Instructions: []string{"Wash", "Fry"},
		PerServing:   Nutrients{Calories: &calories},
	}

	report, err := NewHealthAnalyzer(testConfig, client).Analyze(context.Background(), input)
	require.NoError(t, err)

	prompt := client.last.Messages[1].Content
	assert.Contains(t, prompt, "- 500 g okra")
	assert.Contains(t, prompt, "1. Wash\n2. Fry")
	assert.Contains(t, prompt, "Calories: 210")
	assert.Contains(t, prompt, "Protein (g): unknown")

	assert.Equal(t, 7.5, report.Score)
	assert.Equal(t, "A balanced vegetable dish with moderate oil.", report.Summary)
	assert.Equal(t, []Point{
		{Label: "High Fiber", Detail: "Okra provides soluble fiber"},
		{Detail: "Rich in antioxidants"},
	}, report.HealthyAspects)
	assert.Equal(t, []string{"oil: Deep frying adds fat"}, report.WatchPointStrings())
	assert.Equal(t, []string{"Use an air fryer", "Add lemon juice"}, report.Tips)
	assert.Equal(t, []string{"Serve with dal"}, report.Pairings)

	require.NotNil(t, report.Highlights)
	assert.Equal(t, []string{"Vitamin C (38% DV)", "Vitamin K"}, report.Highlights.Vitamins)
	assert.Equal(t, "Complex carbs", report.Highlights.Macros.Carbs)

	require.NotNil(t, report.Dietary)
	assert.Equal(t, []Condition{
		{Name: "high_blood_pressure", Advice: "Use less salt"},
		{Name: "heart_disease", Advice: "Bake instead of frying"},
	}, report.Dietary.Conditions)

	assert.Contains(t, report.Breakdown, "**Health Score: 7.5/10**")
	assert.Contains(t, report.Breakdown, "• **High Blood Pressure**: Use less salt")
}

func TestHealthAnalyzer_MinimalResponse(t *testing.T) {
	client := &fakeClient{response: `{"score": "6", "summary": "Fine"}`}

	report, err := NewHealthAnalyzer(testConfig, client).Analyze(context.Background(), HealthInput{})
	require.NoError(t, err)

	assert.Equal(t, 6.0, report.Score)
	assert.Empty(t, report.Tips)
	assert.Nil(t, report.Highlights)
	assert.Nil(t, report.Dietary)
	assert.Equal(t, "**Health Score: 6/10**\n\n📊 **Overview**: Fine\n\n", report.Breakdown)
}

func TestHealthAnalyzer_MissingRequiredFields(t *testing.T) {
	for _, response := range []string{
		`{"summary": "No score"}`,
		`{"score": 5, "summary": "  "}`,
	} {
		client := &fakeClient{response: response}
		_, err := NewHealthAnalyzer(testConfig, client).Analyze(context.Background(), HealthInput{})

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.ErrorIs(t, err, ErrMissingField)
		assert.Equal(t, response, parseErr.Raw)
	}
}

func TestHealthAnalyzer_ScoreRange(t *testing.T) {
	tests := []struct {
		response string
		wantErr  bool
	}{
		{`{"score": 85, "summary": "ok"}`, true},
		{`{"score": -3, "summary": "ok"}`, true},
		{`{"score": 10.5, "summary": "ok"}`, true},
		{`{"score": 0, "summary": "ok"}`, false},
		{`{"score": 10, "summary": "ok"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			report, err := NewHealthAnalyzer(testConfig, client).Analyze(context.Background(), HealthInput{})

			if !tt.wantErr {
				require.NoError(t, err)
				assert.LessOrEqual(t, report.Score, 10.0)
				return
			}
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, ErrScoreOutOfRange)
			assert.Equal(t, tt.response, parseErr.Raw)
			assert.Nil(t, report)
		})
	}
}
