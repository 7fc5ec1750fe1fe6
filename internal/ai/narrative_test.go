package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBreakdown_ScoreTipsPairing(t *testing.T) {
	client := &fakeClient{response: `{
		"score": 8,
		"summary": "Light and fresh.",
		"improvement_tips": ["Use less oil", {"tip": "Add spinach"}],
		"meal_pairing_suggestions": ["Brown rice"]
	}`}

	report, err := NewHealthAnalyzer(testConfig, client).Analyze(context.Background(), HealthInput{})
	require.NoError(t, err)

	out := report.Breakdown
	assert.True(t, strings.HasPrefix(out, "**Health Score: 8/10**"))
	assert.Contains(t, out, "• Use less oil")
	assert.Contains(t, out, "• Add spinach")
	assert.Contains(t, out, "Suggested Pairings")
	assert.Contains(t, out, "• Brown rice")

	assert.NotContains(t, out, "What Makes It Healthy")
	assert.NotContains(t, out, "What to Watch Out For")
	assert.NotContains(t, out, "Nutritional Highlights")
	assert.NotContains(t, out, "Dietary Considerations")
	assert.Less(t, strings.Index(out, "Tips to Make It Healthier"), strings.Index(out, "Suggested Pairings"))
}

func TestFormatBreakdown_SectionOrderAndCaps(t *testing.T) {
	report := &HealthReport{
		Score:          9.25,
		Summary:        "Great",
		HealthyAspects: []Point{{Label: "Protein", Detail: "Lentils"}},
		WatchPoints:    []Point{{Detail: "Salty"}},
		Highlights: &Highlights{
			Vitamins:  []string{"A", "B", "C", "D", "E"},
			Minerals:  []string{"Iron"},
			Macros:    MacroQuality{Protein: "High"},
			Compounds: []string{"c1", "c2", "c3", "c4"},
		},
		Dietary: &DietarySuitability{
			SuitableFor: []string{"Vegan", "Halal"},
			Conditions: []Condition{
				{Name: "diabetes", Advice: "a1"},
				{Name: "high_cholesterol", Advice: "a2"},
				{Name: "gout", Advice: "a3"},
				{Name: "ibs", Advice: "a4"},
				{Name: "anemia", Advice: "a5"},
			},
		},
		Tips:     []string{"t1", "t2", "t3", "t4", "t5", "t6"},
		Pairings: []string{"p1", "p2", "p3", "p4"},
	}

	out := FormatBreakdown(report)

	headings := []string{
		"**Health Score: 9.25/10**",
		"📊 **Overview**: Great",
		"### 🏆 Nutritional Highlights",
		"### ✅ What Makes It Healthy",
		"### ⚠️ What to Watch Out For",
		"### 🍽️ Dietary Considerations",
		"### 💡 Tips to Make It Healthier",
		"### 🥘 Suggested Pairings",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, h)
		assert.Greater(t, idx, last, h)
		last = idx
	}

	assert.Contains(t, out, "• D\n")
	assert.NotContains(t, out, "• E\n")
	assert.Contains(t, out, "• **Protein**: High")
	assert.NotContains(t, out, "**Carbs**")
	assert.Contains(t, out, "• c3\n")
	assert.NotContains(t, out, "• c4\n")
	assert.Contains(t, out, "• **Protein**: Lentils")
	assert.Contains(t, out, "• Salty\n")
	assert.Contains(t, out, "**Suitable for:** Vegan, Halal")
	assert.Contains(t, out, "• **High Cholesterol**: a2")
	assert.Contains(t, out, "• **Ibs**: a4")
	assert.NotContains(t, out, "a5")
	assert.Contains(t, out, "• t5\n")
	assert.NotContains(t, out, "t6")
	assert.Contains(t, out, "• p3\n")
	assert.NotContains(t, out, "p4")
}
