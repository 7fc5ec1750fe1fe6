package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ingredient is one parsed ingredient line.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity *string `json:"quantity"`
	Unit     *string `json:"unit"`
}

// Label renders the ingredient as "qty unit name".
func (i Ingredient) Label() string {
	parts := make([]string, 0, 3)
	if i.Quantity != nil && *i.Quantity != "" {
		parts = append(parts, *i.Quantity)
	}
	if i.Unit != nil && *i.Unit != "" {
		parts = append(parts, *i.Unit)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, " ")
}

// ParsedRecipe is the recipe parser's output.
type ParsedRecipe struct {
	Title        string       `json:"title"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Servings     *int         `json:"servings"`
	CuisineType  *string      `json:"cuisine_type"`
	DietaryTags  []string     `json:"dietary_tags"`
}

// Nutrients holds one nutrition block. Any field may be absent.
type Nutrients struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`
}

// IngredientNutrition is one row of the per-ingredient breakdown.
type IngredientNutrition struct {
	Ingredient string   `json:"ingredient"`
	Calories   *float64 `json:"calories,omitempty"`
	Protein    *float64 `json:"protein,omitempty"`
	Carbs      *float64 `json:"carbs,omitempty"`
	Fat        *float64 `json:"fat,omitempty"`
	Fiber      *float64 `json:"fiber,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// NutritionResult is the nutrition calculator's output.
type NutritionResult struct {
	Total             Nutrients             `json:"total"`
	PerServing        Nutrients             `json:"per_serving"`
	Servings          int                   `json:"servings"`
	Estimated         bool                  `json:"estimated,omitempty"`
	DetailedBreakdown []IngredientNutrition `json:"detailed_breakdown,omitempty"`
}

// FlexString accepts a JSON string or number and keeps its text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("invalid value %s", data)
}

// Int parses the text as a whole number, rounding decimals.
func (f FlexString) Int() (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(v)), true
}

func (f *FlexString) ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	if s == "" {
		return nil
	}
	return &s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func numberPtr(n *json.Number) (*float64, error) {
	if n == nil {
		return nil, nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil, err
	}
	v = round1(v)
	return &v, nil
}
