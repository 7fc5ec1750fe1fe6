package ai

import (
	"context"
	"encoding/json"
	"math"
)

const (
	nutritionTemperature = 0.2
	nutritionMaxTokens   = 2500
)

// NutritionCalculator estimates nutrition for an ingredient list.
type NutritionCalculator struct {
	cfg    Config
	client CompletionClient
}

// NewNutritionCalculator creates a calculator. A nil client means a ChatClient built from cfg.
func NewNutritionCalculator(cfg Config, client CompletionClient) *NutritionCalculator {
	if client == nil {
		client = NewChatClient(cfg)
	}
	return &NutritionCalculator{cfg: cfg, client: client}
}

type nutrientsPayload struct {
	Calories *json.Number `json:"calories"`
	Protein  *json.Number `json:"protein"`
	Carbs    *json.Number `json:"carbs"`
	Fat      *json.Number `json:"fat"`
	Fiber    *json.Number `json:"fiber"`
	Sugar    *json.Number `json:"sugar"`
	Sodium   *json.Number `json:"sodium"`
}

type nutritionPayload struct {
	Total             *nutrientsPayload `json:"total"`
	PerServing        *nutrientsPayload `json:"per_serving"`
	Servings          *json.Number      `json:"servings"`
	Estimated         bool              `json:"estimated"`
	DetailedBreakdown []struct {
		Ingredient string       `json:"ingredient"`
		Calories   *json.Number `json:"calories"`
		Protein    *json.Number `json:"protein"`
		Carbs      *json.Number `json:"carbs"`
		Fat        *json.Number `json:"fat"`
		Fiber      *json.Number `json:"fiber"`
		Notes      string       `json:"notes"`
	} `json:"detailed_breakdown"`
}

// Calculate runs one completion for the given ingredients and serving count.
func (n *NutritionCalculator) Calculate(ctx context.Context, ingredients []Ingredient, servings int) (*NutritionResult, error) {
	raw, err := complete(ctx, n.cfg, n.client, BuildNutritionPrompt(ingredients, servings), nutritionTemperature, nutritionMaxTokens)
	if err != nil {
		return nil, err
	}

	var payload nutritionPayload
	if err := Decode(raw, &payload); err != nil {
		return nil, err
	}
	return payload.toResult(raw)
}

func (p nutritionPayload) toResult(raw string) (*NutritionResult, error) {
	if p.Total == nil {
		return nil, missingField(raw, "total")
	}
	if p.PerServing == nil {
		return nil, missingField(raw, "per_serving")
	}
	if p.PerServing.Calories == nil {
		return nil, missingField(raw, "per_serving.calories")
	}
	if p.Servings == nil {
		return nil, missingField(raw, "servings")
	}
	servings, err := p.Servings.Float64()
	if err != nil || servings < 1 {
		return nil, missingField(raw, "servings")
	}

	total, err := p.Total.toNutrients()
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	perServing, err := p.PerServing.toNutrients()
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	result := &NutritionResult{
		Total:      total,
		PerServing: perServing,
		Servings:   int(math.Round(servings)),
		Estimated:  p.Estimated,
	}
	for _, row := range p.DetailedBreakdown {
		item := IngredientNutrition{Ingredient: row.Ingredient, Notes: row.Notes}
		values := []struct {
			src *json.Number
			dst **float64
		}{
			{row.Calories, &item.Calories},
			{row.Protein, &item.Protein},
			{row.Carbs, &item.Carbs},
			{row.Fat, &item.Fat},
			{row.Fiber, &item.Fiber},
		}
		for _, v := range values {
			if *v.dst, err = numberPtr(v.src); err != nil {
				return nil, &ParseError{Raw: raw, Err: err}
			}
		}
		result.DetailedBreakdown = append(result.DetailedBreakdown, item)
	}
	return result, nil
}

func (p nutrientsPayload) toNutrients() (Nutrients, error) {
	var out Nutrients
	values := []struct {
		src *json.Number
		dst **float64
	}{
		{p.Calories, &out.Calories},
		{p.Protein, &out.Protein},
		{p.Carbs, &out.Carbs},
		{p.Fat, &out.Fat},
		{p.Fiber, &out.Fiber},
		{p.Sugar, &out.Sugar},
		{p.Sodium, &out.Sodium},
	}
	for _, v := range values {
		var err error
		if *v.dst, err = numberPtr(v.src); err != nil {
			return Nutrients{}, err
		}
	}
	return out, nil
}
