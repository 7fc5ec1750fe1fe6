package ai

import "context"

// Analyzer bundles the three services behind one value so callers can depend on a single interface.
type Analyzer struct {
	parser    *RecipeParser
	nutrition *NutritionCalculator
	health    *HealthAnalyzer
}

// NewAnalyzer wires all three services to the same config and client.
func NewAnalyzer(cfg Config, client CompletionClient) *Analyzer {
	if client == nil {
		client = NewChatClient(cfg)
	}
	return &Analyzer{
		parser:    NewRecipeParser(cfg, client),
		nutrition: NewNutritionCalculator(cfg, client),
		health:    NewHealthAnalyzer(cfg, client),
	}
}

func (a *Analyzer) Parse(ctx context.Context, text string) (*ParsedRecipe, error) {
	return a.parser.Parse(ctx, text)
}

func (a *Analyzer) Calculate(ctx context.Context, ingredients []Ingredient, servings int) (*NutritionResult, error) {
	return a.nutrition.Calculate(ctx, ingredients, servings)
}

func (a *Analyzer) Analyze(ctx context.Context, in HealthInput) (*HealthReport, error) {
	return a.health.Analyze(ctx, in)
}
