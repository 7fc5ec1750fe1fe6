package ai

import (
	"fmt"
	"strings"
)

const parseInstructions = `You are a recipe parser. Extract the recipe from the text below.
Ingredients may be listed separately or mentioned inside the steps; handle both.

Return ONLY a JSON object, with no markdown fences and no commentary, shaped like:
{
  "title": "Recipe title",
  "ingredients": [
    {"name": "flour", "quantity": "2", "unit": "cups"},
    {"name": "salt", "quantity": "to taste", "unit": null}
  ],
  "instructions": ["First step", "Second step"],
  "servings": 4,
  "cuisine_type": "Italian",
  "dietary_tags": ["Vegetarian"]
}

Rules:
- Include every ingredient, even ones only mentioned in the steps, and merge duplicates.
- Use lowercase ingredient names without preparation notes such as "chopped".
- For regional ingredient names add the English name in parentheses, e.g. "bhindi (okra)".
- Rewrite each instruction as one clear cooking step.
- Use null for servings or cuisine_type when the text does not say.
- cuisine_type is one of: Italian, Chinese, Indian, Mexican, Japanese, Thai, French, Mediterranean, American, Korean, Vietnamese, Greek, Spanish, Middle Eastern, African.
- dietary_tags lists every tag that applies from: Vegetarian, Vegan, Gluten-Free, Dairy-Free, Keto, Paleo, Low-Carb, High-Protein, Nut-Free, Egg-Free, Sugar-Free, Low-Sodium, Pescatarian.

Recipe text:
`

const nutritionInstructions = `You are a professional nutritionist. Calculate the nutrition for this recipe.

Ingredients:
%s

Servings: %d

Return ONLY a JSON object, with no markdown fences and no commentary, shaped like:
{
  "total": {"calories": 850, "protein": 45, "carbs": 95, "fat": 35, "fiber": 18, "sugar": 12, "sodium": 1200},
  "per_serving": {"calories": 213, "protein": 11.3, "carbs": 23.8, "fat": 8.8, "fiber": 4.5, "sugar": 3, "sodium": 300},
  "servings": %d,
  "estimated": false,
  "detailed_breakdown": [
    {"ingredient": "3 tbsp oil", "calories": 360, "protein": 0, "carbs": 0, "fat": 42, "fiber": 0, "notes": "Most of the fat"}
  ]
}

Guidelines:
- Base values on USDA FoodData Central where possible.
- Calories = protein*4 + carbs*4 + fat*9.
- Account for oil absorbed while frying and water lost while roasting.
- Sodium is in milligrams, everything else in grams.
- Set "estimated" to true when quantities are vague and values are rough.`

const healthInstructions = `You are a professional nutritionist analyzing a recipe.

Recipe ingredients:
%s

Cooking instructions:
%s

Per serving nutrition:
- Calories: %s
- Protein (g): %s
- Carbs (g): %s
- Fat (g): %s
- Fiber (g): %s
- Sodium (mg): %s

Return ONLY a JSON object, with no markdown fences and no commentary, shaped like:
{
  "score": 7.5,
  "summary": "Two or three sentences on overall healthiness and balance.",
  "healthy_aspects": [{"title": "Okra", "description": "High in fiber and vitamin C."}],
  "watch_points": [{"ingredient": "Oil (2 tbsp)", "concern": "Adds about 240 calories."}],
  "nutritional_highlights": {
    "vitamins": ["Vitamin C: 38%% DV"],
    "minerals": ["Potassium: 12%% DV"],
    "macros": {"protein_quality": "...", "carb_quality": "...", "fat_quality": "..."},
    "special_compounds": ["Curcumin from turmeric: anti-inflammatory"]
  },
  "dietary_considerations": {
    "suitable_for": ["Vegetarian"],
    "may_not_suit": ["Nut allergies"],
    "modifications_for_conditions": {"diabetes": "...", "weight_loss": "..."}
  },
  "improvement_tips": ["Reduce oil to 1 tablespoon"],
  "meal_pairing_suggestions": ["Serve with brown rice"]
}

Guidelines:
- score is a number from 1 to 10 and may be a decimal.
- 8-10 very healthy, 6-8 healthy with minor concerns, 4-6 moderate, below 4 needs improvement.
- Weigh vegetable content, oil use, cooking method and nutritional balance.
- improvement_tips and meal_pairing_suggestions are arrays of plain strings, not objects.`

// BuildParsePrompt frames free recipe text for the parser.
func BuildParsePrompt(text string) []Message {
	return []Message{
		{Role: "system", Content: "You are a helpful recipe parser that extracts structured data from recipe text."},
		{Role: "user", Content: parseInstructions + text},
	}
}

// BuildNutritionPrompt lists the ingredients with the serving count.
func BuildNutritionPrompt(ingredients []Ingredient, servings int) []Message {
	lines := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		lines = append(lines, "- "+ing.Label())
	}
	return []Message{
		{Role: "system", Content: "You are a professional nutritionist with expertise in calculating accurate nutritional values for recipes."},
		{Role: "user", Content: fmt.Sprintf(nutritionInstructions, strings.Join(lines, "\n"), servings, servings)},
	}
}

// HealthInput is what the health analyzer looks at.
type HealthInput struct {
	Ingredients  []Ingredient
	Instructions []string
	PerServing   Nutrients
}

// BuildHealthPrompt renders ingredients, numbered steps and per-serving nutrition.
func BuildHealthPrompt(in HealthInput) []Message {
	ingredients := make([]string, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredients = append(ingredients, "- "+ing.Label())
	}
	steps := make([]string, 0, len(in.Instructions))
	for i, step := range in.Instructions {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, step))
	}

	n := in.PerServing
	content := fmt.Sprintf(healthInstructions,
		strings.Join(ingredients, "\n"),
		strings.Join(steps, "\n"),
		nutrient(n.Calories), nutrient(n.Protein), nutrient(n.Carbs),
		nutrient(n.Fat), nutrient(n.Fiber), nutrient(n.Sodium),
	)

	return []Message{
		{Role: "system", Content: "You are a professional nutritionist who understands both Western and Indian cuisine health benefits."},
		{Role: "user", Content: content},
	}
}

func nutrient(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return formatNumber(*v)
}
