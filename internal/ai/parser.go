package ai

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	parseTemperature = 0.3
	parseMaxTokens   = 3000
)

// RecipeParser turns free recipe text into a ParsedRecipe.
type RecipeParser struct {
	cfg    Config
	client CompletionClient
}

// NewRecipeParser creates a parser. A nil client means a ChatClient built from cfg.
func NewRecipeParser(cfg Config, client CompletionClient) *RecipeParser {
	if client == nil {
		client = NewChatClient(cfg)
	}
	return &RecipeParser{cfg: cfg, client: client}
}

type parsePayload struct {
	Title       string `json:"title"`
	Ingredients []struct {
		Name     string      `json:"name"`
		Quantity *FlexString `json:"quantity"`
		Unit     *FlexString `json:"unit"`
	} `json:"ingredients"`
	Instructions []TextItem  `json:"instructions"`
	Servings     *FlexString `json:"servings"`
	CuisineType  *string     `json:"cuisine_type"`
	DietaryTags  []string    `json:"dietary_tags"`
}

// Parse runs one completion and maps the result.
func (p *RecipeParser) Parse(ctx context.Context, text string) (*ParsedRecipe, error) {
	raw, err := complete(ctx, p.cfg, p.client, BuildParsePrompt(text), parseTemperature, parseMaxTokens)
	if err != nil {
		return nil, err
	}

	var payload parsePayload
	if err := Decode(raw, &payload); err != nil {
		return nil, err
	}
	return payload.toRecipe(raw)
}

func (p parsePayload) toRecipe(raw string) (*ParsedRecipe, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, missingField(raw, "title")
	}

	ingredients := make([]Ingredient, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Name:     name,
			Quantity: ing.Quantity.ptr(),
			Unit:     ing.Unit.ptr(),
		})
	}
	if len(ingredients) == 0 {
		return nil, missingField(raw, "ingredients")
	}

	instructions := DisplayAll(p.Instructions, "instruction", "text", "step", "description")
	if len(instructions) == 0 {
		return nil, missingField(raw, "instructions")
	}

	recipe := &ParsedRecipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		DietaryTags:  NormalizeTags(p.DietaryTags),
	}
	if p.Servings != nil {
		if n, ok := p.Servings.Int(); ok && n > 0 {
			recipe.Servings = &n
		}
	}
	if p.CuisineType != nil {
		if c := strings.TrimSpace(*p.CuisineType); c != "" {
			c = cases.Title(language.English).String(c)
			recipe.CuisineType = &c
		}
	}
	return recipe, nil
}

// NormalizeTags title-cases and de-duplicates tags, keeping first-seen order.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	caser := cases.Title(language.English)
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		titled := caser.String(tag)
		key := strings.ToLower(titled)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, titled)
	}
	return out
}
