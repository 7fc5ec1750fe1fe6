package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	healthTemperature = 0.3
	healthMaxTokens   = 2500

	minHealthScore = 0
	maxHealthScore = 10
)

var (
	tipKeys     = []string{"tip", "description"}
	pairingKeys = []string{"suggestion", "pairing", "description"}
	listKeys    = []string{"name", "description", "value"}
)

// Point is a labelled observation such as a healthy aspect or a watch point.
type Point struct {
	Label  string `json:"label,omitempty"`
	Detail string `json:"detail"`
}

func (p Point) String() string {
	if p.Label == "" {
		return p.Detail
	}
	return p.Label + ": " + p.Detail
}

// MacroQuality holds the qualitative macro notes.
type MacroQuality struct {
	Protein string `json:"protein_quality,omitempty"`
	Carbs   string `json:"carb_quality,omitempty"`
	Fat     string `json:"fat_quality,omitempty"`
}

func (m MacroQuality) empty() bool {
	return m.Protein == "" && m.Carbs == "" && m.Fat == ""
}

// Highlights are the optional nutritional highlights.
type Highlights struct {
	Vitamins  []string     `json:"vitamins,omitempty"`
	Minerals  []string     `json:"minerals,omitempty"`
	Macros    MacroQuality `json:"macros"`
	Compounds []string     `json:"special_compounds,omitempty"`
}

func (h *Highlights) empty() bool {
	return h == nil || (len(h.Vitamins) == 0 && len(h.Minerals) == 0 && h.Macros.empty() && len(h.Compounds) == 0)
}

// Condition is advice for one health condition.
type Condition struct {
	Name   string `json:"name"`
	Advice string `json:"advice"`
}

// DietarySuitability lists who the dish suits and per-condition advice.
type DietarySuitability struct {
	SuitableFor []string    `json:"suitable_for,omitempty"`
	MayNotSuit  []string    `json:"may_not_suit,omitempty"`
	Conditions  []Condition `json:"conditions,omitempty"`
}

func (d *DietarySuitability) empty() bool {
	return d == nil || (len(d.SuitableFor) == 0 && len(d.Conditions) == 0)
}

// HealthReport is the health analyzer's output.
type HealthReport struct {
	Score          float64             `json:"score"`
	Summary        string              `json:"summary"`
	HealthyAspects []Point             `json:"healthy_aspects"`
	WatchPoints    []Point             `json:"watch_points"`
	Highlights     *Highlights         `json:"nutritional_highlights,omitempty"`
	Dietary        *DietarySuitability `json:"dietary_considerations,omitempty"`
	Tips           []string            `json:"improvement_tips"`
	Pairings       []string            `json:"meal_pairing_suggestions"`
	Breakdown      string              `json:"breakdown"`
}

// HealthyPoints renders healthy aspects as "label: detail" strings.
func (r *HealthReport) HealthyPoints() []string {
	return pointStrings(r.HealthyAspects)
}

// WatchPointStrings renders watch points as "label: detail" strings.
func (r *HealthReport) WatchPointStrings() []string {
	return pointStrings(r.WatchPoints)
}

func pointStrings(points []Point) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.String())
	}
	return out
}

// HealthAnalyzer scores a recipe and renders the breakdown narrative.
type HealthAnalyzer struct {
	cfg    Config
	client CompletionClient
}

// NewHealthAnalyzer creates an analyzer. A nil client means a ChatClient built from cfg.
func NewHealthAnalyzer(cfg Config, client CompletionClient) *HealthAnalyzer {
	if client == nil {
		client = NewChatClient(cfg)
	}
	return &HealthAnalyzer{cfg: cfg, client: client}
}

type healthPayload struct {
	Score                 *json.Number `json:"score"`
	Summary               string       `json:"summary"`
	HealthyAspects        []TextItem   `json:"healthy_aspects"`
	WatchPoints           []TextItem   `json:"watch_points"`
	NutritionalHighlights *struct {
		Vitamins         []TextItem `json:"vitamins"`
		Minerals         []TextItem `json:"minerals"`
		Macros           TextItem   `json:"macros"`
		SpecialCompounds []TextItem `json:"special_compounds"`
	} `json:"nutritional_highlights"`
	DietaryConsiderations *struct {
		SuitableFor                []TextItem `json:"suitable_for"`
		MayNotSuit                 []TextItem `json:"may_not_suit"`
		ModificationsForConditions TextItem   `json:"modifications_for_conditions"`
	} `json:"dietary_considerations"`
	ImprovementTips        []TextItem `json:"improvement_tips"`
	MealPairingSuggestions []TextItem `json:"meal_pairing_suggestions"`
}

// Analyze runs one completion and returns the mapped report with its Breakdown filled in.
func (h *HealthAnalyzer) Analyze(ctx context.Context, in HealthInput) (*HealthReport, error) {
	raw, err := complete(ctx, h.cfg, h.client, BuildHealthPrompt(in), healthTemperature, healthMaxTokens)
	if err != nil {
		return nil, err
	}

	var payload healthPayload
	if err := Decode(raw, &payload); err != nil {
		return nil, err
	}
	report, err := payload.toReport(raw)
	if err != nil {
		return nil, err
	}
	report.Breakdown = FormatBreakdown(report)
	return report, nil
}

func (p healthPayload) toReport(raw string) (*HealthReport, error) {
	if p.Score == nil {
		return nil, missingField(raw, "score")
	}
	score, err := p.Score.Float64()
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if score < minHealthScore || score > maxHealthScore {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("%w: %s", ErrScoreOutOfRange, p.Score)}
	}
	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		return nil, missingField(raw, "summary")
	}

	report := &HealthReport{
		Score:          score,
		Summary:        summary,
		HealthyAspects: points(p.HealthyAspects, "title", "description"),
		WatchPoints:    points(p.WatchPoints, "ingredient", "concern"),
		Tips:           DisplayAll(p.ImprovementTips, tipKeys...),
		Pairings:       DisplayAll(p.MealPairingSuggestions, pairingKeys...),
	}

	if hl := p.NutritionalHighlights; hl != nil {
		macros := MacroQuality{}
		macros.Protein, _ = hl.Macros.Field("protein_quality")
		macros.Carbs, _ = hl.Macros.Field("carb_quality")
		macros.Fat, _ = hl.Macros.Field("fat_quality")
		report.Highlights = &Highlights{
			Vitamins:  DisplayAll(hl.Vitamins, listKeys...),
			Minerals:  DisplayAll(hl.Minerals, listKeys...),
			Macros:    macros,
			Compounds: DisplayAll(hl.SpecialCompounds, listKeys...),
		}
	}

	if dc := p.DietaryConsiderations; dc != nil {
		dietary := &DietarySuitability{
			SuitableFor: DisplayAll(dc.SuitableFor, listKeys...),
			MayNotSuit:  DisplayAll(dc.MayNotSuit, listKeys...),
		}
		for _, f := range dc.ModificationsForConditions.Fields {
			if strings.TrimSpace(f.Value) == "" {
				continue
			}
			dietary.Conditions = append(dietary.Conditions, Condition{Name: f.Key, Advice: f.Value})
		}
		report.Dietary = dietary
	}

	return report, nil
}

func points(items []TextItem, labelKey, detailKey string) []Point {
	out := make([]Point, 0, len(items))
	for _, item := range items {
		if item.IsEmpty() {
			continue
		}
		label, _ := item.Field(labelKey)
		detail, ok := item.Field(detailKey)
		if !ok {
			detail = item.Display(detailKey)
		}
		if label == detail {
			label = ""
		}
		if strings.TrimSpace(detail) == "" && label == "" {
			continue
		}
		out = append(out, Point{Label: label, Detail: detail})
	}
	return out
}
