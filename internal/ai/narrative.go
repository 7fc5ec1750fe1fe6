package ai

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxVitamins   = 4
	maxMinerals   = 4
	maxCompounds  = 3
	maxConditions = 4
	maxTips       = 5
	maxPairings   = 3

	bullet = "• "
)

// FormatBreakdown renders a report as the markdown health breakdown.
// Sections whose source lists are empty are left out.
func FormatBreakdown(r *HealthReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Health Score: %s/10**\n\n", formatNumber(r.Score))

	if r.Summary != "" {
		fmt.Fprintf(&b, "📊 **Overview**: %s\n\n", r.Summary)
	}

	if !r.Highlights.empty() {
		writeHighlights(&b, r.Highlights)
	}

	if len(r.HealthyAspects) > 0 {
		b.WriteString("### ✅ What Makes It Healthy\n\n")
		writePoints(&b, r.HealthyAspects)
	}

	if len(r.WatchPoints) > 0 {
		b.WriteString("### ⚠️ What to Watch Out For\n\n")
		writePoints(&b, r.WatchPoints)
	}

	if !r.Dietary.empty() {
		writeDietary(&b, r.Dietary)
	}

	if len(r.Tips) > 0 {
		b.WriteString("### 💡 Tips to Make It Healthier\n\n")
		writeBullets(&b, capped(r.Tips, maxTips))
		b.WriteString("\n")
	}

	if len(r.Pairings) > 0 {
		b.WriteString("### 🥘 Suggested Pairings\n\n")
		writeBullets(&b, capped(r.Pairings, maxPairings))
		b.WriteString("\n")
	}

	return b.String()
}

func writeHighlights(b *strings.Builder, h *Highlights) {
	b.WriteString("### 🏆 Nutritional Highlights\n\n")

	if len(h.Vitamins) > 0 || len(h.Minerals) > 0 {
		b.WriteString("**Key Vitamins & Minerals:**\n")
		writeBullets(b, capped(h.Vitamins, maxVitamins))
		writeBullets(b, capped(h.Minerals, maxMinerals))
		b.WriteString("\n")
	}

	if !h.Macros.empty() {
		b.WriteString("**Macronutrient Analysis:**\n")
		if h.Macros.Protein != "" {
			fmt.Fprintf(b, "%s**Protein**: %s\n", bullet, h.Macros.Protein)
		}
		if h.Macros.Carbs != "" {
			fmt.Fprintf(b, "%s**Carbs**: %s\n", bullet, h.Macros.Carbs)
		}
		if h.Macros.Fat != "" {
			fmt.Fprintf(b, "%s**Fats**: %s\n", bullet, h.Macros.Fat)
		}
		b.WriteString("\n")
	}

	if len(h.Compounds) > 0 {
		b.WriteString("**Beneficial Compounds:**\n")
		writeBullets(b, capped(h.Compounds, maxCompounds))
		b.WriteString("\n")
	}
}

func writeDietary(b *strings.Builder, d *DietarySuitability) {
	b.WriteString("### 🍽️ Dietary Considerations\n\n")

	if len(d.SuitableFor) > 0 {
		fmt.Fprintf(b, "**Suitable for:** %s\n\n", strings.Join(d.SuitableFor, ", "))
	}

	if len(d.Conditions) > 0 {
		caser := cases.Title(language.English)
		b.WriteString("**Health Condition Recommendations:**\n")
		conditions := d.Conditions
		if len(conditions) > maxConditions {
			conditions = conditions[:maxConditions]
		}
		for _, c := range conditions {
			name := caser.String(strings.ReplaceAll(c.Name, "_", " "))
			fmt.Fprintf(b, "%s**%s**: %s\n", bullet, name, c.Advice)
		}
		b.WriteString("\n")
	}
}

func writePoints(b *strings.Builder, points []Point) {
	for _, p := range points {
		if p.Label == "" {
			fmt.Fprintf(b, "%s%s\n", bullet, p.Detail)
			continue
		}
		fmt.Fprintf(b, "%s**%s**: %s\n", bullet, p.Label, p.Detail)
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString(bullet)
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
