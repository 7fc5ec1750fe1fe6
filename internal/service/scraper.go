package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/pageza/healthbite/backend/internal/ai"
)

const (
	maxScrapedText = 8000
	maxPageBytes   = 2 << 20
)

var htmlContentTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

var ErrScrapeFailed = errors.New("failed to scrape recipe page")

// ScrapedPage is what the scraper keeps from a recipe page.
type ScrapedPage struct {
	URL      string
	Title    string
	Text     string
	ImageURL string
}

// PageScraper fetches recipe pages over HTTP.
type PageScraper struct {
	client *resty.Client
}

func NewPageScraper() *PageScraper {
	client := resty.New().
		SetTimeout(15*time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; HealthbiteBot/1.0)").
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &PageScraper{client: client}
}

// pageContentType returns the media type from header, sniffing body when the header is absent.
func pageContentType(header string, body []byte) string {
	if strings.TrimSpace(header) == "" {
		header = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Scrape downloads the page and extracts recipe text, preferring JSON-LD Recipe data.
func (s *PageScraper) Scrape(ctx context.Context, pageURL string) (*ScrapedPage, error) {
	resp, err := s.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("%w: page returned status %d", ErrScrapeFailed, resp.StatusCode())
	}

	body, err := io.ReadAll(io.LimitReader(raw, maxPageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	if len(body) > maxPageBytes {
		return nil, fmt.Errorf("%w: page is larger than %d bytes", ErrScrapeFailed, maxPageBytes)
	}
	if contentType := pageContentType(resp.Header().Get("Content-Type"), body); !htmlContentTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrScrapeFailed, contentType)
	}

	page, err := ParsePage(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	page.URL = pageURL
	if page.ImageURL != "" {
		page.ImageURL = resolveURL(pageURL, page.ImageURL)
	}
	return page, nil
}

// ParsePage extracts title, text and image from an HTML document.
func ParsePage(body string) (*ScrapedPage, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var (
		title    string
		ogImage  string
		ldBlocks []string
		text     strings.Builder
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					ldBlocks = append(ldBlocks, n.FirstChild.Data)
				}
				return
			case "style", "noscript", "nav", "footer", "header":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case "meta":
				if attr(n, "property") == "og:image" && ogImage == "" {
					ogImage = attr(n, "content")
				}
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				text.WriteString(t)
				text.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, block := range ldBlocks {
		if recipe := findRecipe([]byte(block)); recipe != nil {
			page := recipe.page()
			if page.Title == "" {
				page.Title = title
			}
			if page.ImageURL == "" {
				page.ImageURL = ogImage
			}
			return page, nil
		}
	}

	body = strings.TrimSpace(text.String())
	if body == "" {
		return nil, errors.New("page has no readable text")
	}
	if len(body) > maxScrapedText {
		body = body[:maxScrapedText]
	}
	if title != "" {
		body = title + "\n\n" + body
	}
	return &ScrapedPage{Title: title, Text: body, ImageURL: ogImage}, nil
}

type ldRecipe struct {
	Name         string          `json:"name"`
	Ingredients  []string        `json:"recipeIngredient"`
	Instructions json.RawMessage `json:"recipeInstructions"`
	Yield        json.RawMessage `json:"recipeYield"`
	Image        json.RawMessage `json:"image"`
}

func (r *ldRecipe) page() *ScrapedPage {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString("\n\nIngredients:\n")
	for _, ing := range r.Ingredients {
		b.WriteString("- " + strings.TrimSpace(ing) + "\n")
	}
	b.WriteString("\nInstructions:\n")
	for i, step := range instructionSteps(r.Instructions) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if y := firstText(r.Yield); y != "" {
		b.WriteString("\nServes: " + y + "\n")
	}
	return &ScrapedPage{Title: strings.TrimSpace(r.Name), Text: b.String(), ImageURL: imageURL(r.Image)}
}

// findRecipe looks for a node typed Recipe in a JSON-LD block, including @graph arrays.
func findRecipe(data []byte) *ldRecipe {
	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return nil
	}
	var search func(v any) map[string]any
	search = func(v any) map[string]any {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if m := search(item); m != nil {
					return m
				}
			}
		case map[string]any:
			if isRecipeType(t["@type"]) {
				return t
			}
			if graph, ok := t["@graph"]; ok {
				return search(graph)
			}
		}
		return nil
	}
	m := search(node)
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var recipe ldRecipe
	if err := json.Unmarshal(raw, &recipe); err != nil {
		return nil
	}
	return &recipe
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Recipe"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// instructionSteps flattens text, HowToStep and HowToSection instructions.
func instructionSteps(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return splitLines(single)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var steps []string
	for _, item := range items {
		var section struct {
			Type  string          `json:"@type"`
			Items json.RawMessage `json:"itemListElement"`
		}
		if err := json.Unmarshal(item, &section); err == nil && section.Type == "HowToSection" {
			steps = append(steps, instructionSteps(section.Items)...)
			continue
		}
		var step ai.TextItem
		if err := json.Unmarshal(item, &step); err != nil {
			continue
		}
		if s := strings.TrimSpace(step.Display("text", "name")); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

func imageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) == 0 {
			return ""
		}
		return imageURL(items[0])
	}
	var item ai.TextItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return ""
	}
	u := strings.TrimSpace(item.Display("url", "contentUrl"))
	if !IsURL(u) && !strings.HasPrefix(u, "/") {
		return ""
	}
	return u
}

func firstText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var items []ai.TextItem
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) == 0 {
			return ""
		}
		return items[0].Display()
	}
	var item ai.TextItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return ""
	}
	return item.Display()
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
