package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// TextKind tags which form a list item arrived in.
type TextKind int

const (
	// TextPlain is an ordinary JSON string.
	TextPlain TextKind = iota
	// TextMapping is a JSON object.
	TextMapping
	// TextSerializedMapping is a JSON string whose content looks like an object.
	TextSerializedMapping
)

// Field is one key/value pair of a mapping item, in response order.
type Field struct {
	Key   string
	Value string
}

// TextItem is a list entry that may be a string, an object, or an object
// serialized into a string. Display picks the text to show.
type TextItem struct {
	Kind   TextKind
	Text   string
	Fields []Field
}

// PlainText builds a plain item.
func PlainText(s string) TextItem {
	return TextItem{Kind: TextPlain, Text: s}
}

// ParseTextItem classifies a string value.
func ParseTextItem(s string) TextItem {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return PlainText(s)
	}

	item := TextItem{Kind: TextSerializedMapping, Text: trimmed}
	if fields, err := decodeFields([]byte(trimmed)); err == nil {
		item.Fields = fields
	}
	return item
}

func (t *TextItem) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = TextItem{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		fields, err := decodeFields(trimmed)
		if err != nil {
			return err
		}
		*t = TextItem{Kind: TextMapping, Fields: fields}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = ParseTextItem(s)
	case '[':
		return fmt.Errorf("unexpected array for text item")
	default:
		*t = PlainText(string(trimmed))
	}
	return nil
}

func (t TextItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Display())
}

// Field returns the value stored under key for mapping items.
func (t TextItem) Field(key string) (string, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Display extracts a display string. Candidate keys are tried in order, then the
// first field, then the raw text with its mapping punctuation removed.
func (t TextItem) Display(keys ...string) string {
	if t.Kind == TextPlain {
		return strings.TrimSpace(t.Text)
	}

	for _, key := range keys {
		if v, ok := t.Field(key); ok {
			return v
		}
	}
	if len(t.Fields) > 0 {
		return t.Fields[0].Value
	}
	if t.Kind == TextSerializedMapping {
		return salvage(t.Text, keys)
	}
	return ""
}

// IsEmpty reports whether the item carries no text at all.
func (t TextItem) IsEmpty() bool {
	return strings.TrimSpace(t.Text) == "" && len(t.Fields) == 0
}

// DisplayAll maps items to display strings, skipping blanks.
func DisplayAll(items []TextItem, keys ...string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item.Display(keys...)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var (
	leadingKey    = regexp.MustCompile(`^\{\s*['"]?\w+['"]?\s*:\s*['"]?`)
	trailingBrace = regexp.MustCompile(`['"]?\s*\}$`)
)

// salvage handles mapping-looking strings that are not valid JSON, such as
// single-quoted dictionaries.
func salvage(text string, keys []string) string {
	for _, key := range keys {
		pattern := regexp.MustCompile(`['"]` + regexp.QuoteMeta(key) + `['"]\s*:\s*'([^']+)'`)
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	s := leadingKey.ReplaceAllString(text, "")
	s = trailingBrace.ReplaceAllString(s, "")
	return strings.Trim(s, `'" `)
}

// decodeFields reads a JSON object keeping key order. Non-string values keep their JSON text.
func decodeFields(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: key, Value: rawText(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func rawText(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return ""
	}
	return string(bytes.TrimSpace(value))
}
