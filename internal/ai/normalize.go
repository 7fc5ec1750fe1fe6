package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencePrefixes = []string{"```json", "```"}
	objectSpan    = regexp.MustCompile(`(?s)\{.*\}`)

	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// StripFences removes a leading ``` or ```json fence and everything from the closing fence on.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	for _, prefix := range fencePrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		text = text[len(prefix):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		break
	}
	return strings.TrimSpace(text)
}

// RepairTrailingCommas drops a comma that directly precedes a closing brace or bracket.
// It is a single fixed pass and the only repair the normalizer attempts.
func RepairTrailingCommas(s string) string {
	s = trailingCommaObject.ReplaceAllString(s, "}")
	return trailingCommaArray.ReplaceAllString(s, "]")
}

// Normalize turns raw completion text into a valid JSON document.
// Failure after the repair pass yields a *ParseError holding raw.
func Normalize(raw string) (json.RawMessage, error) {
	text := StripFences(raw)
	if span := objectSpan.FindString(text); span != "" {
		text = span
	}

	firstErr := validate(text)
	if firstErr == nil {
		return json.RawMessage(text), nil
	}

	repaired := RepairTrailingCommas(text)
	if repaired == text {
		return nil, &ParseError{Raw: raw, Err: firstErr}
	}
	if err := validate(repaired); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return json.RawMessage(repaired), nil
}

// Decode normalizes raw and unmarshals it into v.
func Decode(raw string, v any) error {
	doc, err := Normalize(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}

func validate(text string) error {
	var probe json.RawMessage
	return json.Unmarshal([]byte(text), &probe)
}
