package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// decodeResults parses a model reply into exactly want results
func decodeResults(text string, want int) ([]TranslationResult, error) {
	cleaned := cleanJSONResponse(text)

	results, err := extractTranslationResults(cleaned)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(cleaned, 200),
		)
	}

	if len(results) != want {
		return nil, fmt.Errorf("expected %d results, got %d", want, len(results))
	}

	return results, nil
}

var fenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// strips markdown code fences from a model reply
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = fenceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// fixInvalidEscapes rewrites escape sequences JSON does not know, like the
// \N subtitle newline, to escaped backslashes so the literal survives parsing
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(next)
			default:
				result.WriteString("\\\\")
				result.WriteByte(next)
			}
			i += 2
		} else {
			result.WriteByte(s[i])
			i++
		}
	}

	return result.String()
}

// extractTranslationResults digs the result array out of a reply that may
// bury it in prose or wrap it in an object
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		if results, ok := resultsFromValue(raw); ok {
			return results, nil
		}
	}

	return nil, fmt.Errorf("no valid translation JSON found in response")
}

// well-known wrapper keys checked before falling back to every value
var wrapperKeys = []string{"results", "translations", "data", "items"}

// tries a raw JSON value as a result array, descending into wrapper objects
func resultsFromValue(raw json.RawMessage) ([]TranslationResult, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	switch raw[0] {
	case '[':
		var results []TranslationResult
		if err := json.Unmarshal(raw, &results); err == nil && validateResults(results) {
			return results, true
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		for _, key := range wrapperKeys {
			if value, exists := obj[key]; exists {
				if results, ok := resultsFromValue(value); ok {
					return results, true
				}
			}
		}
		for _, value := range obj {
			if results, ok := resultsFromValue(value); ok {
				return results, true
			}
		}
	}

	return nil, false
}

// reports whether at least one result carries translated text
func validateResults(results []TranslationResult) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

// truncates a string for error messages
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
