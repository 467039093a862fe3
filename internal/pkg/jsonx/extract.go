// Package jsonx pulls structured data out of LLM output. Models wrap JSON
// in markdown fences, prose, or emit Python-style dicts with single quotes;
// Extract and ParseObject tolerate all of these.
package jsonx

import (
	"encoding/json"
	"strings"
)

// Extract returns the best-guess JSON substring of text. It strips markdown
// code fences, then takes the leftmost '{' through the rightmost '}'. The
// result is a heuristic candidate, not validated; callers must parse it.
// Input without braces comes back trimmed and unchanged.
func Extract(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// ParseKind reports which parser accepted the input.
type ParseKind int

const (
	ParseStrict ParseKind = iota
	ParseLoose
)

// ParseObject decodes text into a JSON-like object. Strict JSON is attempted
// first; only when it fails does the loose Python-literal grammar run, so
// valid JSON is never reinterpreted by the looser parser.
func ParseObject(text string) (map[string]interface{}, ParseKind, error) {
	var strict map[string]interface{}
	if err := json.Unmarshal([]byte(text), &strict); err == nil {
		return strict, ParseStrict, nil
	}
	value, err := parseLiteral(text)
	if err != nil {
		return nil, ParseLoose, err
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, ParseLoose, errUnexpectedValue
	}
	return obj, ParseLoose, nil
}
