// Package llmjson extracts JSON payloads from raw language-model
// output. Models frequently wrap their JSON in Markdown code fences or
// surround it with prose; every agent parses responses through this
// package so the handling is uniform.
package llmjson

import (
	"encoding/json"
	"strings"
)

// ParseError reports that a response could not be turned into valid
// JSON. It keeps both the original and the cleaned text for logging.
type ParseError struct {
	Original string
	Cleaned  string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "llmjson: " + e.Err.Error()
	}
	return "llmjson: response is not valid JSON"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Unmarshal cleans raw model output and unmarshals it into v. On
// failure it returns a *ParseError; it never panics on arbitrary input.
func Unmarshal(raw string, v any) error {
	cleaned := Extract(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Original: raw, Cleaned: cleaned, Err: err}
	}
	return nil
}

// Extract strips Markdown fences and surrounding prose, returning the
// best JSON candidate found in raw. When no JSON object or array is
// found, the trimmed input is returned as-is so Unmarshal can surface
// the decode error.
func Extract(raw string) string {
	s := stripFences(raw)
	if obj := firstBalanced(s, '{', '}'); obj != "" {
		return obj
	}
	if arr := firstBalanced(s, '[', ']'); arr != "" {
		return arr
	}
	return s
}

// stripFences removes a leading ```json or ``` fence and its closing
// marker. Content outside the first fenced block is dropped when a
// complete block is present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// firstBalanced returns the first balanced open..close span in s,
// respecting JSON string literals and escapes.
func firstBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// Valid reports whether s is already valid JSON.
func Valid(s string) bool {
	return json.Valid([]byte(s))
}
