package jsonutil

import (
	"encoding/json"
	"strings"
)

// Clean extracts the JSON payload from a free-text model response. Responses are
// frequently wrapped in fenced code blocks (```json ... ``` or bare ``` ... ```);
// the first fenced block wins. Clean never fails: if no fence is found the input
// is returned trimmed.
func Clean(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

// Repair applies two heuristics for the most common malformed-JSON output:
//
//  1. A line with an odd number of unescaped quotes has lost a closing quote;
//     one is appended at the end of the line.
//  2. A raw newline while inside a string literal is invalid JSON; it is
//     rewritten to a space.
//
// Repair is best effort and never fails; callers still must handle a parse
// failure on the result.
func Repair(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if countQuotes(line)%2 == 1 {
			lines[i] = line + `"`
		}
	}
	s = strings.Join(lines, "\n")

	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inString:
			escaped = true
		case r == '"':
			inString = !inString
		case r == '\n' && inString:
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnmarshalLenient parses a raw model response into v: clean first, and if strict
// parsing fails, repair and try once more.
func UnmarshalLenient(raw string, v any) error {
	cleaned := Clean(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	repaired := Repair(cleaned)
	return json.Unmarshal([]byte(repaired), v)
}

// countQuotes counts unescaped double quotes in a single line.
func countQuotes(line string) int {
	n := 0
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			n++
		}
	}
	return n
}
