package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^\\s*```[A-Za-z0-9_+-]*[ \\t]*\\n?")
	closingFence = regexp.MustCompile("\\n?[ \\t]*```\\s*$")
	arraySpan    = regexp.MustCompile(`(?s)\[.*\]`)
)

// Sanitize turns a model response into text that is likely to parse as a
// JSON array. It strips markdown code fences, keeps the span from the first
// '[' to the last ']', and drops commas directly before a closing bracket
// or brace when the text does not already parse. Commas inside string
// literals are kept. It is best effort; the output may still fail to parse.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")

	if span := arraySpan.FindString(s); span != "" {
		s = span
	}

	return strings.TrimSpace(repairCommas(s))
}

// repairCommas removes commas that directly precede a closing bracket or
// brace outside string literals. Valid JSON is returned unchanged.
func repairCommas(s string) string {
	if json.Valid([]byte(s)) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
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
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
