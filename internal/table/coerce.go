package table

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a trimmed string is a plain signed integer or
// decimal. The whole string must match: partial matches like "12abc" stay
// text. Scientific notation is deliberately not accepted.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Coerce applies the value-coercion heuristic used for all ingested cells,
// regardless of source. The raw text is trimmed of outer whitespace; an
// empty result yields Empty, a full-string numeric parse yields Number, and
// anything else yields Text with the trimmed form.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Empty
	}
	if numericRegex.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
	}
	return Text(s)
}
