// Package normalize converts raw tabular payloads into the canonical
// table.Table representation. Inputs are explicit tagged variants (JSON
// text, CSV text, freeform pasted text, or an already-decoded rectangular
// grid) so that format sniffing happens once at the adapter boundary
// rather than speculatively inside the parsers.
//
// All column names are lower-cased on ingestion and every cell passes
// through the table.Coerce heuristic. A failed call returns a FormatError
// and leaves nothing partially applied.
package normalize

import (
	"fmt"
	"strings"

	"github.com/mergetab/mergetab/internal/table"
)

// FormatError reports a payload that is neither a JSON array of objects nor
// a rectangular grid with a header row.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid input format: " + e.Reason
}

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

type sourceKind int

const (
	sourceJSON sourceKind = iota
	sourceCSV
	sourcePasted
	sourceGrid
)

// Input is a tagged raw payload. Build one with JSON, CSV, Pasted, or Grid.
type Input struct {
	kind sourceKind
	text string
	grid [][]string
}

// JSON wraps text expected to be a JSON array of objects.
func JSON(text string) Input {
	return Input{kind: sourceJSON, text: text}
}

// CSV wraps comma-separated text with a header line.
func CSV(text string) Input {
	return Input{kind: sourceCSV, text: text}
}

// Pasted wraps freeform pasted text. If the trimmed payload starts with
// "[" the JSON path is tried first and a parse failure falls back silently
// to delimited text (tab-separated if the header line contains a tab,
// otherwise comma-separated).
func Pasted(text string) Input {
	return Input{kind: sourcePasted, text: text}
}

// Grid wraps an already-decoded rectangular grid, such as a spreadsheet
// sheet. The first row is the header.
func Grid(rows [][]string) Input {
	return Input{kind: sourceGrid, grid: rows}
}

// Normalize converts a raw payload into a canonical Table.
//
// A grid or delimited payload with only a header row yields an empty Table,
// not an error; a payload with no header row at all is a FormatError.
func Normalize(in Input) (table.Table, error) {
	switch in.kind {
	case sourceJSON:
		return normalizeJSON(in.text)
	case sourceCSV:
		return normalizeCSV(in.text)
	case sourcePasted:
		return normalizePasted(in.text)
	case sourceGrid:
		return normalizeGrid(in.grid)
	default:
		return table.Table{}, formatErrorf("unknown input kind")
	}
}

func normalizePasted(text string) (table.Table, error) {
	if strings.HasPrefix(strings.TrimSpace(text), "[") {
		if t, err := normalizeJSON(text); err == nil {
			return t, nil
		}
		// Not valid JSON after all; fall through to the delimited path.
	}
	return normalizeDelimited(text)
}
