package merge

import (
	"strings"

	"github.com/mergetab/mergetab/internal/table"
)

// Classification labels how a merged cell relates to its two source rows.
type Classification int

const (
	Unchanged Classification = iota
	Added
	Revised
)

// String returns the lower-case name used in API responses.
func (c Classification) String() string {
	switch c {
	case Added:
		return "added"
	case Revised:
		return "revised"
	default:
		return "unchanged"
	}
}

// CellRef addresses one cell of the merged table by row index and column.
type CellRef struct {
	Row    int
	Column string
}

// Classify labels every cell of a merged table as Unchanged, Added, or
// Revised. It is a pure function of its four inputs and is recomputed on
// demand rather than cached, so it re-derives the key correspondence used
// during the merge instead of relying on merge-time bookkeeping.
//
// A merged row whose key matches only a secondary row is wholly new: every
// cell is Added. When both source rows match, a cell is Added when its
// column is absent from the primary row but present and non-empty in the
// secondary row, and Revised when present on both sides with a non-empty
// secondary value whose trimmed string form differs from the primary's.
// Everything else, including rows that came solely from the primary table,
// is Unchanged.
//
// Change detection compares trimmed string forms, so Number(5) and
// Text("5") count as equal here even though they are distinct merge keys.
// Key matching must be exact to avoid false merges; change detection
// tolerates representational drift between sources.
//
// Feeding a merged table that did not come from the stated source tables
// produces meaningless (but safe) labels; that consistency is the caller's
// responsibility.
func Classify(primary, secondary table.Table, key string, merged table.Table) map[CellRef]Classification {
	key = strings.ToLower(strings.TrimSpace(key))

	plookup := keyLookup(primary, key)
	slookup := keyLookup(secondary, key)

	out := make(map[CellRef]Classification)
	for i, mrow := range merged.Rows {
		var prow, srow table.Row
		if kv, ok := mrow[key]; ok {
			prow = plookup[kv]
			srow = slookup[kv]
		}

		for col := range mrow {
			out[CellRef{Row: i, Column: col}] = classifyCell(col, prow, srow)
		}
	}
	return out
}

// classifyCell labels a single merged cell given the matched source rows.
// A nil row means no source row matched the merged row's key.
func classifyCell(col string, prow, srow table.Row) Classification {
	switch {
	case prow == nil && srow == nil:
		return Unchanged
	case prow == nil:
		// The whole row is new data from the secondary table.
		return Added
	case srow == nil:
		return Unchanged
	}

	pv, pHas := prow[col]
	sv, sHas := srow[col]
	if !sHas || sv.IsEmpty() {
		return Unchanged
	}
	if !pHas {
		return Added
	}
	if trimmed(pv) != trimmed(sv) {
		return Revised
	}
	return Unchanged
}

// keyLookup indexes rows by their exact value at the key column with the
// same last-write-wins tie-break the merge uses.
func keyLookup(t table.Table, key string) map[table.Value]table.Row {
	lookup := make(map[table.Value]table.Row, t.Len())
	for _, row := range t.Rows {
		if v, ok := row[key]; ok {
			lookup[v] = row
		}
	}
	return lookup
}

func trimmed(v table.Value) string {
	return strings.TrimSpace(v.String())
}
