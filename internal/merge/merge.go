// Package merge reconciles two canonical tables into one, keyed on a chosen
// column, and classifies each merged cell against its source rows. Both
// operations are pure functions over immutable tables: callers may invoke
// them concurrently without locking.
//
// Column names entering this package must already be lower-cased; the
// normalizer guarantees that for ingested data and the merge key is
// normalized here as a convenience.
package merge

import (
	"strings"

	"github.com/mergetab/mergetab/internal/table"
)

// MergeError reports an unusable merge request: a missing key or an empty
// source table.
type MergeError struct {
	Reason string
}

func (e *MergeError) Error() string {
	return "merge: " + e.Reason
}

// Result is the output of Merge: the merged table plus, per output row, the
// bookkeeping the diff layer and callers need about which source rows
// backed it.
type Result struct {
	Table table.Table

	// FromPrimary reports, per output row, whether a primary row backed it.
	// The first primary-table-length entries are always true.
	FromPrimary []bool

	// SecondaryIndex is, per output row, the index of the secondary row
	// merged into or appended as that row, or -1 when the row came solely
	// from the primary table.
	SecondaryIndex []int
}

// Merge joins secondary into primary on the given key column.
//
// Secondary rows are indexed by their exact value at the key column; when
// secondary holds duplicate key values the later row wins, which is a
// deliberate tie-break rather than an error. Primary rows are emitted in
// order: a matched row starts from the primary columns and overlays every
// non-empty secondary column except the key column, so an empty secondary
// value never erases primary data and the output key cell always carries
// the primary value. Secondary rows whose key value never matched are
// appended afterwards in their original order.
//
// Key matching uses exact value equality: Number(5) and Text("5") are
// distinct keys even though they print alike.
func Merge(primary, secondary table.Table, key string) (Result, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Result{}, &MergeError{Reason: "no merge key selected"}
	}
	if primary.IsEmpty() || secondary.IsEmpty() {
		return Result{}, &MergeError{Reason: "both tables need at least one row"}
	}

	// Last write wins for duplicate key values.
	lookup := make(map[table.Value]int, secondary.Len())
	for i, row := range secondary.Rows {
		if v, ok := row[key]; ok {
			lookup[v] = i
		}
	}

	matched := make(map[table.Value]struct{})
	rows := make([]table.Row, 0, primary.Len())
	fromPrimary := make([]bool, 0, primary.Len())
	secondaryIndex := make([]int, 0, primary.Len())

	for _, prow := range primary.Rows {
		out := prow.Clone()
		backing := -1
		if kv, ok := prow[key]; ok {
			if j, hit := lookup[kv]; hit {
				backing = j
				matched[kv] = struct{}{}
				for col, sv := range secondary.Rows[j] {
					if col == key {
						continue
					}
					if sv.IsEmpty() {
						// Empty never overwrites; it only fills a column
						// the primary row did not have at all.
						if _, exists := out[col]; !exists {
							out[col] = table.Empty
						}
						continue
					}
					out[col] = sv
				}
			}
		}
		rows = append(rows, out)
		fromPrimary = append(fromPrimary, true)
		secondaryIndex = append(secondaryIndex, backing)
	}

	for j, srow := range secondary.Rows {
		if kv, ok := srow[key]; ok {
			if _, hit := matched[kv]; hit {
				continue
			}
		}
		rows = append(rows, srow.Clone())
		fromPrimary = append(fromPrimary, false)
		secondaryIndex = append(secondaryIndex, j)
	}

	return Result{
		Table:          table.Table{Columns: table.AllColumns(primary, secondary), Rows: rows},
		FromPrimary:    fromPrimary,
		SecondaryIndex: secondaryIndex,
	}, nil
}
