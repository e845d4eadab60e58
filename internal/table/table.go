// Package table defines the canonical tabular representation shared by the
// normalizer, merge engine, and diff classifier. This package has no I/O or
// UI dependencies and can be used by any frontend.
//
// A Table is an immutable value object: components that transform a Table
// always build a new one rather than mutating in place.
package table

import "strconv"

// Kind identifies the scalar kind of a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Value is a single cell value. It is a comparable struct so that exact
// value equality (kind-sensitive) can be used for merge-key lookups.
type Value struct {
	Kind Kind
	Str  string  // set when Kind == KindText
	Num  float64 // set when Kind == KindNumber
}

// Empty is the empty cell value. A row holding Empty for a column is
// distinct from a row that lacks the column entirely.
var Empty = Value{Kind: KindEmpty}

// Text returns a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// IsEmpty reports whether the value is the empty value.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String renders the value for display and export. Empty renders as empty
// text; numbers use the shortest decimal form that round-trips, so
// Number(5) renders as "5" and Number(3.5) as "3.5".
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Row maps lower-cased column names to cell values. Rows are sparse: a
// column may be absent, which is not the same as holding Empty.
type Row map[string]Value

// Clone returns a copy of the row. Updates are expressed as clone-then-set
// on the copy so the original row is never mutated.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows plus the display order of columns.
// Row order is significant: it reflects source order and determines merge
// precedence. Columns lists every column name in first-seen order; rows
// need not share the same column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// AllColumns unions column names across the supplied tables. Order is
// first-seen across tables in argument order, then per-table column order.
// Used by export collaborators to build a stable header list.
func AllColumns(tables ...Table) []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}
