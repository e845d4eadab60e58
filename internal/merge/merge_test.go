package merge

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mergetab/mergetab/internal/table"
)

func row(pairs ...any) table.Row {
	r := make(table.Row, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		r[pairs[i].(string)] = pairs[i+1].(table.Value)
	}
	return r
}

// ----------------------------------------------------------------------------
// Merge
// ----------------------------------------------------------------------------

func TestMerge_OverlayAndAppend(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id", "name", "score"},
		Rows: []table.Row{
			row("id", table.Number(1), "name", table.Text("Ada"), "score", table.Number(10)),
			row("id", table.Number(2), "name", table.Text("Grace"), "score", table.Number(20)),
		},
	}
	secondary := table.Table{
		Columns: []string{"id", "score", "notes"},
		Rows: []table.Row{
			row("id", table.Number(2), "score", table.Number(25), "notes", table.Text("updated")),
			row("id", table.Number(3), "score", table.Number(30), "notes", table.Text("new")),
		},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	wantCols := []string{"id", "name", "score", "notes"}
	if !reflect.DeepEqual(got.Table.Columns, wantCols) {
		t.Fatalf("Columns = %v, want %v", got.Table.Columns, wantCols)
	}
	if got.Table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Table.Len())
	}

	// Row 0: unmatched primary row passes through untouched.
	if !reflect.DeepEqual(got.Table.Rows[0], primary.Rows[0]) {
		t.Errorf("row0 = %v, want original primary row", got.Table.Rows[0])
	}

	// Row 1: matched, secondary values overlay.
	r1 := got.Table.Rows[1]
	if r1["score"] != table.Number(25) {
		t.Errorf("row1 score = %#v, want Number(25)", r1["score"])
	}
	if r1["name"] != table.Text("Grace") {
		t.Errorf("row1 name = %#v, primary-only column must survive", r1["name"])
	}
	if r1["notes"] != table.Text("updated") {
		t.Errorf("row1 notes = %#v, want secondary column added", r1["notes"])
	}

	// Row 2: unmatched secondary row appended.
	r2 := got.Table.Rows[2]
	if r2["id"] != table.Number(3) || r2["notes"] != table.Text("new") {
		t.Errorf("row2 = %v, want appended secondary row", r2)
	}

	if !reflect.DeepEqual(got.FromPrimary, []bool{true, true, false}) {
		t.Errorf("FromPrimary = %v", got.FromPrimary)
	}
	if !reflect.DeepEqual(got.SecondaryIndex, []int{-1, 0, 1}) {
		t.Errorf("SecondaryIndex = %v", got.SecondaryIndex)
	}
}

func TestMerge_EmptyNeverOverwrites(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id", "name"},
		Rows:    []table.Row{row("id", table.Number(1), "name", table.Text("Ada"))},
	}
	secondary := table.Table{
		Columns: []string{"id", "name", "extra"},
		Rows: []table.Row{
			row("id", table.Number(1), "name", table.Empty, "extra", table.Empty),
		},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	r := got.Table.Rows[0]
	if r["name"] != table.Text("Ada") {
		t.Errorf("name = %#v, empty secondary must not erase it", r["name"])
	}
	// A column the primary lacked entirely is filled with Empty.
	if v, ok := r["extra"]; !ok || v != table.Empty {
		t.Errorf("extra = %#v (present=%v), want Empty fill", v, ok)
	}
}

func TestMerge_KeyColumnKeepsPrimaryValue(t *testing.T) {
	// Secondary rows never overwrite the key cell, even with a non-empty
	// value, since the key is what matched.
	primary := table.Table{
		Columns: []string{"id"},
		Rows:    []table.Row{row("id", table.Text("x"))},
	}
	secondary := table.Table{
		Columns: []string{"id"},
		Rows:    []table.Row{row("id", table.Text("x"))},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}
	if got.Table.Rows[0]["id"] != table.Text("x") {
		t.Errorf("id = %#v", got.Table.Rows[0]["id"])
	}
	if got.Table.Len() != 1 {
		t.Errorf("Len = %d, matched secondary row must not be appended", got.Table.Len())
	}
}

func TestMerge_DuplicateSecondaryKeysLastWins(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Number(1), "v", table.Text("old"))},
	}
	secondary := table.Table{
		Columns: []string{"id", "v"},
		Rows: []table.Row{
			row("id", table.Number(1), "v", table.Text("first")),
			row("id", table.Number(1), "v", table.Text("second")),
		},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	// Both duplicate rows are absorbed by the single match: one output row
	// carrying the value of the later duplicate.
	if got.Table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", got.Table.Len())
	}
	if got.Table.Rows[0]["v"] != table.Text("second") {
		t.Errorf("v = %#v, want later duplicate", got.Table.Rows[0]["v"])
	}
}

func TestMerge_KeyEqualityIsExact(t *testing.T) {
	// Number(5) and Text("5") print alike but are distinct key values.
	primary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Number(5), "v", table.Text("p"))},
	}
	secondary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Text("5"), "v", table.Text("s"))},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}
	if got.Table.Len() != 2 {
		t.Fatalf("Len = %d, want 2: no match across kinds", got.Table.Len())
	}
	if got.Table.Rows[0]["v"] != table.Text("p") {
		t.Errorf("primary row touched: %v", got.Table.Rows[0])
	}
}

func TestMerge_RowsMissingKeyColumn(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id", "v"},
		Rows: []table.Row{
			row("v", table.Text("no key here")),
			row("id", table.Number(1), "v", table.Text("p")),
		},
	}
	secondary := table.Table{
		Columns: []string{"id", "v"},
		Rows: []table.Row{
			row("v", table.Text("keyless secondary")),
			row("id", table.Number(1), "v", table.Text("s")),
		},
	}

	got, err := Merge(primary, secondary, "id")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	// Keyless primary row passes through; keyless secondary row is
	// unmatched and appended.
	if got.Table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Table.Len())
	}
	if got.Table.Rows[0]["v"] != table.Text("no key here") {
		t.Errorf("row0 = %v", got.Table.Rows[0])
	}
	if got.Table.Rows[1]["v"] != table.Text("s") {
		t.Errorf("row1 v = %#v, want overlay applied", got.Table.Rows[1]["v"])
	}
	if got.Table.Rows[2]["v"] != table.Text("keyless secondary") {
		t.Errorf("row2 = %v", got.Table.Rows[2])
	}
}

func TestMerge_SourcesNotMutated(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Number(1), "v", table.Text("p"))},
	}
	secondary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Number(1), "v", table.Text("s"))},
	}

	if _, err := Merge(primary, secondary, "id"); err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	if primary.Rows[0]["v"] != table.Text("p") {
		t.Errorf("primary mutated: %v", primary.Rows[0])
	}
	if secondary.Rows[0]["v"] != table.Text("s") {
		t.Errorf("secondary mutated: %v", secondary.Rows[0])
	}
}

func TestMerge_KeyNormalized(t *testing.T) {
	primary := table.Table{
		Columns: []string{"id"},
		Rows:    []table.Row{row("id", table.Number(1))},
	}
	secondary := table.Table{
		Columns: []string{"id", "v"},
		Rows:    []table.Row{row("id", table.Number(1), "v", table.Text("s"))},
	}

	got, err := Merge(primary, secondary, "  ID ")
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}
	if got.Table.Rows[0]["v"] != table.Text("s") {
		t.Errorf("v = %#v, key should be trimmed and lower-cased", got.Table.Rows[0]["v"])
	}
}

func TestMerge_Errors(t *testing.T) {
	filled := table.Table{
		Columns: []string{"id"},
		Rows:    []table.Row{row("id", table.Number(1))},
	}
	empty := table.Table{Columns: []string{"id"}}

	tests := []struct {
		name      string
		primary   table.Table
		secondary table.Table
		key       string
	}{
		{name: "blank key", primary: filled, secondary: filled, key: "   "},
		{name: "empty primary", primary: empty, secondary: filled, key: "id"},
		{name: "empty secondary", primary: filled, secondary: empty, key: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Merge(tt.primary, tt.secondary, tt.key)
			var mergeErr *MergeError
			if !errors.As(err, &mergeErr) {
				t.Errorf("Merge error = %v, want *MergeError", err)
			}
		})
	}
}
