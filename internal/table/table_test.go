package table

import (
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// Coercion
// ----------------------------------------------------------------------------

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{name: "plain integer", raw: "42", want: Number(42)},
		{name: "decimal", raw: "3.5", want: Number(3.5)},
		{name: "leading dot", raw: ".5", want: Number(0.5)},
		{name: "trailing dot", raw: "7.", want: Number(7)},
		{name: "negative", raw: "-12", want: Number(-12)},
		{name: "explicit plus", raw: "+12", want: Number(12)},
		{name: "surrounding whitespace number", raw: "  42  ", want: Number(42)},
		{name: "partial numeric stays text", raw: "12abc", want: Text("12abc")},
		{name: "scientific notation stays text", raw: "1e3", want: Text("1e3")},
		{name: "lone sign stays text", raw: "-", want: Text("-")},
		{name: "lone dot stays text", raw: ".", want: Text(".")},
		{name: "internal space stays text", raw: "1 2", want: Text("1 2")},
		{name: "plain text", raw: "hello", want: Text("hello")},
		{name: "text is trimmed", raw: "  hello  ", want: Text("hello")},
		{name: "empty", raw: "", want: Empty},
		{name: "whitespace only", raw: "   \t ", want: Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.raw)
			if got != tt.want {
				t.Errorf("Coerce(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Value rendering
// ----------------------------------------------------------------------------

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "whole number has no decimal point", v: Number(5), want: "5"},
		{name: "decimal keeps shortest form", v: Number(3.5), want: "3.5"},
		{name: "negative", v: Number(-0.25), want: "-0.25"},
		{name: "text passes through", v: Text("abc"), want: "abc"},
		{name: "empty renders as empty text", v: Empty, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueEquality(t *testing.T) {
	// Value is comparable; a number and its textual form are distinct.
	if Number(5) == Text("5") {
		t.Error("Number(5) should not equal Text(\"5\")")
	}
	if Number(5) != Number(5) {
		t.Error("equal numbers should compare equal")
	}
	if Text("a") != Text("a") {
		t.Error("equal texts should compare equal")
	}
	if !Empty.IsEmpty() || Text("").IsEmpty() {
		t.Error("IsEmpty should be true only for the empty value")
	}
}

// ----------------------------------------------------------------------------
// Rows and tables
// ----------------------------------------------------------------------------

func TestRowClone(t *testing.T) {
	orig := Row{"a": Number(1), "b": Text("x")}
	clone := orig.Clone()
	clone["a"] = Number(2)
	clone["c"] = Text("new")

	if orig["a"] != Number(1) {
		t.Errorf("original mutated: a = %v", orig["a"])
	}
	if _, ok := orig["c"]; ok {
		t.Error("original gained key from clone")
	}
}

func TestAllColumns(t *testing.T) {
	t1 := Table{Columns: []string{"id", "name"}}
	t2 := Table{Columns: []string{"name", "score", "id", "notes"}}

	got := AllColumns(t1, t2)
	want := []string{"id", "name", "score", "notes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllColumns = %v, want %v", got, want)
	}
}

func TestAllColumns_Empty(t *testing.T) {
	if got := AllColumns(); got != nil {
		t.Errorf("AllColumns() = %v, want nil", got)
	}
}

// ----------------------------------------------------------------------------
// Canonical JSON encoding
// ----------------------------------------------------------------------------

func TestTableMarshalJSON(t *testing.T) {
	tbl := Table{
		Columns: []string{"id", "name", "score"},
		Rows: []Row{
			{"id": Number(1), "name": Text("ada"), "score": Number(3.5)},
			{"id": Number(2), "name": Empty}, // score absent entirely
		},
	}

	got, err := tbl.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error = %v", err)
	}
	want := `[{"id":1,"name":"ada","score":3.5},{"id":2,"name":""}]`
	if string(got) != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestTableMarshalJSON_EmptyTable(t *testing.T) {
	got, err := Table{Columns: []string{"a"}}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("MarshalJSON = %s, want []", got)
	}
}
