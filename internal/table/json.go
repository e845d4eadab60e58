package table

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// MarshalJSON encodes the value in its canonical JSON form: Empty as "",
// Number as a JSON number, Text as a JSON string. Re-normalizing the
// encoding yields the original value, since the coercion heuristic is the
// identity on canonical content.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	case KindText:
		return json.Marshal(v.Str)
	default:
		return []byte(`""`), nil
	}
}

// MarshalJSON encodes the table as a JSON array of objects. Object keys
// follow the table's column order; columns absent from a row are omitted
// from its object, preserving the sparse-vs-empty distinction.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		for _, col := range t.Columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
