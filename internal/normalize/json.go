package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mergetab/mergetab/internal/table"
)

// normalizeJSON decodes a JSON array of objects into a Table. Keys are
// lower-cased; object key order is preserved (first seen across rows) so
// the Table's column order follows the source. Any non-object array element
// is a FormatError.
func normalizeJSON(text string) (table.Table, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return table.Table{}, formatErrorf("JSON payload must be an array of objects")
	}

	var cols []string
	seen := make(map[string]struct{})
	var rows []table.Row

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return table.Table{}, formatErrorf("array element %d is not an object", len(rows))
		}

		row := make(table.Row)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return table.Table{}, formatErrorf("array element %d has a non-string key", len(rows))
			}
			key = strings.ToLower(strings.TrimSpace(key))

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
			}

			v, err := coerceJSONValue(raw)
			if err != nil {
				return table.Table{}, err
			}
			row[key] = v
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				cols = append(cols, key)
			}
		}
		if _, err := dec.Token(); err != nil { // closing }
			return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return table.Table{}, formatErrorf("payload is not valid JSON: %v", err)
	}

	return table.Table{Columns: cols, Rows: rows}, nil
}

// coerceJSONValue maps a decoded JSON scalar onto a cell value. Strings run
// through the shared coercion heuristic; null becomes Empty; booleans keep
// their literal spelling as text; nested values keep their compact JSON
// encoding as text.
func coerceJSONValue(raw json.RawMessage) (table.Value, error) {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "null":
		return table.Empty, nil
	case s == "true" || s == "false":
		return table.Text(s), nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return table.Value{}, formatErrorf("invalid JSON string: %v", err)
		}
		return table.Coerce(str), nil
	case strings.HasPrefix(s, "{") || strings.HasPrefix(s, "["):
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return table.Value{}, formatErrorf("invalid nested JSON value: %v", err)
		}
		return table.Text(buf.String()), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return table.Value{}, formatErrorf("invalid JSON number %q", s)
		}
		return table.Number(f), nil
	}
}
