package normalize

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/mergetab/mergetab/internal/table"
)

// normalizeCSV parses comma-separated text with full quote handling. The
// first record is the header; records may have ragged field counts.
func normalizeCSV(text string) (table.Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Table{}, formatErrorf("malformed CSV: %v", err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return table.Table{}, formatErrorf("CSV payload has no header row")
	}
	return buildGrid(records[0], records[1:])
}

// normalizeDelimited parses pasted grid text. The separator is sniffed from
// the header line: tab when one is present, otherwise a literal comma. No
// quote handling is applied; pasted grids carry none.
func normalizeDelimited(text string) (table.Table, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return table.Table{}, formatErrorf("pasted text has no header row")
	}

	sep := ","
	if strings.Contains(lines[0], "\t") {
		sep = "\t"
	}

	header := strings.Split(lines[0], sep)
	data := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		data = append(data, strings.Split(line, sep))
	}
	return buildGrid(header, data)
}

// normalizeGrid converts a rectangular grid (such as a spreadsheet sheet)
// into a Table. The first row is the header. Cells a sheet reader reports
// as missing arrive as empty strings, so sparse-vs-missing semantics match
// CSV ingestion: every header column is present on every row.
func normalizeGrid(rows [][]string) (table.Table, error) {
	if len(rows) == 0 {
		return table.Table{}, formatErrorf("grid has no header row")
	}
	return buildGrid(rows[0], rows[1:])
}

// buildGrid assembles a Table from a header row and data rows. Header cells
// are trimmed and lower-cased; a header cell that trims to nothing is
// dropped along with its column. Data rows shorter than the header yield
// Empty for the missing trailing columns; extra trailing fields are
// dropped.
func buildGrid(header []string, data [][]string) (table.Table, error) {
	type column struct {
		name string
		pos  int
	}
	var cols []column
	var names []string
	seen := make(map[string]struct{})
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		cols = append(cols, column{name: name, pos: i})
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	if len(cols) == 0 {
		return table.Table{}, formatErrorf("header row has no usable column names")
	}

	rows := make([]table.Row, 0, len(data))
	for _, rec := range data {
		row := make(table.Row, len(cols))
		for _, c := range cols {
			if c.pos < len(rec) {
				row[c.name] = table.Coerce(rec[c.pos])
			} else {
				row[c.name] = table.Empty
			}
		}
		rows = append(rows, row)
	}

	return table.Table{Columns: names, Rows: rows}, nil
}

// splitLines splits text into lines, tolerating CRLF endings and skipping
// lines that are entirely blank.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
