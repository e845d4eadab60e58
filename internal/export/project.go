// Package export projects canonical tables into the flat row shape export
// collaborators serialize. The encoding itself (CSV, JSON, spreadsheet) is
// up to the consumer; this package only fixes the (table, columns) -> rows
// projection.
package export

import "github.com/mergetab/mergetab/internal/table"

// Project renders each row of t against the supplied ordered column list.
// For every row, in column order, the cell's string form is emitted when
// the column is present and empty text otherwise, so missing values and
// empty values serialize identically.
func Project(t table.Table, columns []string) [][]string {
	rows := make([][]string, 0, t.Len())
	for _, row := range t.Rows {
		rec := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok {
				rec[i] = v.String()
			}
		}
		rows = append(rows, rec)
	}
	return rows
}
