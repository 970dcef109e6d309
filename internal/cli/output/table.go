package output

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
)

func newTable(cols []string, rows []core.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	// Column names are case-sensitive identifiers.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(table.Row, len(cols))
		for i, col := range cols {
			v, _ := row.Get(col)
			out[i] = FormatValue(v)
		}
		t.AppendRow(out)
	}
	return t
}

// Columns returns the union of row keys, sorted.
func Columns(rows []core.Row) []string {
	seen := map[string]bool{}
	var cols []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
