package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable writes rows under headers as a rounded table. Columns listed
// in right are right aligned, the text column wraps at wrapAt when positive.
func renderTable(w io.Writer, headers []string, rows [][]string, right []int, wrapAt int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		col := table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		for _, n := range right {
			if n == i {
				col.Align = text.AlignRight
			}
		}
		if wrapAt > 0 {
			col.WidthMax = wrapAt
			col.WidthMaxEnforcer = text.WrapSoft
		}
		configs = append(configs, col)
	}
	tw.SetColumnConfigs(configs)

	tw.Render()
}
