package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// column is a table header with its alignment and an optional width cap
type column struct {
	title    string
	align    columnAlignment
	maxWidth int
}

func renderTable(w io.Writer, columns []column, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c.title
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		align := text.AlignLeft
		if c.align == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    c.maxWidth,
		})
	}
	tw.SetColumnConfigs(configs)

	fmt.Fprintln(w, tw.Render())
}
