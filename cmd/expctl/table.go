package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of a CLI table. Empty cells render as
// Placeholder.
type tableColumn struct {
	Header      string
	Align       text.Align
	Placeholder string
}

var experimentListColumns = []tableColumn{
	{Header: "Id"},
	{Header: "StartTime", Align: text.AlignRight},
}

var trialColumns = []tableColumn{
	{Header: "ID"},
	{Header: "Status", Align: text.AlignCenter},
	{Header: "Start", Align: text.AlignRight, Placeholder: "-"},
	{Header: "End", Align: text.AlignRight, Placeholder: "-"},
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		align := col.Align
		if align == text.AlignDefault {
			align = text.AlignLeft
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if cell == "" {
				cell = col.Placeholder
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
