package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// column is one table column; numeric columns (pixels, counts) are
// right-aligned.
type column struct {
	title   string
	numeric bool
}

var (
	sectionColumns = []column{
		{title: "Start"}, {title: "End"}, {title: "Months/Anchor", numeric: true},
		{title: "Start px", numeric: true}, {title: "px/Month", numeric: true},
	}
	navColumns = []column{{title: "Date"}, {title: "Now"}, {title: "Location"}, {title: "Anchor"}}
	rowColumns = []column{
		{title: "Row"}, {title: "Start"}, {title: "End"},
		{title: "x", numeric: true}, {title: "Width", numeric: true}, {title: "Subitems", numeric: true},
	}
	checkColumns        = []column{{title: "Check"}, {title: "Status"}, {title: "Detail"}}
	notificationColumns = []column{
		{title: "#", numeric: true}, {title: "Row"}, {title: "Date"}, {title: "Whom"}, {title: "Text"}, {title: "State"},
	}
)

// numbers groups thousands in pixel columns ("12,480").
var numbers = message.NewPrinter(language.English)

func formatInt(v int) string {
	return numbers.Sprintf("%d", v)
}

// renderTable draws rows under columns. Short rows are padded with blanks.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
