package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/garygangwu/cohosting-test/populate"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderSummary(summaries []populate.Summary) string {
	headers := []string{"Sheet", "Accounts", "Fetched", "Sheet Rows", "Kept", "Updated", "Added", "Rows"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := [][]string{}
	for _, s := range summaries {
		if s.Skipped {
			rows = append(rows, []string{s.Sheet, "-", "-", "-", "-", "-", "-", "skipped"})
			continue
		}

		rows = append(rows, []string{
			s.Sheet,
			fmt.Sprintf("%d", s.Accounts),
			fmt.Sprintf("%d", s.Fetched),
			fmt.Sprintf("%d", s.SheetRows),
			fmt.Sprintf("%d", s.Kept),
			fmt.Sprintf("%d", s.Updated),
			fmt.Sprintf("%d", s.Added),
			fmt.Sprintf("%d", s.Rows),
		})
	}

	return renderTable(headers, rows, aligns)
}

// renderRows formats worksheet rows, trimmed or padded to the header width.
func renderRows(headers []string, rows [][]any) string {
	list := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(headers))
		for i := range record {
			if i < len(row) && row[i] != nil {
				record[i] = fmt.Sprintf("%v", row[i])
			}
		}

		list = append(list, record)
	}

	return renderTable(headers, list, nil)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}

		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
