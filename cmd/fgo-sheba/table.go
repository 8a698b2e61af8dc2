package main

import (
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

// renderTable renders rows with rounded borders. Columns listed in
// numeric are right-aligned with a left-aligned header.
func renderTable(headers table.Row, rows []table.Row, numeric ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(headers)
	tw.AppendRows(rows)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, col := range numeric {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// categoryRows turns per-category counts into sorted table rows with a
// trailing total. Empty categories are omitted.
func categoryRows(counts map[corpus.Category]int64, total int64) []table.Row {
	cats := make([]corpus.Category, 0, len(counts))
	for cat, n := range counts {
		if n > 0 {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	rows := make([]table.Row, 0, len(cats)+1)
	for _, cat := range cats {
		rows = append(rows, table.Row{cat, counts[cat]})
	}
	rows = append(rows, table.Row{"total", total})
	return rows
}

// isTTY reports whether f is an interactive terminal.
func isTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
