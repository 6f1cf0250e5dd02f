package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Table renders query results in a bordered ASCII grid.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) Header(headers []string) {
	t.headers = headers
}

func (t *Table) Row(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the formatted table.
func (t *Table) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	widths := t.columnWidths()

	var sep strings.Builder
	sep.WriteByte('+')
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteByte('+')
	}
	separator := sep.String()

	fmt.Fprintln(t.writer, separator)
	if len(t.headers) > 0 {
		t.writeRow(t.headers, widths)
		fmt.Fprintln(t.writer, separator)
	}
	for _, row := range t.rows {
		t.writeRow(row, widths)
	}
	fmt.Fprintln(t.writer, separator)
}

func (t *Table) columnWidths() []int {
	numCols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	// every column at least one char wide
	widths := make([]int, numCols)
	for i := range widths {
		widths[i] = 1
	}
	measure := func(row []string) {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) writeRow(row []string, widths []int) {
	var b strings.Builder
	b.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		fmt.Fprintf(&b, " %-*s |", w, cell)
	}
	fmt.Fprintln(t.writer, b.String())
}

// formatRow renders a result row's cells for display. NULL shows as NULL.
func formatRow(row []any) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = formatCell(v)
	}
	return cells
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
