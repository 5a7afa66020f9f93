package extractor

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// columnGap is the horizontal distance (in PDF points) between the end
// of one word and the start of the next that separates table columns.
const columnGap = 12.0

// minTableRows is the minimum number of consecutive multi-cell rows
// that count as a table rather than incidental spacing.
const minTableRows = 2

// detectTables reconstructs tables from positioned word rows. A row
// splits into cells wherever a large horizontal gap appears; runs of
// consecutive multi-cell rows become one table.
func detectTables(pageNum int, rows [][]pdf.Text) []Table {
	var tables []Table
	var current [][]string

	flush := func() {
		if len(current) >= minTableRows {
			tables = append(tables, Table{Page: pageNum, Rows: rectangular(current)})
		}
		current = nil
	}

	for _, row := range rows {
		cells := splitCells(row)
		if len(cells) >= 2 {
			current = append(current, cells)
		} else {
			flush()
		}
	}
	flush()

	return tables
}

// splitCells groups a row's words into cells on horizontal gaps.
func splitCells(row []pdf.Text) []string {
	var cells []string
	var cell []string
	var prevEnd float64

	for i, word := range row {
		if i > 0 && word.X-prevEnd > columnGap {
			cells = append(cells, strings.Join(cell, " "))
			cell = nil
		}
		cell = append(cell, word.S)
		prevEnd = word.X + word.W
	}
	if len(cell) > 0 {
		cells = append(cells, strings.Join(cell, " "))
	}
	return cells
}

// rectangular pads ragged rows with empty cells so every row has the
// same width.
func rectangular(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
