package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/trackset/internal/models"
)

const maxCellWidth = 32

// truncate flattens newlines and shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

// RenderPreview renders the first n rows of a dataset as a bordered table followed by its shape.
func RenderPreview(ds *models.Dataset, n int) string {
	rows, cols := ds.Shape()
	shape := Styles.Help(fmt.Sprintf("[%d rows x %d columns]", rows, cols))
	if rows == 0 {
		return "Empty dataset\n" + shape
	}
	if n <= 0 || n > rows {
		n = rows
	}

	data := ds.Rows()[:n]
	cells := make([][]string, 0, n)
	for _, row := range data {
		cut := make([]string, len(row))
		for i, v := range row {
			cut[i] = truncate(v, maxCellWidth)
		}
		cells = append(cells, cut)
	}

	header := NewBold("#7D56F4").Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(NewStyle("#626262")).
		Headers(ds.Columns()...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return t.Render() + "\n" + shape
}
