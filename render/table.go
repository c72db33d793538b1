package render

import (
	"encoding/csv"
	"strings"

	"github.com/tsawler/trp/model"
)

// TableGrid lays the table out as rows of cell texts. A merged cell's text
// appears at its starting position only; the other positions it covers and
// gaps in the grid are empty.
func TableGrid(t *model.Table) [][]string {
	rows := make([][]string, t.RowCount())
	for r := 1; r <= t.RowCount(); r++ {
		row := make([]string, t.ColumnCount())
		for c := 1; c <= t.ColumnCount(); c++ {
			cell := t.CellAt(r, c, false)
			if cell == nil {
				continue
			}
			if cell.RowIndex() == r && cell.ColumnIndex() == c {
				row[c-1] = cell.Text()
			}
		}
		rows[r-1] = row
	}
	return rows
}

// TableMarkdown converts the table to markdown format. The first row is
// used as the header row.
func TableMarkdown(t *model.Table) string {
	rows := TableGrid(t)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, text := range row {
			sb.WriteString("| ")
			sb.WriteString(markdownCell(text))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	// Header row
	writeRow(rows[0])

	// Separator
	for range rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

func markdownCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", `\|`)
}

// TableCSV converts the table to CSV format
func TableCSV(t *model.Table) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(TableGrid(t)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Markdown renders a page as markdown: lines as paragraphs, tables as
// markdown tables and fields as "**key** value" entries, in block order
func Markdown(p *model.Page) string {
	var parts []string
	for _, e := range p.Content() {
		switch v := e.(type) {
		case *model.Table:
			if md := TableMarkdown(v); md != "" {
				parts = append(parts, strings.TrimSuffix(md, "\n"))
			}
		case *model.Field:
			parts = append(parts, "**"+v.KeyText()+"** "+v.ValueText())
		case model.WithText:
			parts = append(parts, v.Text())
		}
	}
	return strings.Join(parts, "\n\n")
}
