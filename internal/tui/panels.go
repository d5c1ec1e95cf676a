package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/h0rv/prep/internal/render"
)

const (
	maxCellWidth = 48
	barWidth     = 30
)

// panelView draws a render.Node panel. selected is the highlighted data row
// of its table, -1 for none.
func panelView(n render.Node, width int, focused bool, spin string, selected int) string {
	header := panelTitleStyle.Render(n.Text)
	if n.Class == "loading" && spin != "" {
		header += " " + spin
	}

	var body string
	for _, child := range n.Children {
		switch child.Kind {
		case render.KindPlaceholder:
			body = placeholderView(child)
		case render.KindTable:
			body = tableView(child, width-4, selected)
		}
	}

	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	content := header
	if body != "" {
		content += "\n" + body
	}
	return style.Width(max(width-2, 10)).Render(content)
}

func placeholderView(n render.Node) string {
	switch n.Text {
	case "":
		return ""
	case render.PlaceholderFailed:
		return ErrorStyle.Render(n.Text)
	default:
		return dimStyle.Render(n.Text)
	}
}

// tableView draws a render table with lipgloss/table.
func tableView(n render.Node, width, selected int) string {
	if len(n.Children) == 0 {
		return ""
	}

	headers := rowCells(n.Children[0])
	rows := make([][]string, 0, len(n.Children)-1)
	for _, r := range n.Children[1:] {
		rows = append(rows, rowCells(r))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == selected:
				return selectedRowStyle
			default:
				return tableCellStyle
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

// rowCells flattens a row node: plain cells keep their text, badge cells are
// coloured by class.
func rowCells(row render.Node) []string {
	cells := make([]string, len(row.Children))
	for i, c := range row.Children {
		text := c.Text
		if len(c.Children) > 0 && c.Children[0].Kind == render.KindBadge {
			b := c.Children[0]
			text = badgeStyle(b.Class).Render(ansi.Truncate(b.Text, maxCellWidth, "…"))
		} else {
			text = ansi.Truncate(text, maxCellWidth, "…")
		}
		cells[i] = text
	}
	return cells
}

// progressView draws one bar per breakdown segment.
func progressView(b render.Breakdown) string {
	if b.Total == 0 {
		return dimStyle.Render(render.PlaceholderEmpty)
	}
	lines := make([]string, 0, len(b.Segments))
	for _, s := range b.Segments {
		filled := s.Percent * barWidth / 100
		bar := badgeStyle(s.Class).Render(strings.Repeat("█", filled)) +
			dimStyle.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%s %s %3d%% (%d)", s.Label, bar, s.Percent, s.Count))
	}
	return strings.Join(lines, "\n")
}
