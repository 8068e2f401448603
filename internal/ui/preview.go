package ui

import (
	"fmt"
	"strings"

	"github.com/nconklindev/csvbook/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderPreview draws a preview as a bordered table under a title line.
func RenderPreview(name string, p *types.Preview) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42"))).
		Headers(p.Columns...).
		Rows(p.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCellStyle
			}
			return CellStyle
		})

	var s strings.Builder
	s.WriteString(TitleStyle.Render("▦ Preview: " + name))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d column(s), first %d row(s)", len(p.Columns), len(p.Rows))))
	s.WriteString("\n")
	s.WriteString(t.Render())
	s.WriteString("\n")
	return s.String()
}
