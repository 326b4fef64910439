package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Card is one project on the board.
type Card struct {
	Project  domain.Project
	Progress int
	Risk     domain.RiskLevel
	Blocked  bool
}

// Column is one status lane.
type Column struct {
	Status domain.Status
	Cards  []Card
}

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)
	focusedColumnStyle = columnStyle.BorderForeground(ColorHeader)
	selectedCardStyle  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// RenderBoard lays the status columns side by side. focusCol and focusRow
// mark the selected card; pass -1 for no selection.
func RenderBoard(cols []Column, width, focusCol, focusRow int) string {
	if len(cols) == 0 {
		return ""
	}
	colWidth := max(22, width/len(cols)-4)

	rendered := make([]string, len(cols))
	for i, col := range cols {
		var b strings.Builder
		b.WriteString(StyleHeader.Render(fmt.Sprintf("%s (%d)", strings.ToUpper(col.Status.Label()), len(col.Cards))) + "\n")
		if len(col.Cards) == 0 {
			b.WriteString(Dim("empty"))
		}
		for j, c := range col.Cards {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderCard(c, colWidth, i == focusCol && j == focusRow))
		}
		style := columnStyle
		if i == focusCol {
			style = focusedColumnStyle
		}
		rendered[i] = style.Width(colWidth).Render(b.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCard(c Card, width int, selected bool) string {
	p := c.Project
	title := Truncate(p.DisplayID()+" "+p.DisplayName(), width-4)
	if selected {
		title = selectedCardStyle.Render("› " + title)
	} else {
		title = StyleBold.Render("  " + title)
	}
	meta := "  " + RiskColor(c.Risk).Render("●") + " " + Dim(Truncate(ownerOrUnassigned(&p), width-12))
	if c.Blocked {
		meta += " " + StyleRed.Render("blocked")
	}
	dates := "  " + Dim(orPlaceholder(p.End, "no end date"))
	return title + "\n" + meta + "\n  " + RenderCompactBar(c.Progress, min(12, width-8), false) + fmt.Sprintf(" %d%%", c.Progress) + "\n" + dates
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
