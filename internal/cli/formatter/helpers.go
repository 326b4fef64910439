package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DaysLeft describes a signed day count relative to a deadline.
func DaysLeft(days *int) string {
	if days == nil {
		return Dim("--")
	}
	d := *days
	switch {
	case d < 0:
		return StyleRed.Render(fmt.Sprintf("%dd overdue", -d))
	case d == 0:
		return StyleRed.Render("Due today")
	case d <= 3:
		return StyleYellow.Render(fmt.Sprintf("%dd left", d))
	}
	return StyleFg.Render(fmt.Sprintf("%dd left", d))
}

// DateRange renders "start → end", dimming missing ends.
func DateRange(start, end string) string {
	return orDash(start) + Dim(" → ") + orDash(end)
}

// Dependencies renders a dependency list as "#1, #4".
func Dependencies(deps []int) string {
	if len(deps) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = fmt.Sprintf("#%d", d)
	}
	return StylePurple.Render(strings.Join(parts, ", "))
}

// TagBadge returns a capitalized tag label.
func TagBadge(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Dim("--")
	}
	return StylePurple.Render(strings.ToUpper(tag[:1]) + tag[1:])
}

// Truncate shortens s to width cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return StyleFg.Render(s)
}

func ownerOrUnassigned(p *domain.Project) string {
	return domain.CoalesceStr(strings.TrimSpace(p.Owner), "Unassigned")
}
