package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func bar(pct, width int) (string, string) {
	pct = max(0, min(100, pct))
	width = max(2, width)
	filled := pct * width / 100
	return strings.Repeat(filledBlock, filled), strings.Repeat(emptyBlock, width-filled)
}

func progressStyle(pct int) func(...string) string {
	switch {
	case pct < 33:
		return StyleRed.Render
	case pct < 66:
		return StyleYellow.Render
	}
	return StyleGreen.Render
}

// RenderProgress renders a bar like [████░░░░]  45%, colored red below a
// third, yellow below two thirds and green above.
func RenderProgress(pct, width int) string {
	filled, empty := bar(pct, width)
	clamped := max(0, min(100, pct))
	return fmt.Sprintf("[%s] %3d%%", progressStyle(clamped)(filled+empty), clamped)
}

// RenderCompactBar renders the bar alone. A dimmed bar carries no color.
func RenderCompactBar(pct, width int, dim bool) string {
	filled, empty := bar(pct, width)
	if dim {
		return StyleDim.Render(filled + empty)
	}
	return progressStyle(pct)(filled) + StyleDim.Render(empty)
}
