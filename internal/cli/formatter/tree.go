package formatter

import (
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.Status
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// SubtaskTree flattens a subtask forest into tree items, one level per
// nesting depth, with the date range as detail.
func SubtaskTree(nodes []domain.Subtask) []TreeItem {
	var out []TreeItem
	var walk func(nodes []domain.Subtask, level int)
	walk = func(nodes []domain.Subtask, level int) {
		for i, s := range nodes {
			detail := ""
			if s.Start != "" || s.End != "" {
				detail = s.Start + " → " + s.End
			}
			out = append(out, TreeItem{
				Title:  s.Name,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Status: s.Status,
				Detail: detail,
			})
			walk(s.Children, level+1)
		}
	}
	walk(nodes, 1)
	return out
}

// RenderTree draws items with box-drawing connectors. Done items get a
// green check, active ones an amber arrow, and details are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	widest := 0
	// open[l] is true while an ancestor at level l still has siblings below.
	open := map[int]bool{}

	for idx, item := range items {
		var prefix strings.Builder
		for l := 1; l < item.Level; l++ {
			if open[l] {
				prefix.WriteString(treePipe)
			} else {
				prefix.WriteString(treeBlank)
			}
		}
		if item.Level > 0 {
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
			open[item.Level] = !item.IsLast
		}

		title := item.Title
		marker := ""
		switch item.Status {
		case domain.StatusDone:
			marker = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusActive:
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}

		contents[idx] = prefix.String() + marker + title
		if item.Detail != "" {
			badges[idx] = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		widest = max(widest, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for i, content := range contents {
		b.WriteString(content)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(content)+2) + badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
