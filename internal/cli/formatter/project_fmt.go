package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// ProjectListItem is one line of the project listing.
type ProjectListItem struct {
	Project  domain.Project
	Progress int
	Risk     domain.RiskLevel
}

func FormatProjectList(items []ProjectListItem) string {
	headers := []string{"ID", "NAME", "OWNER", "STATUS", "DATES", "PROGRESS", "RISK", "DEPENDS"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		p := it.Project
		rows = append(rows, []string{
			Dim(p.DisplayID()),
			Bold(p.DisplayName()),
			StyleFg.Render(ownerOrUnassigned(&p)),
			StatusPill(p.Status),
			DateRange(p.Start, p.End),
			RenderCompactBar(it.Progress, 10, false) + fmt.Sprintf(" %3d%%", it.Progress),
			RiskIndicator(it.Risk),
			Dependencies(p.Dependencies),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders a project card: metadata on the left, the
// checklist phases and subtask tree on the right.
func FormatProjectDetail(v service.ProjectView) string {
	left := metadataPanel(v)

	var right strings.Builder
	right.WriteString(FormatPhase(v.Intake))
	right.WriteString("\n")
	right.WriteString(FormatPhase(v.Execution))
	if len(v.Project.Subtasks) > 0 {
		right.WriteString("\n" + Header("Subtasks") + "\n")
		right.WriteString(RenderTree(SubtaskTree(v.Project.Subtasks)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right.String())
	if len(v.Project.Comments) > 0 {
		body += "\n\n" + formatComments(v.Project.Comments)
	}
	return RenderBox("", body)
}

func metadataPanel(v service.ProjectView) string {
	p := v.Project
	field := func(label, value string) string {
		return fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value)
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(p.DisplayID()+" "+p.DisplayName()) + "\n")
	b.WriteString(TagBadge(p.Tag) + "\n\n")
	b.WriteString(field("STATUS", StatusPill(p.Status)))
	if v.Derived != p.Status {
		b.WriteString(field("", Dim("checklist suggests "+v.Derived.Label())))
	}
	b.WriteString(field("OWNER", StyleFg.Render(ownerOrUnassigned(&p))))
	b.WriteString(field("DATES", DateRange(p.Start, p.End)))
	b.WriteString(field("DEPENDS", Dependencies(p.Dependencies)))
	if len(v.Blocking) > 0 {
		b.WriteString(field("BLOCKED", StyleRed.Render("waiting on ")+Dependencies(v.Blocking)))
	}
	b.WriteString(field("PROGRESS", RenderProgress(v.Progress, 16)))
	b.WriteString(field("RISK", RiskIndicator(v.Risk.Level)))
	b.WriteString(field("DUE", DaysLeft(v.Risk.DaysLeft)))
	if p.LastActivityAt != "" {
		b.WriteString(field("ACTIVITY", Dim(p.LastActivityAt+" "+p.LastActivitySource)))
	}
	return b.String()
}

// FormatPhase renders one checklist phase with its counters. Required
// tasks are marked with an asterisk.
func FormatPhase(pv service.PhaseView) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %d/%d", pv.Name, pv.Done, pv.Total)) + "\n")
	for _, t := range pv.Phase.Required {
		b.WriteString(taskLine(t))
	}
	for _, t := range pv.Phase.Optional {
		b.WriteString(taskLine(t))
	}
	if len(pv.Phase.Required)+len(pv.Phase.Optional) == 0 {
		b.WriteString(Dim("  no tasks") + "\n")
	}
	return b.String()
}

func taskLine(t domain.Task) string {
	box := StyleDim.Render("[ ]")
	name := StyleFg.Render(t.Name)
	if t.Done {
		box = StyleGreen.Render("[x]")
		name = Dim(t.Name)
	}
	req := " "
	if t.Required {
		req = StyleYellow.Render("*")
	}
	return fmt.Sprintf("  %s %s%s %s\n", box, name, req, Dim(t.ID))
}

func formatComments(comments []domain.Comment) string {
	var b strings.Builder
	b.WriteString(Header("Comments") + "\n")
	for _, c := range comments {
		b.WriteString(fmt.Sprintf("%s %s\n  %s\n", StyleBlue.Render(c.Author), Dim(c.CreatedAt), c.Body))
	}
	return strings.TrimRight(b.String(), "\n")
}
