package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/app"
)

// FormatRisk renders one project's risk summary with its alerts.
func FormatRisk(r app.RiskSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s  score %d\n",
		Dim(fmt.Sprintf("#%d", r.ProjectID)), Bold(r.ProjectName), RiskIndicator(r.Level), r.Score))
	b.WriteString(fmt.Sprintf("  %s  %s\n", RenderProgress(r.Progress, 16), DaysLeft(r.DaysLeft)))
	if r.DelayPercent > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", StyleYellow.Render(fmt.Sprintf("%d%% behind schedule", r.DelayPercent))))
	}
	for _, a := range r.Alerts {
		b.WriteString("  " + RiskColor(r.Level).Render("▲") + " " + a + "\n")
	}
	if len(r.Alerts) == 0 {
		b.WriteString("  " + StyleGreen.Render("No alerts") + "\n")
	}
	return b.String()
}

// FormatRiskList renders the board-wide risk table.
func FormatRiskList(rs []app.RiskSummary) string {
	headers := []string{"ID", "NAME", "RISK", "SCORE", "PROGRESS", "DUE", "ALERTS"}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("#%d", r.ProjectID)),
			Bold(r.ProjectName),
			RiskIndicator(r.Level),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%3d%%", r.Progress),
			DaysLeft(r.DaysLeft),
			fmt.Sprintf("%d", len(r.Alerts)),
		})
	}
	return RenderBox("Risk", RenderTable(headers, rows))
}
