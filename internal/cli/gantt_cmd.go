package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/spf13/cobra"
)

const ganttLabelWidth = 28

func newGanttCmd(a *App) *cobra.Command {
	var (
		collapse []string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Show the timeline, or move and resize bars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chart := a.Board.Gantt(gantt.Options{
				DayWidth:  a.Config.DayWidth,
				Collapsed: gantt.NewCollapseSet(collapse...),
			})
			if len(chart.Rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			out, _ := formatter.FormatGantt(chart, formatter.GanttOptions{
				LabelWidth:    ganttLabelWidth,
				MaxTrackWidth: trackWidth(width),
			})
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&collapse, "collapse", nil, `Row to collapse, e.g. "project-1" (repeatable)`)
	cmd.Flags().IntVar(&width, "width", 0, "Terminal width to fit the chart into (0 = no limit)")

	cmd.AddCommand(
		newGanttMoveCmd(a),
		newGanttResizeCmd(a),
	)

	return cmd
}

// trackWidth leaves room for the label column and the progress suffix.
func trackWidth(total int) int {
	if total <= 0 {
		return 0
	}
	return max(10, total-ganttLabelWidth-6)
}

func newGanttMoveCmd(a *App) *cobra.Command {
	var (
		subtask string
		days    int
	)

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Shift a bar by whole days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			res, start, end, err := dragBar(cmd.Context(), a, app.ScheduleTarget{ProjectID: id, SubtaskID: subtask}, gantt.ZoneBody, days)
			return report(cmd, res, err, fmt.Sprintf("%s now runs %s → %s", targetLabel(id, subtask), start, end))
		},
	}

	cmd.Flags().StringVar(&subtask, "subtask", "", "Subtask ID to move instead of the project")
	cmd.Flags().IntVar(&days, "days", 0, "Days to shift (negative moves earlier)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func newGanttResizeCmd(a *App) *cobra.Command {
	var (
		subtask string
		days    int
		edge    = gantt.ZoneRightHandle
	)

	cmd := &cobra.Command{
		Use:   "resize ID",
		Short: "Drag one edge of a bar by whole days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			res, start, end, err := dragBar(cmd.Context(), a, app.ScheduleTarget{ProjectID: id, SubtaskID: subtask}, edge, days)
			return report(cmd, res, err, fmt.Sprintf("%s now runs %s → %s", targetLabel(id, subtask), start, end))
		},
	}

	cmd.Flags().StringVar(&subtask, "subtask", "", "Subtask ID to resize instead of the project")
	cmd.Flags().IntVar(&days, "days", 0, "Days to drag the edge (negative drags earlier)")
	cmd.Flags().Var(newEdgeValue(&edge), "edge", "left|right")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

// dragBar replays a pointer drag of days on the target's bar through the
// gesture controller, exactly as the board does for a mouse drag.
func dragBar(ctx context.Context, a *App, target app.ScheduleTarget, zone gantt.Zone, days int) (app.Result, string, string, error) {
	chart := a.Board.Gantt(gantt.Options{DayWidth: a.Config.DayWidth})
	row, ok := findRow(chart, target)
	if !ok {
		if target.IsSubtask() {
			return app.Failed(fmt.Sprintf("Subtask %s not found in project #%d", target.SubtaskID, target.ProjectID)), "", "", nil
		}
		return app.Failed(fmt.Sprintf("Project #%d not found", target.ProjectID)), "", "", nil
	}

	ctrl := gantt.NewController(a.Board, chart.DayWidth)
	if err := ctrl.PointerDown(row, zone, 0); err != nil {
		return app.Failed(err.Error()), "", "", nil
	}
	if _, err := ctrl.PointerMove(days * chart.DayWidth); err != nil {
		return app.Failed(err.Error()), "", "", nil
	}
	start, end, _ := ctrl.Preview()
	res, err := ctrl.PointerUp(ctx, days*chart.DayWidth)
	return res, start, end, err
}

func findRow(chart gantt.Chart, target app.ScheduleTarget) (gantt.Row, bool) {
	for _, r := range chart.Rows {
		if r.ProjectID == target.ProjectID && r.SubtaskID == target.SubtaskID {
			return r, true
		}
	}
	return gantt.Row{}, false
}

func targetLabel(projectID int, subtaskID string) string {
	if subtaskID != "" {
		return fmt.Sprintf("Subtask %s of #%d", subtaskID, projectID)
	}
	return fmt.Sprintf("Project #%d", projectID)
}
