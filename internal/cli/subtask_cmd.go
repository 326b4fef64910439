package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage a project's subtask tree",
	}

	cmd.AddCommand(
		newSubtaskListCmd(a),
		newSubtaskAddCmd(a),
		newSubtaskSetCmd(a),
		newSubtaskRemoveCmd(a),
	)

	return cmd
}

func newSubtaskListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ID",
		Short: "Show the subtask tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			p, err := a.Board.Project(id)
			if err != nil {
				return err
			}
			if len(p.Subtasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subtasks.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.SubtaskTree(p.Subtasks)))
			return nil
		},
	}
}

func newSubtaskAddCmd(a *App) *cobra.Command {
	in := app.SubtaskInput{Status: domain.StatusPending}

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			s, res, err := a.Board.AddSubtask(cmd.Context(), id, in)
			return report(cmd, res, err, fmt.Sprintf("Added subtask %s (%s) to #%d", s.Name, s.ID, id))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Subtask name")
	cmd.Flags().StringVar(&in.ParentID, "parent", "", "Parent subtask ID")
	cmd.Flags().Var(newDateValue(&in.Start), "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&in.End), "end", "End date (YYYY-MM-DD)")
	cmd.Flags().Var(newStatusValue(&in.Status), "status", "pending|active|done")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSubtaskSetCmd(a *App) *cobra.Command {
	var (
		name       string
		status     domain.Status
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "set ID SUBTASK-ID",
		Short: "Edit a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			var patch app.SubtaskPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("status") {
				patch.Status = &status
			}
			if flags.Changed("start") {
				patch.Start = &start
			}
			if flags.Changed("end") {
				patch.End = &end
			}
			if patch == (app.SubtaskPatch{}) {
				return fmt.Errorf("nothing to change: pass at least one of --name, --status, --start, --end")
			}
			res, err := a.Board.UpdateSubtask(cmd.Context(), id, args[1], patch)
			return report(cmd, res, err, fmt.Sprintf("Updated subtask %s on #%d", args[1], id))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Subtask name")
	cmd.Flags().Var(newStatusValue(&status), "status", "pending|active|done")
	cmd.Flags().Var(newDateValue(&start), "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&end), "end", "End date (YYYY-MM-DD)")

	return cmd
}

func newSubtaskRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID SUBTASK-ID",
		Short: "Remove a subtask and its children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			res, err := a.Board.RemoveSubtask(cmd.Context(), id, args[1])
			return report(cmd, res, err, fmt.Sprintf("Removed subtask %s from #%d", args[1], id))
		},
	}
}
