package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with a project's checklist",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskCheckCmd(app, true),
		newTaskCheckCmd(app, false),
		newTaskAddCmd(app),
		newTaskRenameCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// projectPhaseArgs parses the leading "ID PHASE" arguments.
func projectPhaseArgs(args []string) (int, domain.PhaseName, error) {
	id, err := parseProjectID(args[0])
	if err != nil {
		return 0, "", err
	}
	phase, err := parsePhaseArg(args[1])
	if err != nil {
		return 0, "", err
	}
	return id, phase, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ID [PHASE]",
		Short: "Show checklist phases",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			v, err := app.Board.View(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				phase, err := parsePhaseArg(args[1])
				if err != nil {
					return err
				}
				if phase == domain.PhaseIntake {
					fmt.Fprint(out, formatter.FormatPhase(v.Intake))
				} else {
					fmt.Fprint(out, formatter.FormatPhase(v.Execution))
				}
				return nil
			}
			fmt.Fprint(out, formatter.FormatPhase(v.Intake))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatPhase(v.Execution))
			return nil
		},
	}
}

func newTaskCheckCmd(app *App, done bool) *cobra.Command {
	use, short, verb := "check", "Mark a task done", "Checked"
	if !done {
		use, short, verb = "uncheck", "Mark a task not done", "Unchecked"
	}
	return &cobra.Command{
		Use:   use + " ID PHASE TASK-ID",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, phase, err := projectPhaseArgs(args)
			if err != nil {
				return err
			}
			res, err := app.Board.SetTaskDone(cmd.Context(), id, phase, args[2], done)
			if err := report(cmd, res, err, fmt.Sprintf("%s %s on #%d", verb, args[2], id)); err != nil {
				return err
			}
			return printStatusDrift(cmd, app, id)
		},
	}
}

// printStatusDrift notes when the checklist now suggests a different status.
func printStatusDrift(cmd *cobra.Command, app *App, id int) error {
	v, err := app.Board.View(id)
	if err != nil {
		return err
	}
	if v.Derived != v.Project.Status {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatter.Dim(fmt.Sprintf("checklist suggests %s (status is %s)", v.Derived.Label(), v.Project.Status.Label())))
	}
	return nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add ID PHASE NAME...",
		Short: "Add an optional task",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, phase, err := projectPhaseArgs(args)
			if err != nil {
				return err
			}
			name := strings.Join(args[2:], " ")
			res, err := app.Board.AddOptionalTask(cmd.Context(), id, phase, name)
			return report(cmd, res, err, fmt.Sprintf("Added %q to %s of #%d", name, phase, id))
		},
	}
}

func newTaskRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID PHASE TASK-ID NAME...",
		Short: "Rename an optional task",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, phase, err := projectPhaseArgs(args)
			if err != nil {
				return err
			}
			name := strings.Join(args[3:], " ")
			res, err := app.Board.RenameOptionalTask(cmd.Context(), id, phase, args[2], name)
			return report(cmd, res, err, fmt.Sprintf("Renamed %s to %q", args[2], name))
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm ID PHASE TASK-ID",
		Short: "Remove an optional task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, phase, err := projectPhaseArgs(args)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(app, fmt.Sprintf("Remove task %s from #%d?", args[2], id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			res, err := app.Board.RemoveOptionalTask(cmd.Context(), id, phase, args[2])
			return report(cmd, res, err, fmt.Sprintf("Removed %s from %s of #%d", args[2], phase, id))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
