package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID TARGET",
		Short: "Move a project to pending, active or done",
		Long: `Move a project along its lifecycle. Starting work requires the
intake checklist to be complete and every dependency to be done.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			target, err := parseStatusArg(args[1])
			if err != nil {
				return err
			}
			res, err := app.Board.TransitionStatus(cmd.Context(), id, target)
			return report(cmd, res, err, fmt.Sprintf("Project #%d is now %s", id, target.Label()))
		},
	}
}
