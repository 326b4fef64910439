package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newUndoCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return travel(cmd, a.Board.Undo, "Undone")
		},
	}
}

func newRedoCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return travel(cmd, a.Board.Redo, "Redone")
		},
	}
}

// travel reports an empty history as information rather than failure.
func travel(cmd *cobra.Command, step func(context.Context) (app.Result, error), success string) error {
	res, err := step(cmd.Context())
	if err == nil && !res.OK {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(res.Message))
		return nil
	}
	return report(cmd, res, err, success)
}
