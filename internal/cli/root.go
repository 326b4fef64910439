package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds what the commands operate on.
type App struct {
	Board  service.Board
	Config config.Config

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm overrides the huh confirmation prompt.
	Confirm func(title string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the "planboard" command and registers all subcommands
// against app. Queued project edits are flushed after every command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planboard",
		Short:         "Project schedule and workflow board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Board.FlushEdits(cmd.Context())
			if err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("%s", res.Message)
			}
			return nil
		},
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newStatusCmd(app),
		newSubtaskCmd(app),
		newGanttCmd(app),
		newRiskCmd(app),
		newUndoCmd(app),
		newRedoCmd(app),
		newImportCmd(app),
		newWatchCmd(app),
		newBoardCmd(app),
	)

	return root
}
