package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRiskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "risk [ID]",
		Short: "Show risk alerts for one project or the whole board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				all := app.Board.RiskAll()
				if len(all) == 0 {
					fmt.Fprintln(out, "No projects found.")
					return nil
				}
				fmt.Fprintln(out, formatter.FormatRiskList(all))
				return nil
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			r, err := app.Board.Risk(id)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRisk(r))
			return nil
		},
	}
}
