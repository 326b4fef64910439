package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	var (
		opts service.ImportOptions
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import projects from a JSON board document",
		Long: `Import projects from a JSON document. Both the current format and the
legacy Spanish-keyed export are accepted. Imported projects are appended
with fresh IDs unless --replace is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.Replace && !yes && len(a.Board.Projects()) > 0 {
				ok, err := confirm(a, "Replace the whole board with this file?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			rep, res, err := a.Board.ImportFile(cmd.Context(), args[0], opts)
			for _, p := range rep.Problems {
				fmt.Fprintf(out, "  %s %v\n", formatter.StyleYellow.Render("!"), p)
			}
			if err == nil && !res.OK && len(rep.Problems) > 0 {
				return errors.New(res.Message + " (use --force to import anyway)")
			}
			return report(cmd, res, err, fmt.Sprintf("Imported %d project(s): %s", len(rep.Imported), importedLabel(rep.Imported)))
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Replace the board instead of appending")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Import even when the document has problems")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation for --replace")

	return cmd
}

func importedLabel(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	return "#" + domain.FormatDependencies(ids)
}
