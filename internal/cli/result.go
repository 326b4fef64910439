package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// report prints the outcome of a mutation. A rejected mutation becomes the
// command's error so the process exits non-zero.
func report(cmd *cobra.Command, res app.Result, err error, success string) error {
	if err != nil {
		return err
	}
	if !res.OK {
		return errors.New(res.Message)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatter.StyleGreen.Render("✔")+" "+success)
	if res.Degraded {
		fmt.Fprintln(out, formatter.StyleYellow.Render("!")+" Saved in degraded mode: "+res.Message)
	}
	return nil
}
