package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

var errNeedsConfirmation = errors.New("confirmation required: rerun with --yes")

// confirm asks before a destructive command. Off a terminal it refuses
// instead of prompting.
func confirm(app *App, title string) (bool, error) {
	if app.Confirm != nil {
		return app.Confirm(title)
	}
	if !app.interactive() {
		return false, errNeedsConfirmation
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
