package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(a *App) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes made by other writers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			return watch(ctx, a, cmd)
		},
	}

	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (0 = until interrupted)")

	return cmd
}

// watch prints store events until ctx ends. One goroutine owns the remote
// subscription, another renders events.
func watch(ctx context.Context, a *App, cmd *cobra.Command) error {
	events := make(chan service.Event, 32)
	unsubscribe := a.Board.OnEvent(func(ev service.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	printLine := func(line string) { fmt.Fprintln(cmd.OutOrStdout(), line) }
	if a.interactive() {
		sp := formatter.NewSpinner(cmd.OutOrStdout(), "Watching for changes (Ctrl+C to stop)")
		sp.Start()
		defer sp.Stop()
		printLine = sp.Println
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stopWatch := a.Board.Watch()
		<-ctx.Done()
		stopWatch()
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				printLine(describeEvent(ev))
			}
		}
	})
	return g.Wait()
}

func describeEvent(ev service.Event) string {
	stamp := formatter.Dim(time.Now().Format("15:04:05"))
	if ev.Kind == service.EventRemoteApplied {
		return stamp + " " + formatter.StyleBlue.Render("remote change applied")
	}
	line := fmt.Sprintf("%s %s", stamp, ev.Kind)
	if ev.ProjectID > 0 {
		line += fmt.Sprintf(" #%d", ev.ProjectID)
	}
	if ev.TaskID != "" {
		line += " " + ev.TaskID
	}
	return line
}
