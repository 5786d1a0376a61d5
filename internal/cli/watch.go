package cli

import (
	"context"
	"fmt"

	"steampick/internal/ui"
	"steampick/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-scan whenever Steam installs, removes or plays a game",
		Long: `Watch the Steam libraries and profile data, rewriting the cache after
each change. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runWatch(cmd.Context())
		},
	}
}

func (app *App) runWatch(ctx context.Context) error {
	debounce, err := app.Config.DebounceDuration()
	if err != nil {
		return err
	}
	s, err := app.newScanner()
	if err != nil {
		return err
	}

	// Start from a current cache
	games, err := app.refresh()
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Targets:  func() []string { return watch.Targets(s) },
		Debounce: debounce,
		Logger:   app.Logger.WithPrefix("watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			app.Logger.Debug("re-scanning", "changed", len(changed))
			games, changes, err := app.refreshChanges()
			if err != nil {
				return err
			}
			writeChanges(app.stdout, changes)
			fmt.Fprintln(app.stdout, ui.RenderNotification("info", fmt.Sprintf("Cache updated: %d games", len(games))))
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, ui.RenderNotification("success",
		fmt.Sprintf("Watching %d directories (%d games cached), press Ctrl+C to stop", len(w.Watched()), len(games))))
	return w.Run(ctx)
}
