package cli

import (
	"fmt"
	"io"

	"steampick/internal/cache"
	"steampick/internal/ui"

	"github.com/spf13/cobra"
)

func newRefreshCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-scan Steam libraries and rewrite the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, changes, err := app.refreshChanges()
			if err != nil {
				return err
			}
			writeChanges(app.stdout, changes)
			fmt.Fprintln(app.stdout, ui.RenderNotification("success",
				fmt.Sprintf("Cached %d games in %s", len(games), app.Config.CachePath)))
			return nil
		},
	}
}

// writeChanges prints one line per installed or removed game
func writeChanges(w io.Writer, changes cache.Changes) {
	for _, g := range changes.Added {
		fmt.Fprintln(w, ui.SuccessNotifyStyle.Render("+ "+g.Name)+" "+ui.AppIDStyle.Render(g.AppID))
	}
	for _, g := range changes.Removed {
		fmt.Fprintln(w, ui.ErrorNotifyStyle.Render("- "+g.Name)+" "+ui.AppIDStyle.Render(g.AppID))
	}
}
