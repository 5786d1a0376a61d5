package cli

import (
	"errors"
	"fmt"

	"steampick/internal/models"
	"steampick/internal/ui"

	"github.com/spf13/cobra"
)

func newLaunchCommand(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "launch <appid|name>",
		Short: "Launch an installed game by app id or exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runLaunch(args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the launch command instead of running it")
	return cmd
}

// ErrLauncherNotFound is returned when the launch command is not on PATH
var ErrLauncherNotFound = errors.New("launcher not found on PATH")

func (app *App) runLaunch(query string, dryRun bool) error {
	game, err := app.findGame(query)
	if err != nil {
		return err
	}

	l := app.launcher()
	if dryRun {
		fmt.Fprintf(app.stdout, "%s %s\n", l.Command(), l.URI(game.AppID))
		return nil
	}
	if err := checkLauncher(l); err != nil {
		return err
	}

	if err := l.Launch(game.AppID); err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, ui.RenderNotification("success", "Launching "+game.Name))
	return nil
}

// launcher builds the configured launcher
func (app *App) launcher() Launcher {
	return app.newLauncher(app.Config.Launcher, app.Logger.WithPrefix("launcher"))
}

// checkLauncher fails early when the launch command cannot be run
func checkLauncher(l Launcher) error {
	if !l.IsInstalled() {
		return fmt.Errorf("%w: %s", ErrLauncherNotFound, l.Command())
	}
	return nil
}

// findGame resolves query against the cached list, then a fresh scan
func (app *App) findGame(query string) (models.Game, error) {
	games, cached, err := app.loadGames()
	if err != nil {
		return models.Game{}, err
	}
	if g, ok := lookup(games, query); ok {
		return g, nil
	}

	if cached {
		app.Logger.Debug("not in cache, re-scanning", "query", query)
		games, err = app.refresh()
		if err != nil {
			return models.Game{}, err
		}
		if g, ok := lookup(games, query); ok {
			return g, nil
		}
	}
	return models.Game{}, &ExitError{Code: 2, Err: fmt.Errorf("no installed game matches %q", query)}
}

// lookup matches an app id first, then an exact name
func lookup(games []models.Game, query string) (models.Game, bool) {
	if g, ok := models.FindByAppID(games, query); ok {
		return g, true
	}
	return models.FindByName(games, query)
}
