package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steampick/internal/cache"
	"steampick/internal/models"
)

// runPick is the default action: list, choose, launch
func (app *App) runPick(ctx context.Context) error {
	games, cached, err := app.loadGames()
	if err != nil {
		return err
	}
	if cached {
		app.refreshInBackground()
	}

	// Check before the menu opens so a choice is never thrown away
	l := app.launcher()
	if err := checkLauncher(l); err != nil {
		return err
	}

	m, err := app.newMenu(app.Config.Menu, app.Logger.WithPrefix("menu"))
	if err != nil {
		return err
	}

	game, ok, err := m.Select(ctx, games)
	if err != nil {
		return err
	}
	if !ok {
		app.Logger.Debug("nothing selected")
		return nil
	}

	fmt.Fprintln(app.stdout, game.Name)
	return l.Launch(game.AppID)
}

// loadGames returns the cached list when there is one, otherwise a fresh
// scan. cached reports which source was used.
func (app *App) loadGames() (games []models.Game, cached bool, err error) {
	store := app.cacheStore()
	games, err = store.Load()
	if err == nil {
		app.Logger.Debug("serving cached games", "path", store.Path(), "count", len(games))
		return games, true, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, false, err
	}
	app.Logger.Debug("cache miss", "err", err)

	games, err = app.refresh()
	if err != nil {
		return nil, false, err
	}
	return games, false, nil
}

// refresh scans the Steam root and rewrites the cache. A cache write
// failure is logged, not returned, since the scan itself succeeded.
func (app *App) refresh() ([]models.Game, error) {
	s, err := app.newScanner()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	games, err := s.Scan()
	if err != nil {
		return nil, err
	}

	store := app.cacheStore()
	if err := store.Save(games); err != nil {
		app.Logger.Warn("could not write cache", "path", store.Path(), "err", err)
	} else {
		app.Logger.Debug("cache updated", "path", store.Path(), "count", len(games), "took", time.Since(start))
	}
	return games, nil
}

// refreshInBackground re-scans while the menu is open. Callers must Wait
// before exiting.
func (app *App) refreshInBackground() {
	app.background.Add(1)
	go func() {
		defer app.background.Done()
		if _, err := app.refresh(); err != nil {
			app.Logger.Warn("background refresh failed", "err", err)
		}
	}()
}

// refreshChanges re-scans and reports what changed against the previous cache
func (app *App) refreshChanges() ([]models.Game, cache.Changes, error) {
	previous, _ := app.cacheStore().Load()
	games, err := app.refresh()
	if err != nil {
		return nil, cache.Changes{}, err
	}
	return games, cache.Diff(previous, games), nil
}
