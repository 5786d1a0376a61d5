// Package menu presents installed games to the user and returns the chosen one.
package menu

import (
	"context"
	"fmt"
	"io"

	"steampick/internal/config"
	"steampick/internal/models"

	"github.com/charmbracelet/log"
)

// Menu lets the user pick one game
type Menu interface {
	// Name returns the display name of the backend
	Name() string

	// IsInstalled checks if the backend can run on this system
	IsInstalled() bool

	// Select shows games in order and blocks until the user chooses or
	// cancels. ok is false when nothing was chosen; that is not an error.
	Select(ctx context.Context, games []models.Game) (game models.Game, ok bool, err error)
}

// New returns the backend named by cfg.Backend. With "auto", rofi is used
// when its command is on PATH and the built-in picker otherwise.
func New(cfg config.MenuConfig, logger *log.Logger) (Menu, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch cfg.Backend {
	case config.BackendRofi:
		r := NewRofi(cfg, logger)
		if !r.IsInstalled() {
			return nil, fmt.Errorf("menu command %s is not installed", cfg.Command)
		}
		return r, nil
	case config.BackendTUI:
		return NewTUI(cfg, logger), nil
	case config.BackendAuto, "":
		r := NewRofi(cfg, logger)
		if r.IsInstalled() {
			return r, nil
		}
		logger.Debug("menu command not found, using built-in picker", "command", cfg.Command)
		return NewTUI(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown menu backend: %s", cfg.Backend)
	}
}
