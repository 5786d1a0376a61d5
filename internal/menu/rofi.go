package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"steampick/internal/config"
	"steampick/internal/models"

	"github.com/charmbracelet/log"
)

// Rofi runs an external dmenu-style program: names on stdin, choice on stdout
type Rofi struct {
	command string
	args    []string
	prompt  string
	logger  *log.Logger
}

// NewRofi creates a Rofi backend from the menu config
func NewRofi(cfg config.MenuConfig, logger *log.Logger) *Rofi {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Rofi{
		command: cfg.Command,
		args:    slices.Clone(cfg.Args),
		prompt:  cfg.Prompt,
		logger:  logger,
	}
}

// Name returns the display name
func (r *Rofi) Name() string {
	return r.command
}

// IsInstalled checks if the command is on PATH
func (r *Rofi) IsInstalled() bool {
	_, err := exec.LookPath(r.command)
	return err == nil
}

// Args returns the full argument list passed to the command
func (r *Rofi) Args() []string {
	args := slices.Clone(r.args)
	if r.prompt != "" {
		args = append(args, "-p", r.prompt)
	}
	return args
}

// Select feeds one name per line to the command and matches the last line
// it prints exactly against the game names. A non-zero exit means the user
// dismissed the menu.
func (r *Rofi) Select(ctx context.Context, games []models.Game) (models.Game, bool, error) {
	if len(games) == 0 {
		return models.Game{}, false, nil
	}

	input, err := os.CreateTemp("", "steampick-menu-*")
	if err != nil {
		return models.Game{}, false, fmt.Errorf("menu: create input: %w", err)
	}
	defer os.Remove(input.Name())
	defer input.Close()

	if _, err := io.WriteString(input, strings.Join(models.Names(games), "\n")+"\n"); err != nil {
		return models.Game{}, false, fmt.Errorf("menu: write input: %w", err)
	}
	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return models.Game{}, false, fmt.Errorf("menu: rewind input: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.command, r.Args()...)
	cmd.Stdin = input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("opening menu", "command", r.command, "games", len(games))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.Game{}, false, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug("menu dismissed", "code", exitErr.ExitCode(), "stderr", strings.TrimSpace(stderr.String()))
			return models.Game{}, false, nil
		}
		return models.Game{}, false, fmt.Errorf("menu: run %s: %w", r.command, err)
	}

	choice := lastLine(stdout.String())
	game, ok := models.FindByName(games, choice)
	if !ok {
		r.logger.Debug("menu returned unknown entry", "entry", choice)
	}
	return game, ok, nil
}

// lastLine returns the final line of out, ignoring one trailing newline
func lastLine(out string) string {
	out = strings.TrimSuffix(out, "\n")
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	return strings.TrimSuffix(out, "\r")
}
