// Package launcher starts a Steam game through the Steam client.
package launcher

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"steampick/internal/config"

	"github.com/charmbracelet/log"
)

// Launcher hands a steam:// URI to the Steam client
type Launcher struct {
	command     string
	uriTemplate string
	logger      *log.Logger
}

// New creates a Launcher from the launcher config
func New(cfg config.LauncherConfig, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Launcher{
		command:     cfg.Command,
		uriTemplate: cfg.URITemplate,
		logger:      logger,
	}
}

// Command returns the executable used to launch games
func (l *Launcher) Command() string {
	return l.command
}

// URI returns the URI that launches appID
func (l *Launcher) URI(appID string) string {
	return strings.ReplaceAll(l.uriTemplate, "{appid}", appID)
}

// IsInstalled checks if the launcher command is on PATH
func (l *Launcher) IsInstalled() bool {
	_, err := exec.LookPath(l.command)
	return err == nil
}

// Launch starts the game and returns without waiting for it
func (l *Launcher) Launch(appID string) error {
	cmd, err := l.start(appID)
	if err != nil {
		return err
	}
	// The Steam client outlives us; don't keep a handle on it
	return cmd.Process.Release()
}

// start spawns the launcher with stdio detached
func (l *Launcher) start(appID string) (*exec.Cmd, error) {
	if strings.TrimSpace(appID) == "" {
		return nil, fmt.Errorf("launch: empty app id")
	}

	uri := l.URI(appID)
	// Stdin, Stdout and Stderr stay nil, which connects them to the null device
	cmd := exec.Command(l.command, uri)

	l.logger.Debug("launching game", "command", l.command, "uri", uri)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch %s: %w", uri, err)
	}
	return cmd, nil
}
