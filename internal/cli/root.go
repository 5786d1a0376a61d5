// Package cli contains the steampick commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"steampick/internal/cache"
	"steampick/internal/config"
	"steampick/internal/launcher"
	"steampick/internal/menu"
	"steampick/internal/scanner"
	"steampick/internal/ui"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the release version, set by main.
	Version = "dev"
	// BuildTime is the build timestamp, set by main.
	BuildTime = "unknown"
)

type (
	// rootFlags holds the persistent flags shared by every command
	rootFlags struct {
		configPath string
		root       string
		cachePath  string
		debug      bool
	}

	// Launcher starts a game by app id
	Launcher interface {
		Command() string
		IsInstalled() bool
		Launch(appID string) error
		URI(appID string) string
	}

	// App wires configuration, logging and the external collaborators
	// (menu and launcher) the commands delegate to.
	App struct {
		Config *config.Config
		Logger *log.Logger

		flags  rootFlags
		stdout io.Writer
		stderr io.Writer

		newMenu     func(config.MenuConfig, *log.Logger) (menu.Menu, error)
		newLauncher func(config.LauncherConfig, *log.Logger) Launcher

		// background tracks the cache refresh started after serving the cache
		background sync.WaitGroup
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Stdout      io.Writer
		Stderr      io.Writer
		NewMenu     func(config.MenuConfig, *log.Logger) (menu.Menu, error)
		NewLauncher func(config.LauncherConfig, *log.Logger) Launcher
	}
)

// NewApp creates an App from deps
func NewApp(deps Dependencies) *App {
	app := &App{
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		newMenu:     deps.NewMenu,
		newLauncher: deps.NewLauncher,
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.newMenu == nil {
		app.newMenu = menu.New
	}
	if app.newLauncher == nil {
		app.newLauncher = func(cfg config.LauncherConfig, logger *log.Logger) Launcher {
			return launcher.New(cfg, logger)
		}
	}
	app.Logger = log.NewWithOptions(app.stderr, log.Options{Prefix: "steampick"})
	app.Logger.SetLevel(log.WarnLevel)
	return app
}

// NewRootCommand builds the command tree for app
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "steampick",
		Short: "Pick an installed Steam game and launch it",
		Long: ui.TitleStyle.Render("steampick") + ui.SubtitleStyle.Render(" - pick an installed Steam game and launch it") + `

Without a subcommand, steampick shows your installed games, most recently
played first, in rofi (or a built-in picker when rofi is missing) and
launches the one you choose through the Steam client.

The game list is cached and refreshed in the background, so the menu
opens instantly after the first run.

` + ui.SubtitleStyle.Render("Examples:") + `
  steampick                 Pick and launch a game
  steampick list            Show installed games
  steampick launch 620      Launch by app id or exact name
  steampick watch           Keep the cache current while Steam runs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runPick(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is "+config.ConfigPath()+")")
	flags.StringVar(&app.flags.root, "root", "", "Steam root directory (default is ~/.steam)")
	flags.StringVar(&app.flags.cachePath, "cache", "", "game list cache file (default is ~/.launchablegames)")
	flags.BoolVar(&app.flags.debug, "debug", false, "enable debug logging")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newRefreshCommand(app))
	rootCmd.AddCommand(newLaunchCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// setup loads configuration and applies flag overrides
func (app *App) setup() error {
	if app.flags.debug {
		app.Logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(app.flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if app.flags.root != "" {
		cfg.SteamRoot = config.ExpandPath(app.flags.root)
	}
	if app.flags.cachePath != "" {
		cfg.CachePath = config.ExpandPath(app.flags.cachePath)
	}
	app.Config = cfg

	app.Logger.Debug("config loaded", "first_run", cfg.FirstRun, "root", cfg.SteamRoot, "cache", cfg.CachePath)
	return nil
}

// newScanner returns a scanner for the configured (or default) Steam root
func (app *App) newScanner() (*scanner.Scanner, error) {
	root := app.Config.SteamRoot
	if root == "" {
		var err error
		root, err = scanner.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	return scanner.New(scanner.Options{
		Root:   root,
		Logger: app.Logger.WithPrefix("scanner"),
	}), nil
}

func (app *App) cacheStore() *cache.Store {
	return cache.New(app.Config.CachePath)
}

// Wait blocks until background work started by a command has finished
func (app *App) Wait() {
	app.background.Wait()
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (built: %s)", Version, BuildTime)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	app.Wait()

	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
