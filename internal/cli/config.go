package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"steampick/internal/config"
	"steampick/internal/ui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage steampick configuration",
		Long: `Manage steampick configuration.

Configuration is read from $XDG_CONFIG_HOME/steampick/config.yaml
(~/.config/steampick/config.yaml by default). Every key can be overridden
with a STEAMPICK_ environment variable, e.g. STEAMPICK_MENU_BACKEND=tui.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig()
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig(force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.stdout, app.configPath())
			return nil
		},
	})

	return cfgCmd
}

func (app *App) configPath() string {
	if app.flags.configPath != "" {
		return app.flags.configPath
	}
	return config.ConfigPath()
}

func (app *App) showConfig() error {
	data, err := yaml.Marshal(app.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	source := app.configPath()
	if app.Config.FirstRun {
		source += " " + ui.MutedStyle.Render("(not found, using defaults)")
	}
	fmt.Fprintf(app.stdout, "%s %s\n\n", ui.TitleStyle.Render("Config file:"), source)

	out := string(data)
	if isTerminal(app.stdout) {
		out = ui.NewHighlighter().Highlight(out, "yaml")
	}
	fmt.Fprint(app.stdout, out)
	return nil
}

func (app *App) initConfig(force bool) error {
	path := app.configPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check config: %w", err)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, ui.RenderNotification("success", "Wrote "+path))
	return nil
}
