package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	SteamRoot string         `mapstructure:"steam_root" yaml:"steam_root"` // Empty = ~/.steam
	CachePath string         `mapstructure:"cache_path" yaml:"cache_path"` // Cached game list
	Menu      MenuConfig     `mapstructure:"menu" yaml:"menu"`
	Launcher  LauncherConfig `mapstructure:"launcher" yaml:"launcher"`
	Watch     WatchConfig    `mapstructure:"watch" yaml:"watch"`
	FirstRun  bool           `mapstructure:"-" yaml:"-"` // No config file was found
}

// MenuConfig selects and configures the game picker
type MenuConfig struct {
	// Backend is "auto", "rofi" or "tui". Auto uses rofi when it is on PATH.
	Backend string   `mapstructure:"backend" yaml:"backend"`
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args"`
	Prompt  string   `mapstructure:"prompt" yaml:"prompt"`
}

// LauncherConfig describes how a selected game is started
type LauncherConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
	// URITemplate is passed to Command with {appid} replaced
	URITemplate string `mapstructure:"uri_template" yaml:"uri_template"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce string `mapstructure:"debounce" yaml:"debounce"` // Go duration, e.g. "2s"
}

// Menu backends
const (
	BackendAuto = "auto"
	BackendRofi = "rofi"
	BackendTUI  = "tui"
)

const (
	appName        = "steampick"
	configFileName = "config.yaml"
	envPrefix      = "STEAMPICK"
	cacheFileName  = ".launchablegames"
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		SteamRoot: "",
		CachePath: filepath.Join(homeDir(), cacheFileName),
		Menu: MenuConfig{
			Backend: BackendAuto,
			Command: "rofi",
			Args:    []string{"-monitor", "1", "-i", "-dmenu", "-sync"},
			Prompt:  "launch",
		},
		Launcher: LauncherConfig{
			Command:     "steam",
			URITemplate: "steam://rungameid/{appid}",
		},
		Watch: WatchConfig{
			Debounce: "2s",
		},
		FirstRun: true,
	}
}

// ConfigDir returns the directory containing steampick config files
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

// homeDir returns the user's home directory, or "~" when it cannot be
// determined so paths stay home-relative instead of landing in the working
// directory or at the filesystem root
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "~"
	}
	return home
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// setDefaults registers every key so environment overrides apply to them
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("steam_root", d.SteamRoot)
	v.SetDefault("cache_path", d.CachePath)
	v.SetDefault("menu.backend", d.Menu.Backend)
	v.SetDefault("menu.command", d.Menu.Command)
	v.SetDefault("menu.args", d.Menu.Args)
	v.SetDefault("menu.prompt", d.Menu.Prompt)
	v.SetDefault("launcher.command", d.Launcher.Command)
	v.SetDefault("launcher.uri_template", d.Launcher.URITemplate)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Load loads the configuration from path, or from ConfigPath when path is
// empty. A missing file is not an error: defaults are returned with FirstRun
// set. STEAMPICK_* environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	firstRun := false
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// First run - defaults only
		firstRun = true
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.FirstRun = firstRun
	cfg.SteamRoot = ExpandPath(cfg.SteamRoot)
	cfg.CachePath = ExpandPath(cfg.CachePath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration to path, or to ConfigPath when path is empty
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values that viper cannot type-check
func (c *Config) Validate() error {
	switch c.Menu.Backend {
	case BackendAuto, BackendRofi, BackendTUI:
	default:
		return fmt.Errorf("unknown menu backend %q (want auto, rofi or tui)", c.Menu.Backend)
	}
	if strings.TrimSpace(c.Launcher.Command) == "" {
		return fmt.Errorf("launcher command is required")
	}
	if !strings.Contains(c.Launcher.URITemplate, "{appid}") {
		return fmt.Errorf("launcher uri_template must contain {appid}")
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// DebounceDuration parses Watch.Debounce
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch debounce: %w", err)
	}
	return d, nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home := homeDir()
		if home == "~" {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
