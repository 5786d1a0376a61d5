package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"steampick/internal/config"
	"steampick/internal/menu"
	"steampick/internal/models"

	"github.com/charmbracelet/log"
)

// fakeMenu picks the game named choice, or nothing when choice is empty
type fakeMenu struct {
	choice string
	shown  []models.Game
}

func (m *fakeMenu) Name() string      { return "fake" }
func (m *fakeMenu) IsInstalled() bool { return true }

func (m *fakeMenu) Select(_ context.Context, games []models.Game) (models.Game, bool, error) {
	m.shown = games
	g, ok := models.FindByName(games, m.choice)
	return g, ok, nil
}

// fakeLauncher records launched app ids. missing makes it report the
// command as absent from PATH.
type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
	missing  bool
}

func (l *fakeLauncher) Command() string   { return "steam" }
func (l *fakeLauncher) IsInstalled() bool { return !l.missing }

func (l *fakeLauncher) Launch(appID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, appID)
	return nil
}

func (l *fakeLauncher) URI(appID string) string {
	return "steam://rungameid/" + appID
}

type testEnv struct {
	app      *App
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	menu     *fakeMenu
	launcher *fakeLauncher
	root     string
	cache    string
	config   string
}

// newTestEnv builds an App over a fake Steam root holding two games, a
// Proton runtime and playtime for app 10
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	env := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		menu:     &fakeMenu{},
		launcher: &fakeLauncher{},
		root:     filepath.Join(dir, ".steam"),
		cache:    filepath.Join(dir, "cache", "games.json"),
		config:   filepath.Join(dir, "config.yaml"),
	}

	apps := filepath.Join(env.root, "steam", "steamapps")
	writeFile(t, filepath.Join(apps, "appmanifest_10.acf"),
		"\"AppState\"\n{\n\t\"appid\"\t\t\"10\"\n\t\"name\"\t\t\"Older Game\"\n\t\"LastPlayed\"\t\t\"100\"\n}\n")
	writeFile(t, filepath.Join(apps, "appmanifest_20.acf"),
		"\"AppState\"\n{\n\t\"appid\"\t\t\"20\"\n\t\"name\"\t\t\"Newer Game\"\n\t\"LastPlayed\"\t\t\"200\"\n}\n")
	writeFile(t, filepath.Join(apps, "appmanifest_30.acf"),
		"\"AppState\"\n{\n\t\"appid\"\t\t\"30\"\n\t\"name\"\t\t\"Proton 8.0\"\n\t\"LastPlayed\"\t\t\"300\"\n}\n")
	writeFile(t, filepath.Join(env.root, "steam", "userdata", "1", "config", "localconfig.vdf"),
		"\"UserLocalConfigStore\"\n{\n\t\"apps\"\n\t{\n\t\t\"10\"\n\t\t{\n\t\t\t\"Playtime\"\t\t\"90\"\n\t\t}\n\t}\n}\n")

	env.app = NewApp(Dependencies{
		Stdout: env.stdout,
		Stderr: env.stderr,
		NewMenu: func(config.MenuConfig, *log.Logger) (menu.Menu, error) {
			return env.menu, nil
		},
		NewLauncher: func(config.LauncherConfig, *log.Logger) Launcher {
			return env.launcher
		},
	})
	return env
}

// run executes args with the env's root, cache and config flags
func (e *testEnv) run(args ...string) error {
	cmd := NewRootCommand(e.app)
	cmd.SetArgs(append([]string{"--root", e.root, "--cache", e.cache, "--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	e.app.Wait()
	return err
}

// writeFile creates path and its parent directories
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
