package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"steampick/internal/scanner"

	"github.com/fsnotify/fsnotify"
)

func startWatcher(t *testing.T, cfg Config) (*Watcher, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return w, cancel, errCh
}

func TestWatcherDebounce(t *testing.T) {
	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	_, cancel, errCh := startWatcher(t, Config{
		Targets:  func() []string { return []string{dir} },
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	defer cancel()

	for _, id := range []string{"10", "20", "30"} {
		path := filepath.Join(dir, "appmanifest_"+id+".acf")
		if err := os.WriteFile(path, []byte(`"AppState" {}`), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, id := range []string{"10", "20", "30"} {
		want := filepath.Join(dir, "appmanifest_"+id+".acf")
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan []string, 10)

	_, cancel, errCh := startWatcher(t, Config{
		Targets:  func() []string { return []string{dir} },
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "downloading.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-fired:
		t.Errorf("unexpected callback for %v", changed)
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherPicksUpNewTargets(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(t.TempDir(), "steamapps")

	var mu sync.Mutex
	targets := []string{dir}
	fired := make(chan struct{}, 10)

	w, cancel, errCh := startWatcher(t, Config{
		Targets: func() []string {
			mu.Lock()
			defer mu.Unlock()
			return slices.Clone(targets)
		},
		Debounce: 50 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			fired <- struct{}{}
			return nil
		},
	})
	defer cancel()

	if err := os.MkdirAll(extra, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	mu.Lock()
	targets = append(targets, extra)
	mu.Unlock()

	if err := os.WriteFile(filepath.Join(dir, "libraryfolders.vdf"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !slices.Contains(w.Watched(), extra) {
		if time.Now().After(deadline) {
			t.Fatalf("new target was not watched: %v", w.Watched())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherContextCancel(t *testing.T) {
	dir := t.TempDir()
	_, cancel, errCh := startWatcher(t, Config{
		Targets: func() []string { return []string{dir} },
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() should return nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcherRunTwice(t *testing.T) {
	dir := t.TempDir()
	w, cancel, errCh := startWatcher(t, Config{
		Targets: func() []string { return []string{dir} },
	})
	defer func() {
		cancel()
		<-errCh
	}()

	// Let the first Run claim the watcher
	time.Sleep(50 * time.Millisecond)
	if err := w.Run(context.Background()); err == nil {
		t.Error("second Run() should fail")
	}
}

func TestNew_NoTargets(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := New(Config{Targets: func() []string { return []string{missing} }}); err == nil {
		t.Error("New() should fail when no target exists")
	}
}

func TestIsRelevant(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{"manifest write", fsnotify.Event{Name: "/l/steamapps/appmanifest_620.acf", Op: fsnotify.Write}, true},
		{"manifest removed", fsnotify.Event{Name: "/l/steamapps/appmanifest_620.acf", Op: fsnotify.Remove}, true},
		{"index", fsnotify.Event{Name: "/r/steamapps/libraryfolders.vdf", Op: fsnotify.Create}, true},
		{"localconfig", fsnotify.Event{Name: "/u/1/config/localconfig.vdf", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/l/steamapps/appmanifest_620.acf", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/l/steamapps/workshop.vdf", Op: fsnotify.Write}, false},
		{"new directory", fsnotify.Event{Name: dir, Op: fsnotify.Create}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRelevant(tt.evt); got != tt.want {
				t.Errorf("isRelevant(%v) = %v, want %v", tt.evt, got, tt.want)
			}
		})
	}
}

func TestTargets(t *testing.T) {
	root := t.TempDir()
	external := filepath.Join(t.TempDir(), "games")
	primary := filepath.Join(root, "steam")

	for _, d := range []string{
		filepath.Join(primary, "steamapps"),
		filepath.Join(primary, "userdata", "111", "config"),
		filepath.Join(primary, "userdata", "222", "config"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	index := "\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\"" + primary + "\"\n\t}\n\t\"1\"\n\t{\n\t\t\"path\"\t\t\"" + external + "\"\n\t}\n}\n"
	if err := os.WriteFile(filepath.Join(primary, "steamapps", "libraryfolders.vdf"), []byte(index), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	got := Targets(scanner.New(scanner.Options{Root: root}))
	want := []string{
		filepath.Join(primary, "steamapps"),
		filepath.Join(primary, "userdata"),
		filepath.Join(primary, "userdata", "111", "config"),
		filepath.Join(primary, "userdata", "222", "config"),
		filepath.Join(external, "steamapps"),
	}
	slices.Sort(want)

	if !slices.Equal(got, want) {
		t.Errorf("Targets() = %v\nwant %v", got, want)
	}
}

func TestWatcherWaitsForCallbackOnCancel(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})
	var (
		once     sync.Once
		finished atomic.Bool
	)

	_, cancel, errCh := startWatcher(t, Config{
		Targets:  func() []string { return []string{dir} },
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, _ []string) error {
			once.Do(func() { close(started) })
			<-release
			finished.Store(true)
			return nil
		},
	})
	defer cancel()

	path := filepath.Join(dir, "appmanifest_10.acf")
	if err := os.WriteFile(path, []byte(`"AppState" {}`), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	cancel()
	select {
	case err := <-errCh:
		t.Fatalf("Run() returned while the callback was running: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after the callback finished")
	}
	if !finished.Load() {
		t.Error("callback should have completed before Run returned")
	}
}
