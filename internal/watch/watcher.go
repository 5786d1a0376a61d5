// Package watch keeps the game cache current by re-scanning when Steam
// writes manifests, the library index or a profile's playtime file.
//
// Events are coalesced over a debounce window so an install, which touches
// several files in quick succession, triggers a single re-scan.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"steampick/internal/scanner"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 2 * time.Second

// relevantFiles are the base-name patterns whose changes affect the game list
var relevantFiles = []string{
	"appmanifest_*.acf",
	"libraryfolders.vdf",
	"localconfig.vdf",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Targets returns the directories to watch. It is called once at
		// startup and again after every callback, so libraries and profiles
		// that appear later are picked up.
		Targets func() []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to 2s.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the
		// changed paths. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		Logger *log.Logger
	}

	// Watcher fires a debounced callback when Steam metadata changes. Run
	// must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher and registers the initial targets
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
	}

	if w.addTargets() == 0 {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch: no directories to watch")
	}
	return w, nil
}

// Watched returns the directories currently registered
func (w *Watcher) Watched() []string {
	list := w.fsw.WatchList()
	slices.Sort(list)
	return list
}

// addTargets registers every target directory not yet watched and returns
// the total number of watched directories
func (w *Watcher) addTargets() int {
	if w.cfg.Targets == nil {
		return len(w.fsw.WatchList())
	}

	watched := make(map[string]struct{})
	for _, p := range w.fsw.WatchList() {
		watched[p] = struct{}{}
	}

	for _, dir := range w.cfg.Targets() {
		if _, ok := watched[dir]; ok {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "err", err)
			continue
		}
		watched[dir] = struct{}{}
		w.logger.Debug("watching", "dir", dir)
	}
	return len(watched)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu       sync.Mutex
		pending  = make(map[string]struct{})
		timer    *time.Timer
		stopped  bool
		running  atomic.Bool
		inflight sync.WaitGroup
	)

	// fire may run after cancellation, so it re-checks ctx. Overlapping runs
	// are skipped and retried after another debounce period. Run does not
	// return until every started fire has finished.
	fire := func() {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		inflight.Add(1)
		mu.Unlock()
		defer inflight.Done()

		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("re-scan still running, retrying later")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("re-scan failed", "err", err)
			}
		}
		w.addTargets()
	}

	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		inflight.Wait()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if !isRelevant(evt) {
				continue
			}
			w.logger.Debug("change", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// isRelevant reports whether evt can change the game list. New directories
// count too, since they may be a new profile or library.
func isRelevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return false
	}
	if matchesRelevant(filepath.Base(evt.Name)) {
		return true
	}
	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func matchesRelevant(base string) bool {
	for _, pat := range relevantFiles {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// Targets lists the directories whose contents feed a scan of s: every
// library's steamapps directory (the primary one holds the library index),
// the userdata directory and each profile's config directory.
func Targets(s *scanner.Scanner) []string {
	var dirs []string

	dirs = append(dirs, scanner.ManifestDir(s.PrimaryLibrary()))
	if libraries, err := s.Libraries(); err == nil {
		for _, lib := range libraries {
			dirs = append(dirs, scanner.ManifestDir(lib))
		}
	}

	userdata := s.UserdataDir()
	dirs = append(dirs, userdata)
	if profiles, err := os.ReadDir(userdata); err == nil {
		for _, p := range profiles {
			dirs = append(dirs, filepath.Join(userdata, p.Name(), "config"))
		}
	}

	slices.Sort(dirs)
	return slices.Compact(dirs)
}
