// Package scanner discovers the games installed in a Steam installation.
//
// A scan resolves every library folder listed in the primary library's
// libraryfolders.vdf, reads the app manifests in each library, joins them with
// playtime from every local user profile, and returns a filtered, deduplicated
// list ordered by most recently played.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"steampick/internal/models"

	"github.com/charmbracelet/log"
)

// ErrRootUnusable is returned when the Steam root cannot be used at all
var ErrRootUnusable = errors.New("steam root is unusable")

// Layout of a Steam root
const (
	steamDir         = "steam"
	steamappsDir     = "steamapps"
	userdataDir      = "userdata"
	libraryIndexFile = "libraryfolders.vdf"
)

// Options configures a Scanner
type Options struct {
	Root   string      // Steam root, usually ~/.steam
	Logger *log.Logger // Optional, discards output when nil
}

// Scanner detects installed games under one Steam root. It keeps no state
// between scans.
type Scanner struct {
	root   string
	logger *log.Logger
}

// New creates a new Scanner
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{
		root:   opts.Root,
		logger: logger,
	}
}

// DefaultRoot returns ~/.steam
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot determine home directory: %w", ErrRootUnusable, err)
	}
	return filepath.Join(home, ".steam"), nil
}

// Discover scans the Steam root with a quiet scanner
func Discover(root string) ([]models.Game, error) {
	return New(Options{Root: root}).Scan()
}

// Root returns the Steam root being scanned
func (s *Scanner) Root() string {
	return s.root
}

// PrimaryLibrary returns the library that ships with the Steam client
func (s *Scanner) PrimaryLibrary() string {
	return filepath.Join(s.root, steamDir)
}

// LibraryIndexPath returns the path of libraryfolders.vdf
func (s *Scanner) LibraryIndexPath() string {
	return filepath.Join(s.PrimaryLibrary(), steamappsDir, libraryIndexFile)
}

// UserdataDir returns the directory holding one subdirectory per profile
func (s *Scanner) UserdataDir() string {
	return filepath.Join(s.PrimaryLibrary(), userdataDir)
}

// ManifestDir returns the steamapps directory of a library root
func ManifestDir(library string) string {
	return filepath.Join(library, steamappsDir)
}

// Libraries returns the library roots to scan. When the index is missing or
// lists nothing, the primary library is the only one.
func (s *Scanner) Libraries() ([]string, error) {
	libraries, err := ResolveLibraries(s.LibraryIndexPath())
	if err != nil {
		return nil, err
	}
	if len(libraries) == 0 {
		s.logger.Debug("no library index entries, using primary library", "path", s.PrimaryLibrary())
		libraries = []string{s.PrimaryLibrary()}
	}
	return libraries, nil
}

// checkRoot fails when the root is empty, unreadable or a file. A root that
// does not exist is not an error; exists is false and there is nothing to scan.
func (s *Scanner) checkRoot() (exists bool, err error) {
	if s.root == "" {
		return false, fmt.Errorf("%w: no root configured", ErrRootUnusable)
	}
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRootUnusable, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s is not a directory", ErrRootUnusable, s.root)
	}
	return true, nil
}

// Scan returns every installed game, most recently played first
func (s *Scanner) Scan() ([]models.Game, error) {
	start := time.Now()
	s.logger.Debug("starting scan", "root", s.root)

	exists, err := s.checkRoot()
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Debug("steam root does not exist", "root", s.root)
		return []models.Game{}, nil
	}

	libraries, err := s.Libraries()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("resolved libraries", "count", len(libraries))

	playtimes := s.CollectPlaytime(s.UserdataDir())
	s.logger.Debug("collected playtime", "apps", len(playtimes))

	seen := make(map[string]bool)
	games := []models.Game{}

	for _, library := range libraries {
		dir := ManifestDir(library)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			s.logger.Debug("library has no steamapps directory", "library", library)
			continue
		}

		for _, game := range s.ScanManifests(dir) {
			if !game.IsGame() {
				s.logger.Debug("skipping non-game entry", "name", game.Name, "appid", game.AppID)
				continue
			}
			if seen[game.AppID] {
				continue
			}
			seen[game.AppID] = true

			game.PlaytimeMinutes = playtimes[game.AppID]
			games = append(games, game)
		}
	}

	models.SortGames(games)

	s.logger.Debug("scan completed", "games", len(games), "elapsed", time.Since(start))
	return games, nil
}
