package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"steampick/internal/models"
	"steampick/internal/vdf"
)

const (
	manifestPrefix = "appmanifest_"
	manifestExt    = ".acf"
)

// isManifestName reports whether a directory entry is an app manifest.
// Matching is case-sensitive.
func isManifestName(name string) bool {
	return strings.HasPrefix(name, manifestPrefix) && strings.HasSuffix(name, manifestExt)
}

// ParseManifest extracts the app id, name and last played time from an
// appmanifest_<id>.acf file. It returns false when the name or app id is
// missing; LastPlayed defaults to 0 when absent or not a number.
func ParseManifest(data []byte) (models.Game, bool) {
	var game models.Game
	var hasName, hasAppID bool

	for _, line := range vdf.Lines(data) {
		key, value, ok := vdf.Pair(line)
		if !ok {
			continue
		}

		switch key {
		case "name":
			game.Name = value
			hasName = true
		case "appid":
			game.AppID = value
			hasAppID = true
		case "LastPlayed":
			if n, err := strconv.ParseUint(value, 10, 64); err == nil {
				game.LastPlayed = n
			}
		}
	}

	if !hasName || !hasAppID || game.Name == "" || game.AppID == "" {
		return models.Game{}, false
	}
	return game, true
}

// readDir is swapped in tests to simulate a listing that fails part way
var readDir = os.ReadDir

// ScanManifests parses every app manifest in a library's steamapps directory.
// Results follow directory order. A listing that fails part way still yields
// the entries read before the failure. Unreadable files and incomplete
// manifests are skipped.
func (s *Scanner) ScanManifests(dir string) []models.Game {
	entries, err := readDir(dir)
	if err != nil {
		s.logger.Debug("incomplete library listing", "dir", dir, "read", len(entries), "err", err)
	}

	var games []models.Game
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isManifestName(name) {
			continue
		}

		path := filepath.Join(dir, name)
		res := readFile(path)
		if res.Status != ReadOK {
			s.logger.Debug("skipping manifest", "path", path, "status", res.Status, "err", res.Err)
			continue
		}

		game, ok := ParseManifest(res.Data)
		if !ok {
			s.logger.Debug("incomplete manifest", "path", path)
			continue
		}
		games = append(games, game)
	}

	return games
}
