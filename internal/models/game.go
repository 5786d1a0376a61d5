package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Game represents an installed Steam application
type Game struct {
	Name            string `json:"name"`             // Display name from the app manifest
	AppID           string `json:"appid"`            // Steam application id
	LastPlayed      uint64 `json:"last_played"`      // Epoch seconds, 0 if never played
	PlaytimeMinutes uint64 `json:"playtime_minutes"` // Total playtime, 0 if unknown
}

// nonGamePatterns are lower-cased name fragments of installed Steam tooling
// that should never be offered as games.
var nonGamePatterns = []string{
	"proton",
	"steam linux runtime",
	"steamworks common redistributables",
}

// IsGame reports whether the entry is a user-facing game
func (g Game) IsGame() bool {
	name := strings.ToLower(g.Name)
	for _, pattern := range nonGamePatterns {
		if strings.Contains(name, pattern) {
			return false
		}
	}
	return true
}

// LastPlayedTime returns LastPlayed as a time, or the zero time if never played
func (g Game) LastPlayedTime() time.Time {
	if g.LastPlayed == 0 {
		return time.Time{}
	}
	return time.Unix(int64(g.LastPlayed), 0)
}

// PlaytimeHours returns the playtime in hours
func (g Game) PlaytimeHours() float64 {
	return float64(g.PlaytimeMinutes) / 60
}

// PlaytimeString returns a short human-readable playtime
func (g Game) PlaytimeString() string {
	switch {
	case g.PlaytimeMinutes == 0:
		return "-"
	case g.PlaytimeMinutes < 60:
		return fmt.Sprintf("%dm", g.PlaytimeMinutes)
	default:
		return fmt.Sprintf("%.1fh", g.PlaytimeHours())
	}
}

// LastPlayedString returns the last played date, or "never"
func (g Game) LastPlayedString() string {
	if g.LastPlayed == 0 {
		return "never"
	}
	return g.LastPlayedTime().Local().Format("2006-01-02")
}

// CompareGames orders games by most recently played first, breaking ties by
// ascending app id so equal timestamps always produce the same order.
func CompareGames(a, b Game) int {
	switch {
	case a.LastPlayed > b.LastPlayed:
		return -1
	case a.LastPlayed < b.LastPlayed:
		return 1
	}
	return strings.Compare(a.AppID, b.AppID)
}

// SortGames sorts games in place with CompareGames
func SortGames(games []Game) {
	slices.SortFunc(games, CompareGames)
}

// FindByName returns the first game whose name equals name exactly
func FindByName(games []Game, name string) (Game, bool) {
	for _, g := range games {
		if g.Name == name {
			return g, true
		}
	}
	return Game{}, false
}

// FindByAppID returns the game with the given app id
func FindByAppID(games []Game, appID string) (Game, bool) {
	for _, g := range games {
		if g.AppID == appID {
			return g, true
		}
	}
	return Game{}, false
}

// Names returns the display names in list order
func Names(games []Game) []string {
	names := make([]string, len(games))
	for i, g := range games {
		names[i] = g.Name
	}
	return names
}

// PlaytimeTable maps app ids to minutes played
type PlaytimeTable map[string]uint64

// Merge folds other into t, keeping the larger value for each app id
func (t PlaytimeTable) Merge(other PlaytimeTable) {
	for appID, minutes := range other {
		if current, ok := t[appID]; !ok || minutes > current {
			t[appID] = minutes
		}
	}
}
