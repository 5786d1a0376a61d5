package cache

import (
	"slices"
	"strings"

	"steampick/internal/models"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Changes lists the games installed or uninstalled between two lists.
// Playtime and last played updates are not changes.
type Changes struct {
	Added   []models.Game
	Removed []models.Game
}

// Empty reports whether nothing was added or removed
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares two game lists by app id and name
func Diff(before, after []models.Game) Changes {
	oldText, oldIndex := listing(before)
	newText, newIndex := listing(after)

	// Line mode: each game is one line of the listing
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var changes Changes
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				if g, ok := newIndex[line]; ok {
					changes.Added = append(changes.Added, g)
				}
			case diffmatchpatch.DiffDelete:
				if g, ok := oldIndex[line]; ok {
					changes.Removed = append(changes.Removed, g)
				}
			}
		}
	}
	return changes
}

// listing renders games one per line in app id order, with a lookup from
// line back to game
func listing(games []models.Game) (string, map[string]models.Game) {
	sorted := slices.Clone(games)
	slices.SortFunc(sorted, func(a, b models.Game) int {
		return strings.Compare(a.AppID, b.AppID)
	})

	var b strings.Builder
	index := make(map[string]models.Game, len(sorted))
	for _, g := range sorted {
		line := g.AppID + "\t" + g.Name
		index[line] = g
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), index
}
