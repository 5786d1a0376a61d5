package cache

import (
	"slices"
	"testing"

	"steampick/internal/models"
)

func TestDiff(t *testing.T) {
	before := []models.Game{
		{Name: "Portal 2", AppID: "620", LastPlayed: 300},
		{Name: "Half-Life", AppID: "70", LastPlayed: 200},
		{Name: "Portal", AppID: "400", LastPlayed: 100},
	}
	after := []models.Game{
		{Name: "Half-Life", AppID: "70", LastPlayed: 500, PlaytimeMinutes: 10},
		{Name: "Portal 2", AppID: "620", LastPlayed: 300},
		{Name: "Hades", AppID: "1145360"},
	}

	changes := Diff(before, after)

	if got := models.Names(changes.Added); !slices.Equal(got, []string{"Hades"}) {
		t.Errorf("Added = %v, want [Hades]", got)
	}
	if got := models.Names(changes.Removed); !slices.Equal(got, []string{"Portal"}) {
		t.Errorf("Removed = %v, want [Portal]", got)
	}
}

func TestDiff_NoChanges(t *testing.T) {
	games := []models.Game{
		{Name: "Portal 2", AppID: "620"},
		{Name: "Half-Life", AppID: "70"},
	}
	reordered := []models.Game{games[1], games[0]}
	reordered[0].LastPlayed = 999

	if changes := Diff(games, reordered); !changes.Empty() {
		t.Errorf("Reordering and play updates are not changes: %+v", changes)
	}
}

func TestDiff_Rename(t *testing.T) {
	before := []models.Game{{Name: "Old Title", AppID: "10"}}
	after := []models.Game{{Name: "New Title", AppID: "10"}}

	changes := Diff(before, after)
	if len(changes.Added) != 1 || len(changes.Removed) != 1 {
		t.Errorf("Rename should show as remove and add: %+v", changes)
	}
}

func TestDiff_FromEmpty(t *testing.T) {
	after := []models.Game{{Name: "Portal 2", AppID: "620"}, {Name: "Half-Life", AppID: "70"}}

	changes := Diff(nil, after)
	if len(changes.Added) != 2 || len(changes.Removed) != 0 {
		t.Errorf("Everything should be added: %+v", changes)
	}

	changes = Diff(after, nil)
	if len(changes.Removed) != 2 || len(changes.Added) != 0 {
		t.Errorf("Everything should be removed: %+v", changes)
	}
}
