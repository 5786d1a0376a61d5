package components

import (
	"fmt"
	"strings"

	"steampick/internal/models"
	"steampick/internal/ui"
)

// GameList is a scrollable, filterable list of games. The cursor indexes
// the filtered view, never the underlying slice.
type GameList struct {
	Games   []models.Game
	Cursor  int
	Width   int
	Height  int
	Focused bool
	Title   string

	filter  string
	visible []int
}

// NewGameList creates a new game list
func NewGameList(games []models.Game) *GameList {
	l := &GameList{
		Games:   games,
		Width:   60,
		Height:  15,
		Focused: true,
		Title:   "Games",
	}
	l.refilter()
	return l
}

// SetFilter narrows the list to games whose name contains query,
// case-insensitively. The cursor returns to the top.
func (l *GameList) SetFilter(query string) {
	if query == l.filter {
		return
	}
	l.filter = query
	l.Cursor = 0
	l.refilter()
}

func (l *GameList) refilter() {
	l.visible = l.visible[:0]
	needle := strings.ToLower(l.filter)
	for i, g := range l.Games {
		if needle == "" || strings.Contains(strings.ToLower(g.Name), needle) {
			l.visible = append(l.visible, i)
		}
	}
	if l.Cursor >= len(l.visible) {
		l.Cursor = max(0, len(l.visible)-1)
	}
}

// Len returns the number of games passing the filter
func (l *GameList) Len() int {
	return len(l.visible)
}

// MoveUp moves cursor up
func (l *GameList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *GameList) MoveDown() {
	if l.Cursor < l.Len()-1 {
		l.Cursor++
	}
}

func (l *GameList) pageSize() int {
	pageSize := l.Height - 3
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize
}

// PageUp moves cursor up by a page
func (l *GameList) PageUp() {
	l.Cursor = max(0, l.Cursor-l.pageSize())
}

// PageDown moves cursor down by a page
func (l *GameList) PageDown() {
	l.Cursor = min(l.Cursor+l.pageSize(), max(0, l.Len()-1))
}

// GoToFirst moves cursor to the first item
func (l *GameList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last item
func (l *GameList) GoToLast() {
	if l.Len() > 0 {
		l.Cursor = l.Len() - 1
	}
}

// Current returns the game under the cursor
func (l *GameList) Current() (models.Game, bool) {
	if l.Cursor < 0 || l.Cursor >= l.Len() {
		return models.Game{}, false
	}
	return l.Games[l.visible[l.Cursor]], true
}

// View renders the game list
func (l *GameList) View() string {
	var b strings.Builder

	title := l.Title
	if l.filter != "" {
		title = fmt.Sprintf("%s (%d/%d)", l.Title, len(l.visible), len(l.Games))
	} else if len(l.Games) > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, len(l.Games))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, l.Width-2))))
	b.WriteString("\n")

	if len(l.visible) == 0 {
		msg := "No games installed"
		if l.filter != "" {
			msg = "No matches"
		}
		b.WriteString(ui.MutedStyle.Render("  " + msg))
		return b.String()
	}

	// Calculate visible range
	visibleHeight := max(1, l.Height-3)
	startIdx := 0
	if l.Cursor >= visibleHeight {
		startIdx = l.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(l.visible))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderItem(l.Games[l.visible[i]], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.visible) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	return b.String()
}

// renderItem renders a single game row: name, then playtime and last played
func (l *GameList) renderItem(g models.Game, isCursor bool) string {
	meta := fmt.Sprintf("%6s  %-10s", g.PlaytimeString(), g.LastPlayedString())
	nameWidth := max(10, l.Width-len(meta)-8)
	name := ui.Truncate(g.Name, nameWidth)
	padded := name + strings.Repeat(" ", max(0, nameWidth-len([]rune(name))))

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Render(ui.CursorStyle.Render("›") + " " + padded + "  " + meta)
	}
	return ui.ItemStyle.Render("  " + padded + "  " + ui.MutedStyle.Render(meta))
}
