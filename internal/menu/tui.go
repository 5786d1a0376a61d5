package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"steampick/internal/config"
	"steampick/internal/models"
	"steampick/internal/ui"
	"steampick/internal/ui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// TUI is the built-in terminal picker
type TUI struct {
	prompt string
	input  io.Reader
	output io.Writer
	logger *log.Logger
}

// NewTUI creates the terminal picker. It draws on stderr so stdout stays
// free for the chosen name.
func NewTUI(cfg config.MenuConfig, logger *log.Logger) *TUI {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TUI{
		prompt: cfg.Prompt,
		input:  os.Stdin,
		output: os.Stderr,
		logger: logger,
	}
}

// Name returns the display name
func (t *TUI) Name() string {
	return "tui"
}

// IsInstalled always reports true
func (t *TUI) IsInstalled() bool {
	return true
}

// Select runs the picker until a game is chosen or the user cancels
func (t *TUI) Select(ctx context.Context, games []models.Game) (models.Game, bool, error) {
	if len(games) == 0 {
		return models.Game{}, false, nil
	}

	p := tea.NewProgram(
		newPicker(games, t.prompt),
		tea.WithContext(ctx),
		tea.WithInput(t.input),
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return models.Game{}, false, ctxErr
		}
		return models.Game{}, false, fmt.Errorf("menu: %w", err)
	}

	m, ok := final.(picker)
	if !ok || !m.selected {
		t.logger.Debug("picker dismissed")
		return models.Game{}, false, nil
	}
	return m.choice, true, nil
}

// picker is the bubbletea model behind TUI
type picker struct {
	list  *components.GameList
	input textinput.Model
	keys  ui.KeyMap
	help  help.Model

	choice   models.Game
	selected bool
}

func newPicker(games []models.Game, prompt string) picker {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	if prompt != "" {
		ti.Prompt = prompt + ": "
	}
	ti.Focus()

	h := help.New()
	h.Styles.ShortKey = ui.HelpKeyStyle
	h.Styles.ShortDesc = ui.HelpDescStyle
	h.Styles.FullKey = ui.HelpKeyStyle
	h.Styles.FullDesc = ui.HelpDescStyle

	return picker{
		list:  components.NewGameList(games),
		input: ti,
		keys:  ui.DefaultKeyMap(),
		help:  h,
	}
}

func (m picker) Init() tea.Cmd {
	return textinput.Blink
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.Width = msg.Width - 2
		m.list.Height = msg.Height - 4 // Prompt, blank line and help bar
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			if g, ok := m.list.Current(); ok {
				m.choice = g
				m.selected = true
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.list.MoveUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.list.MoveDown()
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.list.PageUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.list.PageDown()
			return m, nil
		case key.Matches(msg, m.keys.Home):
			m.list.GoToFirst()
			return m, nil
		case key.Matches(msg, m.keys.End):
			m.list.GoToLast()
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			m.input.SetValue("")
			m.list.SetFilter("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.list.SetFilter(m.input.Value())
	return m, cmd
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return ui.AppStyle.Render(b.String())
}
