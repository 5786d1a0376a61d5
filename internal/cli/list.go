package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"steampick/internal/models"
	"steampick/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

type listFlags struct {
	json  bool
	limit int
	fresh bool
}

func newListCommand(app *App) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed games, most recently played first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runList(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "print the list as JSON")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "show at most N games (0 = all)")
	cmd.Flags().BoolVar(&flags.fresh, "fresh", false, "scan instead of reading the cache")

	return cmd
}

func (app *App) runList(flags listFlags) error {
	if flags.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	var games []models.Game
	var err error
	if flags.fresh {
		games, err = app.refresh()
	} else {
		var cached bool
		games, cached, err = app.loadGames()
		if cached {
			app.refreshInBackground()
		}
	}
	if err != nil {
		return err
	}

	if flags.limit > 0 && len(games) > flags.limit {
		games = games[:flags.limit]
	}

	if flags.json {
		return writeGamesJSON(app.stdout, games)
	}
	writeGamesTable(app.stdout, games)
	return nil
}

// writeGamesJSON prints games as indented JSON, highlighted on a terminal
func writeGamesJSON(w io.Writer, games []models.Game) error {
	if games == nil {
		games = []models.Game{}
	}
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("encode games: %w", err)
	}

	out := string(data)
	if isTerminal(w) {
		out = ui.NewHighlighter().Highlight(out, "json")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// writeGamesTable prints games as a bordered table
func writeGamesTable(w io.Writer, games []models.Game) {
	if len(games) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No games installed"))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.DividerStyle).
		Headers("NAME", "APP ID", "PLAYTIME", "LAST PLAYED").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return ui.TableHeaderStyle.Padding(0, 1)
			}
			switch col {
			case 1:
				return base.Inherit(ui.AppIDStyle).Align(lipgloss.Right)
			case 2:
				return base.Inherit(ui.PlaytimeStyle).Align(lipgloss.Right)
			case 3:
				return base.Inherit(ui.LastPlayedStyle)
			}
			return base
		})

	for _, g := range games {
		t.Row(g.Name, g.AppID, g.PlaytimeString(), g.LastPlayedString())
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, ui.MutedStyle.Render(fmt.Sprintf("%d games", len(games))))
}
