package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colours JSON and YAML output for the terminal
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
	}
}

// Highlight colours src using the lexer for format ("json" or "yaml").
// Unknown formats are returned unchanged.
func (h *Highlighter) Highlight(src, format string) string {
	lexer := lexers.Get(format)
	if lexer == nil {
		return src
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := h.style.Get(token.Type)
		text := token.Value

		if style.Colour.IsSet() {
			styled := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Colour.String()))
			if style.Bold == chroma.Yes {
				styled = styled.Bold(true)
			}
			// Render per line so styles never span a newline
			lines := strings.Split(text, "\n")
			for i, line := range lines {
				if i > 0 {
					result.WriteString("\n")
				}
				if line != "" {
					result.WriteString(styled.Render(line))
				}
			}
		} else {
			result.WriteString(text)
		}
	}

	return result.String()
}
