// Package theme holds the preview window catalog.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WindowType selects the chrome drawn around the preview.
type WindowType string

const (
	WindowDefault  WindowType = "default"
	WindowTerminal WindowType = "terminal"
	WindowEditor   WindowType = "editor"
)

// Theme describes how the preview window looks.
type Theme struct {
	ID         string
	Name       string
	Window     WindowType
	Background lipgloss.Color
	Text       lipgloss.Color
	Border     lipgloss.Color
	// Bar is the title bar (terminal) or tab strip (editor) background.
	Bar     lipgloss.Color
	BarText lipgloss.Color
	// Accent colors the active editor tab underline.
	Accent   lipgloss.Color
	FileName string
	Buttons  []lipgloss.Color
}

var catalog = map[string]Theme{
	"default": {
		ID:         "default",
		Name:       "Default",
		Window:     WindowDefault,
		Background: lipgloss.Color("#0A0A0A"),
		Text:       lipgloss.Color("#D0D0D0"),
		Border:     lipgloss.Color("#4A4A4A"),
	},
	"terminal": {
		ID:         "terminal",
		Name:       "Terminal",
		Window:     WindowTerminal,
		Background: lipgloss.Color("#1E1E1E"),
		Text:       lipgloss.Color("#33FF66"),
		Border:     lipgloss.Color("#3C3C3C"),
		Bar:        lipgloss.Color("#2D2D2D"),
		BarText:    lipgloss.Color("#9A9A9A"),
		FileName:   "bash",
		Buttons: []lipgloss.Color{
			lipgloss.Color("#FF5F56"),
			lipgloss.Color("#FFBD2E"),
			lipgloss.Color("#27C93F"),
		},
	},
	"editor": {
		ID:         "editor",
		Name:       "Editor",
		Window:     WindowEditor,
		Background: lipgloss.Color("#1E1E2E"),
		Text:       lipgloss.Color("#CDD6F4"),
		Border:     lipgloss.Color("#313244"),
		Bar:        lipgloss.Color("#181825"),
		BarText:    lipgloss.Color("#BAC2DE"),
		Accent:     lipgloss.Color("#89B4FA"),
		FileName:   "manifest.json",
	},
}

// Lookup returns the theme with id, falling back to the default theme.
func Lookup(id string) (Theme, bool) {
	t, ok := catalog[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return catalog["default"], false
	}
	return t, true
}

// IDs lists every theme id in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ContentWidth is the text width available inside a frame of outer width.
func (t Theme) ContentWidth(outer int) int {
	w := outer - 4
	if w < 1 {
		return 1
	}
	return w
}

// ChromeHeight is the number of rows the frame adds around the body.
func (t Theme) ChromeHeight() int {
	switch t.Window {
	case WindowTerminal, WindowEditor:
		return 3
	default:
		return 2
	}
}

// Frame draws body inside the theme's window at the given outer width.
func (t Theme) Frame(body string, outer int) string {
	inner := outer - 2
	if inner < 1 {
		inner = 1
	}
	parts := make([]string, 0, 2)
	switch t.Window {
	case WindowTerminal:
		parts = append(parts, t.titleBar(inner))
	case WindowEditor:
		parts = append(parts, t.tabBar(inner))
	}
	bodyStyle := lipgloss.NewStyle().
		Background(t.Background).
		Foreground(t.Text).
		Width(inner).
		Padding(0, 1)
	parts = append(parts, bodyStyle.Render(body))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(t.Border).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (t Theme) titleBar(width int) string {
	buttons := make([]string, 0, len(t.Buttons))
	for _, c := range t.Buttons {
		buttons = append(buttons, lipgloss.NewStyle().Foreground(c).Background(t.Bar).Render("●"))
	}
	bar := lipgloss.NewStyle().Background(t.Bar)
	left := strings.Join(buttons, bar.Render(" "))
	title := lipgloss.NewStyle().Foreground(t.BarText).Background(t.Bar).Render(t.FileName)
	return bar.Width(width).Padding(0, 1).Render(left + bar.Render("  ") + title)
}

func (t Theme) tabBar(width int) string {
	marker := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Render("▎")
	tab := lipgloss.NewStyle().
		Foreground(t.BarText).
		Background(t.Background).
		PaddingRight(1).
		Render(t.FileName)
	return lipgloss.NewStyle().Background(t.Bar).Width(width).Render(marker + tab)
}
