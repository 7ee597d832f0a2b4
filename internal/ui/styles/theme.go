package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles of the lyric window.
type Theme struct {
	// Current line gradient
	Primary   lipgloss.Color // Purple, gradient start
	Secondary lipgloss.Color // Gold/orange, gradient end

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color // Prompt titles
	FgMuted  lipgloss.Color // Next line
	FgSubtle lipgloss.Color // Header and help

	// Prompt border
	Border lipgloss.Color

	// Status colors
	Error   lipgloss.Color // Red - action failures
	Warning lipgloss.Color // Yellow/orange - unsupported player

	styles *Styles
}

// Styles contains pre-built lipgloss styles for the lyric window.
type Styles struct {
	Muted   lipgloss.Style // Next lyric line
	Subtle  lipgloss.Style // Header, help, hints
	Title   lipgloss.Style // Bold prompt title
	Prompt  lipgloss.Style // Bordered input box
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border: lipgloss.Color("#a78bfa"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  lipgloss.NewStyle().Foreground(t.FgBase).Bold(true),
		Prompt: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
