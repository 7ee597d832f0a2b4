package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Player string
	Track  string
	Paused string
}

var (
	nerdIcons = Icons{
		Player: "\U000f04c3 ", // nf-md-speaker
		Track:  "\uf001 ",     // nf-fa-music
		Paused: "\uf04c",      // nf-fa-pause
	}

	unicodeIcons = Icons{
		Player: "🔊 ",
		Track:  "🎵 ",
		Paused: "⏸",
	}

	noneIcons = Icons{
		Player: "",
		Track:  "",
		Paused: "paused",
	}

	// current holds the active icon set
	current = noneIcons
)

// Valid reports whether style names a known icon style.
func Valid(style string) bool {
	switch Style(style) {
	case StyleNerd, StyleUnicode, StyleNone:
		return true
	}
	return false
}

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// FormatPlayer formats a player identity with the appropriate icon.
func FormatPlayer(name string) string {
	return current.Player + name
}

// FormatTrack formats a track description with the appropriate icon.
func FormatTrack(name string) string {
	return current.Track + name
}

// Paused returns the paused indicator.
func Paused() string {
	return current.Paused
}
