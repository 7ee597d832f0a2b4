// Package keymap defines key bindings and action dispatch for the lyric window.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit    Action = "quit"
	ActionDismiss Action = "dismiss" // esc - clear the status message

	// Player binding
	ActionDisconnect Action = "disconnect"
	ActionConnect    Action = "connect"

	// Lyrics
	ActionReload  Action = "reload"
	ActionRefetch Action = "refetch"
	ActionRemove  Action = "remove"
	ActionImport  Action = "import"

	// Offset
	ActionOffsetUp   Action = "offset_up"
	ActionOffsetDown Action = "offset_down"
)
