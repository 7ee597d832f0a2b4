// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Lyrics operations
	OpLyricsFetch   Op = "fetch lyrics"
	OpLyricsReload  Op = "reload lyrics"
	OpLyricsRefetch Op = "refetch lyrics"
	OpLyricsRemove  Op = "remove lyrics"
	OpLyricsImport  Op = "import lyrics"

	// Player operations
	OpPlayerConnect Op = "connect to player"
	OpPlayerList    Op = "list players"

	// Settings
	OpOffsetSave Op = "save lyric offset"
	OpPlayerSave Op = "remember player"

	// Cache
	OpCacheClear Op = "clear lyrics cache"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}
