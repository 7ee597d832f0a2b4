package engine

import "github.com/llehouerou/lyricsync/internal/track"

// StatusChange is emitted when the classification of the bound player
// changes. Status is "playing", "paused", "missing" or "unsupported".
type StatusChange struct {
	Previous string
	Current  string
	// Reason is set for "unsupported".
	Reason string
}

// PlayerChange is emitted when a player is bound or unbound.
// Identity is empty after an unbind.
type PlayerChange struct {
	Identity string
}

// TrackChange is emitted when a different track starts playing, or when the
// track state is discarded (Current is nil).
type TrackChange struct {
	Previous *track.Meta
	Current  *track.Meta
}

// LyricsChange is emitted when lyrics are applied to the display, and when
// the display is emptied. A removed lyric has the track and no lines.
type LyricsChange struct {
	Track  track.Meta
	Source string
	Synced bool
	Lines  int
	// Cleared is set when the display was emptied without a lyric for any
	// track. Track is zero then.
	Cleared bool
}
