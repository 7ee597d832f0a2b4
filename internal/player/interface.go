// Package player abstracts the external media players the sync engine observes.
package player

import (
	"errors"
	"time"

	"github.com/llehouerou/lyricsync/internal/track"
)

// ErrNotFound is returned by a Finder when no matching player is available.
var ErrNotFound = errors.New("no active player found")

// Player is a handle on a running media player.
type Player interface {
	// IsRunning reports whether the player process/service is still reachable.
	IsRunning() bool
	// Identity is a human readable name, e.g. "Spotify" or "mpd@localhost:6600".
	Identity() string
	PlaybackStatus() (Status, error)
	Position() (time.Duration, error)
	Metadata() (track.Raw, error)
}

// Finder locates players. It keeps no state between calls.
type Finder interface {
	// FindActive returns the most relevant player: playing first, then paused,
	// then any. Returns ErrNotFound when there is none.
	FindActive() (Player, error)
	// Find returns the player whose identity or bus name matches id.
	Find(id string) (Player, error)
	// List returns the identities of all advertised players.
	List() ([]string, error)
}
