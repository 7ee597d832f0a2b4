package engine

import (
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/track"
)

// SyncContext is the mutable state shared by the loop and its actions.
// It is only ever touched from the loop goroutine.
type SyncContext struct {
	Track    track.State
	Registry *Registry

	// generation increases whenever in-flight fetch results become stale.
	generation uint64
	// lastStatus is the statusKey of the last classification, "" when healthy.
	lastStatus string
}

// NewSyncContext returns an empty context searching players with finder.
func NewSyncContext(finder player.Finder) *SyncContext {
	return &SyncContext{Registry: NewRegistry(finder)}
}

// Generation returns the current fetch generation.
func (c *SyncContext) Generation() uint64 {
	return c.generation
}

func (c *SyncContext) nextGeneration() uint64 {
	c.generation++
	return c.generation
}
