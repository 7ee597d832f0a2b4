// Package surface defines the display target the sync engine drives.
package surface

import (
	"sync"
	"time"
)

// Slot names one of the two status/lyric labels of a surface.
type Slot int

const (
	Above Slot = iota
	Below
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return "unknown"
	}
}

// Surface is a window (or window-like sink) showing synced lyrics.
type Surface interface {
	Label(slot Slot) string
	SetLabel(slot Slot, text string)

	// LyricOffset is the user skew in milliseconds. Positive values make
	// lines appear earlier.
	LyricOffset() int64
	SetLyricOffset(ms int64)

	// LyricStart is the instant matching playback position zero.
	LyricStart() (time.Time, bool)
	SetLyricStart(start time.Time)
	ClearLyricStart()

	// CacheLyrics reports whether fetched lyrics should be written to the cache.
	CacheLyrics() bool
}

// Base implements Surface with a mutex so renderers on other goroutines can
// read it. Embed it and set OnChange to get notified of label changes.
//
// Example:
//
//	type Window struct {
//	    surface.Base
//	    program *tea.Program
//	}
type Base struct {
	mu       sync.RWMutex
	labels   [2]string
	offsetMs int64
	start    time.Time
	hasStart bool
	cache    bool

	// OnChange is called without the lock held after a label changes.
	OnChange func(slot Slot, text string)
}

// NewBase returns a Base with the given offset and cache setting.
func NewBase(offsetMs int64, cacheLyrics bool) *Base {
	return &Base{offsetMs: offsetMs, cache: cacheLyrics}
}

// Init sets offset and cache setting on an embedded Base.
func (b *Base) Init(offsetMs int64, cacheLyrics bool) {
	b.mu.Lock()
	b.offsetMs = offsetMs
	b.cache = cacheLyrics
	b.mu.Unlock()
}

func (b *Base) Label(slot Slot) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if slot != Above && slot != Below {
		return ""
	}
	return b.labels[slot]
}

// SetLabel updates a label; unchanged text does not fire OnChange.
func (b *Base) SetLabel(slot Slot, text string) {
	if slot != Above && slot != Below {
		return
	}
	b.mu.Lock()
	if b.labels[slot] == text {
		b.mu.Unlock()
		return
	}
	b.labels[slot] = text
	fn := b.OnChange
	b.mu.Unlock()

	if fn != nil {
		fn(slot, text)
	}
}

// Labels returns both labels at once.
func (b *Base) Labels() (above, below string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.labels[Above], b.labels[Below]
}

func (b *Base) LyricOffset() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.offsetMs
}

func (b *Base) SetLyricOffset(ms int64) {
	b.mu.Lock()
	b.offsetMs = ms
	b.mu.Unlock()
}

func (b *Base) LyricStart() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.start, b.hasStart
}

func (b *Base) SetLyricStart(start time.Time) {
	b.mu.Lock()
	b.start = start
	b.hasStart = true
	b.mu.Unlock()
}

func (b *Base) ClearLyricStart() {
	b.mu.Lock()
	b.start = time.Time{}
	b.hasStart = false
	b.mu.Unlock()
}

func (b *Base) CacheLyrics() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cache
}

// Verify Base implements Surface at compile time.
var _ Surface = (*Base)(nil)
