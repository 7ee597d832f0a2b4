package lyrics

import (
	"time"

	"github.com/llehouerou/lyricsync/internal/surface"
)

// Display holds the lyrics currently shown and maps playback time to labels.
// It is owned by the sync loop and must not be shared across goroutines.
type Display struct {
	lyrics *Lyrics
	line   int
}

// Current returns the lyrics being displayed, or nil.
func (d *Display) Current() *Lyrics {
	return d.lyrics
}

// Set replaces the displayed lyrics. Labels update on the next Refresh.
func (d *Display) Set(l *Lyrics) {
	d.lyrics = l
	d.line = -2
}

// Clear drops the displayed lyrics.
func (d *Display) Clear() {
	d.Set(nil)
}

// Refresh writes the active line to the Above label and the upcoming one to
// Below, based on the surface's lyric start. Unsynced or missing lyrics leave
// the labels alone.
func (d *Display) Refresh(s surface.Surface, now time.Time) {
	if !d.lyrics.IsSynced() {
		return
	}
	start, ok := s.LyricStart()
	if !ok {
		return
	}

	idx := d.lyrics.LineAt(now.Sub(start))
	if idx == d.line {
		return
	}
	d.line = idx
	s.SetLabel(surface.Above, d.lyrics.TextAt(idx))
	s.SetLabel(surface.Below, d.lyrics.TextAt(idx+1))
}
