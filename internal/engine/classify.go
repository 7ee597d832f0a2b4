package engine

import (
	"time"

	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Reading is what a healthy poll of the player produced.
type Reading struct {
	// Start is the estimated instant of playback position zero.
	Start time.Time
	// Meta is the playing track. Zero when Classify returned
	// track.ErrIncompleteMetadata.
	Meta track.Meta
}

// Classify polls p once. It returns a PlayerStatus when the player cannot be
// synced, track.ErrIncompleteMetadata (with Reading.Start set) when the
// position is known but the track cannot be identified, or nil.
//
// Checks run in this order: binding, liveness, playback status, metadata,
// position, offset, then metadata completeness.
func Classify(p player.Player, now time.Time, offsetMs int64) (Reading, error) {
	if p == nil || !p.IsRunning() {
		return Reading{}, Missing{}
	}

	status, err := p.PlaybackStatus()
	if err != nil {
		return Reading{}, Unsupported{Reason: ReasonProgress}
	}
	if status != player.Playing {
		return Reading{}, Paused{}
	}

	raw, err := p.Metadata()
	if err != nil {
		return Reading{}, Unsupported{Reason: ReasonMetadata}
	}

	elapsed, err := p.Position()
	if err != nil {
		return Reading{}, Unsupported{Reason: ReasonPosition}
	}
	start, err := Estimate(now, elapsed, offsetMs)
	if err != nil {
		return Reading{}, err
	}

	meta, err := track.FromRaw(raw)
	if err != nil {
		return Reading{Start: start}, err
	}
	return Reading{Start: start, Meta: meta}, nil
}
