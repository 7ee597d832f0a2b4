// Package feed is a headless host that streams lyric labels and engine
// events to WebSocket clients, e.g. a browser overlay.
package feed

import (
	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Message types.
const (
	TypeLabels = "labels"
	TypePlayer = "player"
	TypeTrack  = "track"
	TypeStatus = "status"
	TypeLyrics = "lyrics"
)

// Message is one JSON frame sent to clients. Only the fields of its Type
// are set.
type Message struct {
	Type string `json:"type"`

	Above string `json:"above,omitempty"`
	Below string `json:"below,omitempty"`

	Player string `json:"player,omitempty"`
	Track  *Track `json:"track,omitempty"`

	Status string `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`

	Source  string `json:"source,omitempty"`
	Synced  bool   `json:"synced,omitempty"`
	Lines   int    `json:"lines,omitempty"`
	Cleared bool   `json:"cleared,omitempty"`
}

// Track is the JSON form of track metadata.
type Track struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Album    string   `json:"album,omitempty"`
	Artists  []string `json:"artists,omitempty"`
	LengthMs int64    `json:"length_ms,omitempty"`
}

func trackOf(m *track.Meta) *Track {
	if m == nil {
		return nil
	}
	return &Track{
		ID:       m.ID,
		Title:    m.Title,
		Album:    m.Album,
		Artists:  m.Artists,
		LengthMs: m.Length.Milliseconds(),
	}
}

// messageOf converts an engine event. ok is false for unknown values.
func messageOf(event any) (msg Message, ok bool) {
	switch e := event.(type) {
	case engine.PlayerChange:
		return Message{Type: TypePlayer, Player: e.Identity}, true
	case engine.TrackChange:
		return Message{Type: TypeTrack, Track: trackOf(e.Current)}, true
	case engine.StatusChange:
		return Message{Type: TypeStatus, Status: e.Current, Reason: e.Reason}, true
	case engine.LyricsChange:
		return Message{Type: TypeLyrics, Source: e.Source, Synced: e.Synced, Lines: e.Lines, Cleared: e.Cleared}, true
	}
	return Message{}, false
}
