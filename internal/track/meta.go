// Package track describes the track a player reports and the playback state
// the sync engine keeps about it.
package track

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrIncompleteMetadata is returned when raw metadata lacks a track ID or title.
var ErrIncompleteMetadata = errors.New("metadata has no track id or title")

// Meta identifies a playing track.
type Meta struct {
	ID      string
	Title   string
	Album   string   // empty when unknown
	Artists []string // nil when unknown
	URL     string   // xesam:url, empty when unknown
	Length  time.Duration
}

// Raw is the subset of player metadata needed to build a Meta.
type Raw struct {
	TrackID string
	Title   string
	Album   string
	Artists []string
	URL     string
	Length  time.Duration
}

// FromRaw builds a Meta. ID and Title are required.
func FromRaw(raw Raw) (Meta, error) {
	if raw.TrackID == "" || raw.Title == "" {
		return Meta{}, ErrIncompleteMetadata
	}
	m := Meta{
		ID:     raw.TrackID,
		Title:  raw.Title,
		Album:  raw.Album,
		URL:    raw.URL,
		Length: raw.Length,
	}
	if len(raw.Artists) > 0 {
		m.Artists = slices.Clone(raw.Artists)
	}
	return m, nil
}

// SameTrack reports whether a and b describe the same track.
// Length is ignored: some players refine the duration between polls.
func SameTrack(a, b Meta) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Album == b.Album &&
		a.URL == b.URL &&
		slices.Equal(a.Artists, b.Artists)
}

// Changed reports whether cur differs from the previously observed track.
func Changed(prev *Meta, cur Meta) bool {
	return prev == nil || !SameTrack(*prev, cur)
}

// ArtistLine joins artists for display and lyric lookups.
func (m Meta) ArtistLine(sep string) string {
	return strings.Join(m.Artists, sep)
}

// PrimaryArtist returns the first artist, or "".
func (m Meta) PrimaryArtist() string {
	if len(m.Artists) == 0 {
		return ""
	}
	return m.Artists[0]
}

// String returns "Artist - Title", or just the title.
func (m Meta) String() string {
	if a := m.ArtistLine(", "); a != "" {
		return a + " - " + m.Title
	}
	return m.Title
}
