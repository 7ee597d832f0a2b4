package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeta() Meta {
	return Meta{
		ID:      "t1",
		Title:   "Song",
		Album:   "Album",
		Artists: []string{"Artist A", "Artist B"},
		URL:     "file:///music/song.flac",
		Length:  180 * time.Second,
	}
}

func TestFromRaw(t *testing.T) {
	tests := []struct {
		name    string
		raw     Raw
		wantErr bool
	}{
		{name: "id and title", raw: Raw{TrackID: "t1", Title: "Song"}},
		{name: "all fields", raw: Raw{TrackID: "t1", Title: "Song", Album: "A", Artists: []string{"X"}, Length: time.Minute}},
		{name: "missing id", raw: Raw{Title: "Song"}, wantErr: true},
		{name: "missing title", raw: Raw{TrackID: "t1"}, wantErr: true},
		{name: "empty", raw: Raw{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromRaw(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIncompleteMetadata)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw.TrackID, m.ID)
			assert.Equal(t, tt.raw.Title, m.Title)
			assert.Equal(t, tt.raw.Length, m.Length)
		})
	}
}

func TestFromRaw_CopiesArtists(t *testing.T) {
	artists := []string{"X", "Y"}
	m, err := FromRaw(Raw{TrackID: "t1", Title: "Song", Artists: artists})
	require.NoError(t, err)

	artists[0] = "changed"
	assert.Equal(t, []string{"X", "Y"}, m.Artists)
}

func TestChanged_IgnoresLength(t *testing.T) {
	a := sampleMeta()
	for _, length := range []time.Duration{0, 179 * time.Second, 181 * time.Second, time.Hour} {
		b := sampleMeta()
		b.Length = length
		assert.False(t, Changed(&a, b), "length %v should not count as a change", length)
	}
}

func TestChanged_AnyOtherField(t *testing.T) {
	mutations := map[string]func(m *Meta){
		"id":          func(m *Meta) { m.ID = "t2" },
		"title":       func(m *Meta) { m.Title = "Other" },
		"album":       func(m *Meta) { m.Album = "" },
		"artists":     func(m *Meta) { m.Artists = []string{"Artist A"} },
		"artist nil":  func(m *Meta) { m.Artists = nil },
		"artist name": func(m *Meta) { m.Artists = []string{"Artist A", "Artist C"} },
		"url":         func(m *Meta) { m.URL = "file:///music/other.flac" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			a := sampleMeta()
			b := sampleMeta()
			mutate(&b)
			assert.True(t, Changed(&a, b))
		})
	}
}

func TestChanged_NoPrevious(t *testing.T) {
	assert.True(t, Changed(nil, sampleMeta()))
}

func TestMeta_String(t *testing.T) {
	m := sampleMeta()
	assert.Equal(t, "Artist A, Artist B - Song", m.String())
	assert.Equal(t, "Artist A", m.PrimaryArtist())

	m.Artists = nil
	assert.Equal(t, "Song", m.String())
	assert.Empty(t, m.PrimaryArtist())
}
