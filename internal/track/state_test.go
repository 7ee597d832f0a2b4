package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheKey(m Meta) string { return "/cache/" + m.ID + ".lrc" }

func TestState_Observe_NewTrack(t *testing.T) {
	var s State

	changed := s.Observe(sampleMeta(), cacheKey)

	require.True(t, changed)
	require.NotNil(t, s.Meta)
	assert.Equal(t, "t1", s.Meta.ID)
	assert.Equal(t, "/cache/t1.lrc", s.CachePath)
}

func TestState_Observe_SameTrackKeepsStoredMeta(t *testing.T) {
	var s State
	s.Observe(sampleMeta(), cacheKey)
	s.CachePath = "/custom"

	again := sampleMeta()
	again.Length = 181 * time.Second
	changed := s.Observe(again, cacheKey)

	assert.False(t, changed)
	assert.Equal(t, 180*time.Second, s.Meta.Length)
	assert.Equal(t, "/custom", s.CachePath)
}

func TestState_Take(t *testing.T) {
	s := State{Paused: true, CachePath: "/x"}
	s.Observe(sampleMeta(), cacheKey)

	old := s.Take()

	assert.NotNil(t, old.Meta)
	assert.Nil(t, s.Meta)
	assert.False(t, s.Paused)
	assert.Empty(t, s.CachePath)
}

func TestState_SnapshotDoesNotAlias(t *testing.T) {
	var s State
	s.Observe(sampleMeta(), nil)

	snap := s.Snapshot()
	snap.Meta.Title = "mutated"

	assert.Equal(t, "Song", s.Meta.Title)
}
