package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/db"
)

func setupTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := OpenPath(db.Memory, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestLyricOffset_Empty(t *testing.T) {
	m := setupTestManager(t, 0)

	ms, ok, err := m.LyricOffset()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, ms)
}

func TestSaveLyricOffset(t *testing.T) {
	m := setupTestManager(t, 0)

	for _, want := range []int64{250, -1200, 0} {
		require.NoError(t, m.SaveLyricOffset(want))
		got, ok, err := m.LyricOffset()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestSaveLastPlayer(t *testing.T) {
	m := setupTestManager(t, 0)

	got, err := m.LastPlayer()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, m.SaveLastPlayer("spotify"))
	require.NoError(t, m.SaveLastPlayer("mpv"))

	got, err = m.LastPlayer()
	require.NoError(t, err)
	assert.Equal(t, "mpv", got)
}

func TestMisses_TTL(t *testing.T) {
	m := setupTestManager(t, time.Hour)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	missed, err := m.IsMissed("artist\x1fsong")
	require.NoError(t, err)
	assert.False(t, missed)

	require.NoError(t, m.RecordMiss("artist\x1fsong"))
	missed, err = m.IsMissed("artist\x1fsong")
	require.NoError(t, err)
	assert.True(t, missed)

	now = now.Add(2 * time.Hour)
	missed, err = m.IsMissed("artist\x1fsong")
	require.NoError(t, err)
	assert.False(t, missed, "miss should expire after the TTL")

	n, err := m.MissCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordMiss_PrunesExpired(t *testing.T) {
	m := setupTestManager(t, time.Hour)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.RecordMiss("old"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, m.RecordMiss("new"))

	var rows int
	require.NoError(t, m.DB().QueryRow(`SELECT COUNT(*) FROM lyric_misses`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestClearMiss(t *testing.T) {
	m := setupTestManager(t, 0)

	require.NoError(t, m.RecordMiss("a"))
	require.NoError(t, m.RecordMiss("b"))
	require.NoError(t, m.ClearMiss("a"))

	missed, err := m.IsMissed("a")
	require.NoError(t, err)
	assert.False(t, missed)

	n, err := m.MissCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, m.ClearMisses())
	n, err = m.MissCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitSchema_Idempotent(t *testing.T) {
	m := setupTestManager(t, 0)
	require.NoError(t, m.SaveLastPlayer("vlc"))

	require.NoError(t, initSchema(m.DB()))

	got, err := m.LastPlayer()
	require.NoError(t, err)
	assert.Equal(t, "vlc", got)
}

func TestOpenPath_DefaultTTL(t *testing.T) {
	m := setupTestManager(t, 0)
	assert.Equal(t, DefaultMissTTL, m.missTTL)
}
