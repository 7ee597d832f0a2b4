package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/player"
)

func TestRegistry_FindActive(t *testing.T) {
	a := player.NewMock("a")
	a.SetStatus(player.Playing)
	finder := player.NewMockFinder(a)
	r := NewRegistry(finder)

	assert.Nil(t, r.Current())

	p, err := r.FindActive()
	require.NoError(t, err)
	assert.Same(t, a, p)
	assert.Same(t, a, r.Current())
}

func TestRegistry_FindActive_NotFoundUnbinds(t *testing.T) {
	a := player.NewMock("a")
	r := NewRegistry(player.NewMockFinder(a))
	r.Bind(a)
	a.SetRunning(false)

	_, err := r.FindActive()
	require.ErrorIs(t, err, player.ErrNotFound)
	assert.Nil(t, r.Current())
}

func TestRegistry_BindReplaces(t *testing.T) {
	a, b := player.NewMock("a"), player.NewMock("b")
	r := NewRegistry(player.NewMockFinder(a, b))

	r.Bind(a)
	r.Bind(b)
	assert.Same(t, b, r.Current())

	r.Unbind()
	assert.Nil(t, r.Current())
}

func TestRegistry_Connect(t *testing.T) {
	a, b := player.NewMock("Spotify"), player.NewMock("mpv")
	r := NewRegistry(player.NewMockFinder(a, b))
	r.Bind(b)

	p, err := r.Connect("spotify")
	require.NoError(t, err)
	assert.Same(t, a, p)
	assert.Same(t, a, r.Current())

	_, err = r.Connect("vlc")
	require.ErrorIs(t, err, player.ErrNotFound)
	assert.Same(t, a, r.Current(), "failed connect keeps the bound player")
}
