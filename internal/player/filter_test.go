package player

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ignore(names ...string) func(string) bool {
	return func(id string) bool {
		for _, n := range names {
			if strings.EqualFold(n, id) {
				return true
			}
		}
		return false
	}
}

func TestFilter_Passthrough(t *testing.T) {
	f := NewMockFinder(NewMock("a"))
	assert.Same(t, Finder(f), Filter(f, "", nil))
}

func TestFilter_PreferWinsOverPlaying(t *testing.T) {
	playing := NewMock("firefox")
	playing.SetStatus(Playing)
	preferred := NewMock("spotify")
	preferred.SetStatus(Paused)

	p, err := Filter(NewMockFinder(playing, preferred), "Spotify", nil).FindActive()
	require.NoError(t, err)
	assert.Equal(t, "spotify", p.Identity())
}

func TestFilter_PreferMissingFallsBack(t *testing.T) {
	playing := NewMock("mpv")
	playing.SetStatus(Playing)

	p, err := Filter(NewMockFinder(playing), "spotify", nil).FindActive()
	require.NoError(t, err)
	assert.Equal(t, "mpv", p.Identity())
}

func TestFilter_SkipsIgnored(t *testing.T) {
	browser := NewMock("firefox")
	browser.SetStatus(Playing)
	stopped := NewMock("vlc")
	paused := NewMock("mpv")
	paused.SetStatus(Paused)

	f := Filter(NewMockFinder(browser, stopped, paused), "", ignore("firefox"))

	p, err := f.FindActive()
	require.NoError(t, err)
	assert.Equal(t, "mpv", p.Identity())

	ids, err := f.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"vlc", "mpv"}, ids)

	// Ignored players can still be connected explicitly
	p, err = f.Find("firefox")
	require.NoError(t, err)
	assert.Equal(t, "firefox", p.Identity())
}

func TestFilter_OnlyIgnored(t *testing.T) {
	browser := NewMock("firefox")
	browser.SetStatus(Playing)

	_, err := Filter(NewMockFinder(browser), "", ignore("firefox")).FindActive()
	require.ErrorIs(t, err, ErrNotFound)
}
