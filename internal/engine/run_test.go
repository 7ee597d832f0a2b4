package engine

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/surface"
)

func TestRun_SyncsUntilHostGone(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := playingMock("mpv", rawA(), 10*time.Second)
		s := surface.NewBase(0, false)
		host := newFakeHost(s)
		pipeline := &fakePipeline{result: lyrics.FetchResult{Lyrics: syncedLyrics(), Source: lyrics.SourceAPI}}
		l := New(host, player.NewMockFinder(p), pipeline, Options{
			Interval: 100 * time.Millisecond,
			Logger:   logging.Discard(),
		})
		sub := l.Subscribe()

		errc := make(chan error, 1)
		go func() { errc <- l.Run(context.Background()) }()

		// First tick binds the player, second one syncs and fetches
		time.Sleep(250 * time.Millisecond)
		synctest.Wait()

		require.Len(t, pipeline.shownLyrics(), 1)
		_, ok := s.LyricStart()
		assert.True(t, ok)

		host.setAlive(false)
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		select {
		case err := <-errc:
			require.NoError(t, err)
		default:
			t.Fatal("Run did not stop after the host went away")
		}

		<-sub.Done
		pc := <-sub.PlayerChanged
		assert.Equal(t, "mpv", pc.Identity)
		tc := <-sub.TrackChanged
		assert.Nil(t, tc.Previous)
		require.NotNil(t, tc.Current)
		assert.Equal(t, "t1", tc.Current.ID)
		lc := <-sub.LyricsChanged
		assert.True(t, lc.Synced)
		assert.Equal(t, 2, lc.Lines)
		assert.Equal(t, lyrics.SourceAPI, lc.Source)

		first := <-sub.StatusChanged
		assert.Equal(t, StatusChange{Previous: "", Current: "missing"}, first)
		second := <-sub.StatusChanged
		assert.Equal(t, StatusChange{Previous: "missing", Current: "playing"}, second)
	})
}

func TestRun_ContextCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(newFakeHost(), player.NewMockFinder(), &fakePipeline{}, Options{Logger: logging.Discard()})

		errc := make(chan error, 1)
		go func() { errc <- l.Run(ctx) }()
		time.Sleep(time.Second)
		cancel()
		synctest.Wait()

		require.ErrorIs(t, <-errc, context.Canceled)
		<-l.Done()

		// Actions after the loop stopped are dropped without blocking
		for range 2 * actionBufferSize {
			l.Disconnect()
		}
		require.Error(t, l.Run(context.Background()), "a loop runs once")

		sub := l.Subscribe()
		<-sub.Done
	})
}

func TestRun_ActionsRunOnLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := surface.NewBase(0, true)
		settings := &fakeSettings{}
		l := New(newFakeHost(s), player.NewMockFinder(), &fakePipeline{}, Options{
			Logger:   logging.Discard(),
			Settings: settings,
		})

		// Posted before Run starts; queued until the loop picks them up
		l.AdjustOffset(200)
		l.AdjustOffset(50)

		go func() { _ = l.Run(ctx) }()
		synctest.Wait()

		assert.Equal(t, int64(250), s.LyricOffset())
		saved := settings.savedOffset()
		require.NotNil(t, saved)
		assert.Equal(t, int64(250), *saved)
	})
}

func TestRun_SlowFetchIsCancelledOnTrackChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p := playingMock("mpv", rawA(), time.Second)
		pipeline := &fakePipeline{
			release: make(chan struct{}),
			result:  lyrics.FetchResult{Lyrics: syncedLyrics()},
		}
		l := New(newFakeHost(surface.NewBase(0, true)), player.NewMockFinder(p), pipeline, Options{
			Interval: 100 * time.Millisecond,
			Logger:   logging.Discard(),
		})
		go func() { _ = l.Run(ctx) }()

		time.Sleep(250 * time.Millisecond)
		synctest.Wait()
		require.Len(t, pipeline.fetchCalls(), 1)

		raw := rawA()
		raw.TrackID = "t2"
		p.SetMetadata(raw)
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Len(t, pipeline.fetchCalls(), 2)

		close(pipeline.release)
		synctest.Wait()

		// Only the second fetch (for t2) reaches the display
		assert.Len(t, pipeline.shownLyrics(), 1)
	})
}
