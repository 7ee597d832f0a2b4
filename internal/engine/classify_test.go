package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/track"
)

func rawA() track.Raw {
	return track.Raw{TrackID: "t1", Title: "Song", Artists: []string{"Artist"}, Length: 180 * time.Second}
}

func playingMock(identity string, raw track.Raw, pos time.Duration) *player.Mock {
	p := player.NewMock(identity)
	p.SetStatus(player.Playing)
	p.SetMetadata(raw)
	p.SetPosition(pos)
	return p
}

func TestClassify(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func() player.Player
		want  error
	}{
		{
			name:  "no player bound",
			setup: func() player.Player { return nil },
			want:  Missing{},
		},
		{
			name: "player not running",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetRunning(false)
				return p
			},
			want: Missing{},
		},
		{
			name: "progress query fails",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetStatusError(boom)
				return p
			},
			want: Unsupported{Reason: ReasonProgress},
		},
		{
			name: "paused",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetStatus(player.Paused)
				return p
			},
			want: Paused{},
		},
		{
			name: "stopped counts as paused",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetStatus(player.Stopped)
				return p
			},
			want: Paused{},
		},
		{
			name: "paused is checked before metadata",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetStatus(player.Paused)
				p.SetMetadataError(boom)
				p.SetPositionError(boom)
				return p
			},
			want: Paused{},
		},
		{
			name: "metadata query fails",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetMetadataError(boom)
				p.SetPositionError(boom)
				return p
			},
			want: Unsupported{Reason: ReasonMetadata},
		},
		{
			name: "position query fails",
			setup: func() player.Player {
				p := playingMock("mpv", rawA(), time.Second)
				p.SetPositionError(boom)
				return p
			},
			want: Unsupported{Reason: ReasonPosition},
		},
		{
			name: "position greater than system time",
			setup: func() player.Player {
				return playingMock("mpv", rawA(), testNow.Sub(time.Unix(0, 0))+time.Hour)
			},
			want: Unsupported{Reason: ReasonPositionTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Classify(tt.setup(), testNow, 0)
			assert.Equal(t, tt.want, err)
			assert.Equal(t, Reading{}, r)

			var st PlayerStatus
			assert.True(t, errors.As(err, &st), "every failure is a PlayerStatus")
		})
	}
}

func TestClassify_Healthy(t *testing.T) {
	r, err := Classify(playingMock("mpv", rawA(), 10*time.Second), testNow, 0)
	require.NoError(t, err)

	assert.True(t, r.Start.Equal(testNow.Add(-10*time.Second)))
	assert.Equal(t, "t1", r.Meta.ID)
	assert.Equal(t, "Song", r.Meta.Title)
	assert.Equal(t, 180*time.Second, r.Meta.Length)
}

func TestClassify_OffsetOverflow(t *testing.T) {
	_, err := Classify(playingMock("mpv", rawA(), time.Second), testNow, -1<<63)
	assert.Equal(t, Unsupported{Reason: ReasonOffset}, err)
}

func TestClassify_IncompleteMetadataKeepsPosition(t *testing.T) {
	for _, raw := range []track.Raw{
		{Title: "no id"},
		{TrackID: "no title"},
		{},
	} {
		r, err := Classify(playingMock("mpv", raw, 3*time.Second), testNow, -500)

		require.ErrorIs(t, err, track.ErrIncompleteMetadata)
		var st PlayerStatus
		assert.False(t, errors.As(err, &st), "incomplete metadata is not a PlayerStatus")
		assert.True(t, r.Start.Equal(testNow.Add(-3500*time.Millisecond)))
		assert.Equal(t, track.Meta{}, r.Meta)
	}
}

func TestPlayerStatus_Errors(t *testing.T) {
	assert.Equal(t, "player missing", Missing{}.Error())
	assert.Equal(t, "player paused", Paused{}.Error())
	assert.Equal(t, "unsupported player: cannot fetch progress", Unsupported{Reason: ReasonProgress}.Error())

	assert.Equal(t, "missing", statusKey(Missing{}))
	assert.NotEqual(t, statusKey(Unsupported{Reason: ReasonPosition}), statusKey(Unsupported{Reason: ReasonOffset}))
}
