// Package mpd observes a Music Player Daemon server.
package mpd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fhs/gompd/mpd"

	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Name matches the MPD player in Finder.Find.
const Name = "mpd"

// Player is a connection to one MPD server. It redials after a dropped
// connection.
type Player struct {
	addr     string
	password string

	mu     sync.Mutex
	client *mpd.Client
}

// New creates a player for the server at addr. No connection is made yet.
func New(addr, password string) *Player {
	return &Player{addr: addr, password: password}
}

func (p *Player) dial() (*mpd.Client, error) {
	if p.password != "" {
		return mpd.DialAuthenticated("tcp", p.addr, p.password)
	}
	return mpd.Dial("tcp", p.addr)
}

// do runs fn with a live client, redialing once if the cached one fails.
func (p *Player) do(fn func(*mpd.Client) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if p.client == nil {
			c, err := p.dial()
			if err != nil {
				return fmt.Errorf("dial %s: %w", p.addr, err)
			}
			p.client = c
		}
		err := fn(p.client)
		if err == nil || attempt > 0 {
			return err
		}
		_ = p.client.Close()
		p.client = nil
	}
}

// IsRunning pings the server.
func (p *Player) IsRunning() bool {
	return p.do(func(c *mpd.Client) error { return c.Ping() }) == nil
}

func (p *Player) Identity() string { return Name + "@" + p.addr }

func (p *Player) PlaybackStatus() (player.Status, error) {
	var attrs mpd.Attrs
	err := p.do(func(c *mpd.Client) (err error) {
		attrs, err = c.Status()
		return err
	})
	if err != nil {
		return player.Stopped, fmt.Errorf("status: %w", err)
	}
	return player.ParseStatus(attrs["state"]), nil
}

func (p *Player) Position() (time.Duration, error) {
	var attrs mpd.Attrs
	err := p.do(func(c *mpd.Client) (err error) {
		attrs, err = c.Status()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("status: %w", err)
	}
	return elapsed(attrs)
}

func (p *Player) Metadata() (track.Raw, error) {
	var attrs mpd.Attrs
	err := p.do(func(c *mpd.Client) (err error) {
		attrs, err = c.CurrentSong()
		return err
	})
	if err != nil {
		return track.Raw{}, fmt.Errorf("current song: %w", err)
	}
	return rawFromSong(attrs), nil
}

// Close drops the connection.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// elapsed reads the playback position from a status response.
func elapsed(attrs mpd.Attrs) (time.Duration, error) {
	v, ok := attrs["elapsed"]
	if !ok {
		// Older servers only send "time" as elapsed:total in seconds.
		t, _, found := strings.Cut(attrs["time"], ":")
		if !found {
			return 0, errors.New("no elapsed time in status")
		}
		v = t
	}
	return seconds(v)
}

func seconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", v, err)
	}
	return time.Duration(f * float64(time.Second)), nil
}

// rawFromSong converts a currentsong response. The track id is the song
// file so that queue edits keep the same track.
func rawFromSong(attrs mpd.Attrs) track.Raw {
	raw := track.Raw{
		Title: attrs["Title"],
		Album: attrs["Album"],
	}
	if file := attrs["file"]; file != "" {
		raw.TrackID = "mpd:" + file
		if strings.Contains(file, "://") {
			raw.URL = file
		}
	} else if id := attrs["Id"]; id != "" {
		raw.TrackID = "mpd:id:" + id
	}
	if artist := attrs["Artist"]; artist != "" {
		raw.Artists = []string{artist}
	}
	if d, ok := attrs["duration"]; ok {
		raw.Length, _ = seconds(d)
	} else if t, ok := attrs["Time"]; ok {
		raw.Length, _ = seconds(t)
	}
	return raw
}

// Finder exposes a single MPD server as a player.
type Finder struct {
	player *Player
}

// NewFinder creates a finder for the server at addr.
func NewFinder(addr, password string) *Finder {
	return &Finder{player: New(addr, password)}
}

// Close drops the server connection.
func (f *Finder) Close() error { return f.player.Close() }

func (f *Finder) FindActive() (player.Player, error) {
	if !f.player.IsRunning() {
		return nil, fmt.Errorf("%s: %w", f.player.addr, player.ErrNotFound)
	}
	return f.player, nil
}

func (f *Finder) Find(id string) (player.Player, error) {
	if !strings.EqualFold(id, Name) && !strings.EqualFold(id, f.player.Identity()) {
		return nil, fmt.Errorf("%s: %w", id, player.ErrNotFound)
	}
	return f.FindActive()
}

func (f *Finder) List() ([]string, error) {
	if !f.player.IsRunning() {
		return nil, nil
	}
	return []string{f.player.Identity()}, nil
}

var (
	_ player.Player = (*Player)(nil)
	_ player.Finder = (*Finder)(nil)
)
