//go:build linux

package mpris

import (
	"fmt"
	"strings"
	"time"

	gompris "github.com/Pauloo27/go-mpris"
	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Player is one MPRIS player on the session bus.
type Player struct {
	conn     *dbus.Conn
	busName  string
	identity string
	p        *gompris.Player
}

func newPlayer(conn *dbus.Conn, busName string) *Player {
	p := gompris.New(conn, busName)
	identity, err := p.GetIdentity()
	if err != nil || identity == "" {
		identity = shortName(busName)
	}
	return &Player{conn: conn, busName: busName, identity: identity, p: p}
}

// IsRunning reports whether the bus name still has an owner.
func (p *Player) IsRunning() bool {
	var has bool
	err := p.conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, p.busName).Store(&has)
	return err == nil && has
}

func (p *Player) Identity() string { return p.identity }

func (p *Player) PlaybackStatus() (player.Status, error) {
	st, err := p.p.GetPlaybackStatus()
	if err != nil {
		return player.Stopped, fmt.Errorf("playback status: %w", err)
	}
	return player.ParseStatus(string(st)), nil
}

func (p *Player) Position() (time.Duration, error) {
	secs, err := p.p.GetPosition()
	if err != nil {
		return 0, fmt.Errorf("position: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (p *Player) Metadata() (track.Raw, error) {
	md, err := p.p.GetMetadata()
	if err != nil {
		return track.Raw{}, fmt.Errorf("metadata: %w", err)
	}
	return rawFromMetadata(md), nil
}

// Finder searches the session bus for MPRIS players.
type Finder struct {
	conn *dbus.Conn
}

// Connect opens the session bus.
func Connect() (*Finder, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Finder{conn: conn}, nil
}

// Close releases the bus connection.
func (f *Finder) Close() error {
	return f.conn.Close()
}

func (f *Finder) players() ([]*Player, error) {
	names, err := gompris.List(f.conn)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make([]*Player, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, BusPrefix) {
			out = append(out, newPlayer(f.conn, name))
		}
	}
	return out, nil
}

// FindActive returns a playing player, else a paused one, else the first.
func (f *Finder) FindActive() (player.Player, error) {
	players, err := f.players()
	if err != nil {
		return nil, err
	}
	var best *Player
	bestRank := -1
	for _, p := range players {
		rank := 0
		if st, err := p.PlaybackStatus(); err == nil {
			rank = st.Rank()
		}
		if rank > bestRank {
			best, bestRank = p, rank
		}
	}
	if best == nil {
		return nil, player.ErrNotFound
	}
	return best, nil
}

func (f *Finder) Find(id string) (player.Player, error) {
	players, err := f.players()
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if matches(id, p.busName, p.identity) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, player.ErrNotFound)
}

func (f *Finder) List() ([]string, error) {
	players, err := f.players()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.identity)
	}
	return ids, nil
}

var (
	_ player.Player = (*Player)(nil)
	_ player.Finder = (*Finder)(nil)
)
