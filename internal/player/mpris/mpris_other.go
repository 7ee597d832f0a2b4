//go:build !linux

package mpris

import (
	"errors"

	"github.com/llehouerou/lyricsync/internal/player"
)

// Finder is unavailable outside Linux.
type Finder struct{}

// Connect always fails: there is no session bus to search.
func Connect() (*Finder, error) {
	return nil, errors.New("mpris is only supported on linux")
}

func (f *Finder) Close() error { return nil }

func (f *Finder) FindActive() (player.Player, error) { return nil, player.ErrNotFound }

func (f *Finder) Find(string) (player.Player, error) { return nil, player.ErrNotFound }

func (f *Finder) List() ([]string, error) { return nil, nil }
