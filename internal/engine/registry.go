package engine

import (
	"fmt"

	"github.com/llehouerou/lyricsync/internal/player"
)

// Registry holds the bound player. Binding replaces, it never merges.
type Registry struct {
	finder  player.Finder
	current player.Player
}

// NewRegistry creates an empty registry searching with finder.
func NewRegistry(finder player.Finder) *Registry {
	return &Registry{finder: finder}
}

// Current returns the bound player, or nil.
func (r *Registry) Current() player.Player {
	return r.current
}

// Bind replaces the bound player.
func (r *Registry) Bind(p player.Player) {
	r.current = p
}

// Unbind clears the slot.
func (r *Registry) Unbind() {
	r.current = nil
}

// FindActive searches for an active player and binds it, or unbinds when
// none is found. The error wraps player.ErrNotFound in that case.
func (r *Registry) FindActive() (player.Player, error) {
	p, err := r.finder.FindActive()
	if err != nil {
		r.Unbind()
		return nil, fmt.Errorf("find active player: %w", err)
	}
	r.Bind(p)
	return p, nil
}

// Connect binds the player matching identity. The slot is left untouched on
// failure.
func (r *Registry) Connect(identity string) (player.Player, error) {
	p, err := r.finder.Find(identity)
	if err != nil {
		return nil, fmt.Errorf("find player %q: %w", identity, err)
	}
	r.Bind(p)
	return p, nil
}
