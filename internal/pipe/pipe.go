// Package pipe is a headless host that prints the current lyric line to a
// writer, one line per change.
package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/surface"
)

// Options configures the output.
type Options struct {
	Length   int
	Overflow overflow.Mode
}

// Host writes the Above label of its single surface to w.
type Host struct {
	surface.Base

	w    io.Writer
	opts Options

	mu    sync.Mutex
	last  string
	err   error
	alive atomic.Bool
}

// New creates a pipe host writing to w.
func New(w io.Writer, offsetMs int64, cacheLyrics bool, opts Options) *Host {
	h := &Host{w: w, opts: opts}
	h.Init(offsetMs, cacheLyrics)
	h.alive.Store(true)
	h.OnChange = h.onChange
	return h
}

// Alive reports false once a write has failed.
func (h *Host) Alive() bool {
	return h.alive.Load()
}

// Surfaces returns the host itself while it can still write.
func (h *Host) Surfaces() []surface.Surface {
	if !h.Alive() {
		return nil
	}
	return []surface.Surface{h}
}

// Err returns the write error that stopped the host, if any.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Host) onChange(slot surface.Slot, text string) {
	if slot != surface.Above {
		return
	}
	line := overflow.Fit(text, h.opts.Length, h.opts.Overflow)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil || line == h.last {
		return
	}
	h.last = line
	if _, err := fmt.Fprintln(h.w, line); err != nil {
		h.err = err
		h.alive.Store(false)
	}
}

// Run runs loop, which must use h as its host, until ctx is cancelled or
// the output is closed.
func (h *Host) Run(ctx context.Context, loop *engine.Loop) error {
	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if werr := h.Err(); werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		return errors.Join(err, fmt.Errorf("write lyrics: %w", werr))
	}
	return err
}

var _ engine.Host = (*Host)(nil)
