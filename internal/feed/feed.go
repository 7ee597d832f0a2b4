package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/surface"
)

const shutdownTimeout = 5 * time.Second

// Options configures the feed.
type Options struct {
	Length   int
	Overflow overflow.Mode
	Logger   *log.Logger
}

// Host serves its single surface over WebSocket on /ws.
type Host struct {
	surface.Base

	opts  Options
	hub   *hub
	alive atomic.Bool
}

// New creates a feed host.
func New(offsetMs int64, cacheLyrics bool, opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	h := &Host{opts: opts, hub: newHub(opts.Logger)}
	h.Init(offsetMs, cacheLyrics)
	h.alive.Store(true)
	h.OnChange = h.onChange
	return h
}

// Alive reports whether the server is still running.
func (h *Host) Alive() bool {
	return h.alive.Load()
}

// Surfaces returns the host itself while the server runs.
func (h *Host) Surfaces() []surface.Surface {
	if !h.Alive() {
		return nil
	}
	return []surface.Surface{h}
}

// Handler returns the HTTP handler serving /ws.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.hub.serveWS)
	return mux
}

// Clients returns the number of connected clients.
func (h *Host) Clients() int {
	return h.hub.count()
}

func (h *Host) onChange(surface.Slot, string) {
	above, below := h.Labels()
	h.hub.broadcast(Message{
		Type:  TypeLabels,
		Above: overflow.Fit(above, h.opts.Length, h.opts.Overflow),
		Below: overflow.Fit(below, h.opts.Length, h.opts.Overflow),
	})
}

// Run listens on addr and runs loop, which must use h as its host, until
// ctx is cancelled or the server fails.
func (h *Host) Run(ctx context.Context, addr string, loop *engine.Loop) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return h.Serve(ctx, ln, loop)
}

// Serve is Run on an existing listener. It closes ln.
func (h *Host) Serve(ctx context.Context, ln net.Listener, loop *engine.Loop) error {
	srv := &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		h.alive.Store(false)
		serveErr <- err
	}()
	h.opts.Logger.Info("feed listening", "addr", "ws://"+ln.Addr().String()+"/ws")

	sub := loop.Subscribe()
	go h.forward(sub)

	loopErr := loop.Run(ctx)
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}

	h.alive.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	h.hub.closeAll()
	shutdownErr := srv.Shutdown(shutdownCtx)

	if err := <-serveErr; err != nil {
		return errors.Join(loopErr, fmt.Errorf("feed server: %w", err))
	}
	return errors.Join(loopErr, shutdownErr)
}

// forward relays engine events to clients until the loop stops.
func (h *Host) forward(sub *engine.Subscription) {
	for {
		var event any
		select {
		case e := <-sub.StatusChanged:
			event = e
		case e := <-sub.PlayerChanged:
			event = e
		case e := <-sub.TrackChanged:
			event = e
		case e := <-sub.LyricsChanged:
			event = e
		case <-sub.Done:
			return
		}
		if msg, ok := messageOf(event); ok {
			h.hub.broadcast(msg)
		}
	}
}

var _ engine.Host = (*Host)(nil)
