package ui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/notify"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/surface"
)

// Options configures the window.
type Options struct {
	// Length fits lines into this many cells; 0 uses the terminal width.
	Length   int
	Overflow overflow.Mode
	// Reporter, when set, also shows action failures on the status line.
	Reporter *notify.Reporter
	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Window is the terminal host and its only surface.
type Window struct {
	surface.Base

	alive atomic.Bool
}

// NewWindow creates a window with the given lyric offset and cache setting.
func NewWindow(offsetMs int64, cacheLyrics bool) *Window {
	w := &Window{}
	w.Init(offsetMs, cacheLyrics)
	w.alive.Store(true)
	return w
}

// Alive reports whether the window is still open.
func (w *Window) Alive() bool {
	return w.alive.Load()
}

// Surfaces returns the window itself while it is open.
func (w *Window) Surfaces() []surface.Surface {
	if !w.Alive() {
		return nil
	}
	return []surface.Surface{w}
}

// Run shows the window and runs loop, which must use w as its host, until
// the user quits or ctx is cancelled.
func (w *Window) Run(ctx context.Context, loop *engine.Loop, opts Options) error {
	m := newModel(w, loop, loop.Subscribe(), opts)
	p := tea.NewProgram(m, append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}, opts.ProgramOptions...)...)

	w.OnChange = func(surface.Slot, string) { p.Send(labelsMsg{}) }
	if opts.Reporter != nil {
		opts.Reporter.OnError = func(text string) { p.Send(statusMsg(text)) }
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
		p.Quit()
	}()

	_, err := p.Run()
	w.alive.Store(false)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("terminal ui: %w", err)
	}

	lerr := <-loopErr
	if errors.Is(lerr, context.Canceled) {
		lerr = nil
	}
	return errors.Join(err, lerr)
}

var (
	_ engine.Host = (*Window)(nil)
	_ Controller  = (*engine.Loop)(nil)
)
