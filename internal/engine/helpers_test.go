package engine

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/surface"
	"github.com/llehouerou/lyricsync/internal/track"
)

type fakeHost struct {
	mu       sync.Mutex
	alive    bool
	surfaces []surface.Surface
}

func newFakeHost(surfaces ...surface.Surface) *fakeHost {
	return &fakeHost{alive: true, surfaces: surfaces}
}

func (h *fakeHost) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

func (h *fakeHost) Surfaces() []surface.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]surface.Surface(nil), h.surfaces...)
}

func (h *fakeHost) setAlive(alive bool) {
	h.mu.Lock()
	h.alive = alive
	h.mu.Unlock()
}

func (h *fakeHost) setSurfaces(s ...surface.Surface) {
	h.mu.Lock()
	h.surfaces = s
	h.mu.Unlock()
}

type fetchCall struct {
	meta track.Meta
	opts lyrics.FetchOptions
}

// fakePipeline records calls. Fetch returns result/err, or waits for
// release when it is set.
type fakePipeline struct {
	mu        sync.Mutex
	fetches   []fetchCall
	result    lyrics.FetchResult
	err       error
	release   chan struct{}
	shown     []*lyrics.Lyrics
	refreshes int
	clears    int
	removed   []track.Meta
	removeErr error
	imported  *lyrics.Lyrics
	importErr error
}

func (p *fakePipeline) Fetch(ctx context.Context, meta track.Meta, opts lyrics.FetchOptions) (lyrics.FetchResult, error) {
	p.mu.Lock()
	p.fetches = append(p.fetches, fetchCall{meta: meta, opts: opts})
	release, result, err := p.release, p.result, p.err
	p.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return lyrics.FetchResult{}, ctx.Err()
		}
	}
	return result, err
}

func (p *fakePipeline) Show(_ surface.Surface, l *lyrics.Lyrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, l)
}

func (p *fakePipeline) Refresh(surface.Surface, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshes++
}

func (p *fakePipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
}

func (p *fakePipeline) CachePath(meta track.Meta) string {
	return "/cache/" + meta.ID + ".lrc"
}

func (p *fakePipeline) Remove(meta track.Meta, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, meta)
	return p.removeErr
}

func (p *fakePipeline) Import(track.Meta, string, bool) (*lyrics.Lyrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imported, p.importErr
}

func (p *fakePipeline) fetchCalls() []fetchCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]fetchCall(nil), p.fetches...)
}

func (p *fakePipeline) shownLyrics() []*lyrics.Lyrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*lyrics.Lyrics(nil), p.shown...)
}

func (p *fakePipeline) clearCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clears
}

type reported struct {
	op  errmsg.Op
	err error
}

type fakeReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *fakeReporter) ReportError(op errmsg.Op, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{op, err})
}

func (r *fakeReporter) all() []reported {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reported(nil), r.reports...)
}

type fakeSettings struct {
	mu         sync.Mutex
	offset     *int64
	lastPlayer string
	err        error
}

func (s *fakeSettings) SaveLyricOffset(ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.offset = &ms
	return nil
}

func (s *fakeSettings) SaveLastPlayer(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lastPlayer = identity
	return nil
}

func (s *fakeSettings) savedOffset() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// testLoop is a Loop driven by hand: ticks are explicit, spawned fetches are
// queued until runFetches, and posted actions run on drain.
type testLoop struct {
	*Loop
	host     *fakeHost
	pipeline *fakePipeline
	finder   *player.MockFinder
	surface  *surface.Base
	reporter *fakeReporter
	settings *fakeSettings
	logs     *bytes.Buffer
	pending  []func()
}

func newTestLoop(players ...*player.Mock) *testLoop {
	tl := &testLoop{
		host:     nil,
		pipeline: &fakePipeline{},
		finder:   player.NewMockFinder(players...),
		surface:  surface.NewBase(0, true),
		reporter: &fakeReporter{},
		settings: &fakeSettings{},
		logs:     &bytes.Buffer{},
	}
	tl.host = newFakeHost(tl.surface)
	logger := log.NewWithOptions(tl.logs, log.Options{Level: log.DebugLevel})
	tl.Loop = New(tl.host, tl.finder, tl.pipeline, Options{
		Logger:   logger,
		Reporter: tl.reporter,
		Settings: tl.settings,
		Now:      func() time.Time { return testNow },
	})
	tl.spawn = func(fn func()) { tl.pending = append(tl.pending, fn) }
	return tl
}

// runFetches runs queued fetches and applies their results.
func (tl *testLoop) runFetches() {
	pending := tl.pending
	tl.pending = nil
	for _, fn := range pending {
		fn()
	}
	for {
		select {
		case r := <-tl.results:
			tl.applyFetch(r)
		default:
			return
		}
	}
}

// drain runs posted actions.
func (tl *testLoop) drain() {
	for {
		select {
		case fn := <-tl.actions:
			fn()
		default:
			return
		}
	}
}

