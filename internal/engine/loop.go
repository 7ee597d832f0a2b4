package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/surface"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Flow tells Run whether to keep ticking.
type Flow int

const (
	Continue Flow = iota
	Break
)

// Label shown when the player cannot be synced.
const unsupportedLabel = "Unsupported Player"

// Host is the application hosting the surfaces.
type Host interface {
	// Alive reports whether the host still runs. The loop stops otherwise.
	Alive() bool
	// Surfaces returns the surfaces currently shown. The first one is synced.
	Surfaces() []surface.Surface
}

// Pipeline fetches lyrics and renders them onto a surface.
// Fetch is called from fetch goroutines, every other method from the loop.
type Pipeline interface {
	Fetch(ctx context.Context, meta track.Meta, opts lyrics.FetchOptions) (lyrics.FetchResult, error)
	Show(s surface.Surface, l *lyrics.Lyrics)
	Refresh(s surface.Surface, now time.Time)
	Clear()
	CachePath(meta track.Meta) string
	Remove(meta track.Meta, cache bool) error
	Import(meta track.Meta, path string, cache bool) (*lyrics.Lyrics, error)
}

// Reporter shows failures of user actions.
type Reporter interface {
	ReportError(op errmsg.Op, err error)
}

// Settings persists values changed through actions.
type Settings interface {
	SaveLyricOffset(ms int64) error
	SaveLastPlayer(identity string) error
}

// Options configures a Loop. Zero values get defaults.
type Options struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	Logger       *log.Logger
	Reporter     Reporter
	Settings     Settings
	Now          func() time.Time
}

const (
	defaultInterval     = 100 * time.Millisecond
	defaultFetchTimeout = 10 * time.Second
	actionBufferSize    = 16
)

// Loop is the sync driver. Create it with New and start it with Run.
type Loop struct {
	host     Host
	pipeline Pipeline
	sc       *SyncContext

	interval     time.Duration
	fetchTimeout time.Duration
	logger       *log.Logger
	reporter     Reporter
	settings     Settings
	now          func() time.Time

	actions chan func()
	results chan fetchResult
	done    chan struct{}
	runOnce sync.Once

	// Owned by the loop goroutine
	runCtx             context.Context
	cancelFetch        context.CancelFunc
	spawn              func(func())
	lyricsShown        bool
	unsupportedCleared bool // display emptied for a track that is kept

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates a loop syncing the first surface of host with the player
// found by finder.
func New(host Host, finder player.Finder, pipeline Pipeline, opts Options) *Loop {
	l := &Loop{
		host:         host,
		pipeline:     pipeline,
		sc:           NewSyncContext(finder),
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
		reporter:     opts.Reporter,
		settings:     opts.Settings,
		now:          opts.Now,
		actions:      make(chan func(), actionBufferSize),
		results:      make(chan fetchResult, actionBufferSize),
		done:         make(chan struct{}),
		runCtx:       context.Background(),
		spawn:        func(fn func()) { go fn() },
	}
	if l.interval <= 0 {
		l.interval = defaultInterval
	}
	if l.fetchTimeout <= 0 {
		l.fetchTimeout = defaultFetchTimeout
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Run ticks until ctx is cancelled or the host is gone. It must be called
// once. It returns ctx.Err() on cancellation and nil when the host stopped.
func (l *Loop) Run(ctx context.Context) error {
	ran := false
	l.runOnce.Do(func() { ran = true })
	if !ran {
		return errors.New("engine: loop already ran")
	}
	defer l.shutdown()
	l.runCtx = ctx

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("sync loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.tick(l.now()) == Break {
				l.logger.Debug("host gone, sync loop stopped")
				return nil
			}
		case fn := <-l.actions:
			fn()
		case res := <-l.results:
			l.applyFetch(res)
		}
	}
}

func (l *Loop) shutdown() {
	if l.cancelFetch != nil {
		l.cancelFetch()
		l.cancelFetch = nil
	}
	close(l.done)

	l.subsMu.Lock()
	for _, sub := range l.subs {
		sub.close()
	}
	l.subs = nil
	l.subsMu.Unlock()
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Subscribe creates a new event subscription. Its Done channel is closed
// when the loop stops.
func (l *Loop) Subscribe() *Subscription {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-l.done:
		sub.close()
	default:
		l.subs = append(l.subs, sub)
	}
	return sub
}

func (l *Loop) emit(send func(*Subscription)) {
	l.subsMu.RLock()
	defer l.subsMu.RUnlock()
	for _, sub := range l.subs {
		send(sub)
	}
}

// post queues fn to run on the loop goroutine. It reports false when the
// loop has stopped.
func (l *Loop) post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.actions <- fn:
		return true
	case <-l.done:
		return false
	}
}

// activeSurface returns the surface to sync, or nil.
func (l *Loop) activeSurface() surface.Surface {
	surfaces := l.host.Surfaces()
	if len(surfaces) == 0 {
		return nil
	}
	return surfaces[0]
}

// tick runs one sync pass.
func (l *Loop) tick(now time.Time) Flow {
	if !l.host.Alive() {
		return Break
	}
	s := l.activeSurface()
	if s == nil {
		return Continue
	}

	bound := l.sc.Registry.Current()
	reading, err := Classify(bound, now, s.LyricOffset())

	var status PlayerStatus
	switch {
	case err == nil:
		l.onHealthy(s, reading, now)
	case errors.As(err, &status):
		l.onStatus(s, bound, status)
	case errors.Is(err, track.ErrIncompleteMetadata):
		l.onIncomplete(s, reading)
	default:
		// Classify only returns the errors above
		l.logger.Error("unexpected classification", "err", err)
	}
	return Continue
}

func (l *Loop) onHealthy(s surface.Surface, r Reading, now time.Time) {
	recovered := l.unsupportedCleared
	l.unsupportedCleared = false
	l.setStatus("playing", "")
	s.SetLyricStart(r.Start)
	l.sc.Track.Paused = false

	prev := l.sc.Track.Snapshot().Meta
	switch {
	case l.sc.Track.Observe(r.Meta, l.pipeline.CachePath):
		cur := *l.sc.Track.Meta
		l.logger.Info("track changed", "track", cur.String(), "id", cur.ID)
		l.emit(func(sub *Subscription) { sub.sendTrack(TrackChange{Previous: prev, Current: &cur}) })
		l.startFetch(s, cur, lyrics.FetchOptions{Cache: s.CacheLyrics()}, "")
	case recovered:
		// Same track as before the player went unsupported, possibly paused
		// since: the display was emptied, so load its lyrics again.
		cur := *l.sc.Track.Meta
		l.logger.Info("player supported again, reloading lyrics", "track", cur.String())
		l.startFetch(s, cur, lyrics.FetchOptions{Cache: s.CacheLyrics()}, "")
	}

	l.pipeline.Refresh(s, now)
}

func (l *Loop) onStatus(s surface.Surface, bound player.Player, status PlayerStatus) {
	changed := l.setStatus(statusName(status), unsupportedReason(status))
	logf := l.logger.Debug

	switch st := status.(type) {
	case Missing:
		if bound != nil {
			l.logger.Info("disconnected from player", "player", bound.Identity())
		} else if changed {
			logf = l.logger.Info
		}
		logf("no player bound, searching")

		if p, err := l.sc.Registry.FindActive(); err == nil {
			l.logger.Info("connected to player", "player", p.Identity())
			l.emit(func(sub *Subscription) { sub.sendPlayer(PlayerChange{Identity: p.Identity()}) })
		} else if bound != nil {
			l.emit(func(sub *Subscription) { sub.sendPlayer(PlayerChange{}) })
		}
		l.reset(s)

	case Unsupported:
		if changed {
			logf = l.logger.Error
		}
		logf("player unsupported", "reason", st.Reason)
		s.SetLabel(surface.Above, unsupportedLabel)
		s.SetLabel(surface.Below, "")
		l.clearLyrics()
		l.unsupportedCleared = true

	case Paused:
		if changed {
			logf = l.logger.Info
		}
		logf("player paused")
		l.sc.Track.Paused = true
	}
}

// onIncomplete handles metadata without a track ID or title. The position is
// still applied but the track state is discarded until the next tick.
func (l *Loop) onIncomplete(s surface.Surface, r Reading) {
	l.setStatus("playing", "")
	s.SetLyricStart(r.Start)
	old := l.sc.Track.Take()
	if old.Meta != nil {
		l.sc.nextGeneration()
		l.emit(func(sub *Subscription) { sub.sendTrack(TrackChange{Previous: old.Meta}) })
	}
	l.logger.Warn("player metadata has no track id or title, track state cleared")
}

// reset drops everything known about the current track and its lyrics.
func (l *Loop) reset(s surface.Surface) {
	resetLabels(s)
	l.clearLyrics()
	l.unsupportedCleared = false
	s.ClearLyricStart()
	old := l.sc.Track.Take()
	l.sc.nextGeneration()
	l.stopFetch()
	if old.Meta != nil {
		l.emit(func(sub *Subscription) { sub.sendTrack(TrackChange{Previous: old.Meta}) })
	}
}

// emitLyrics sends change to subscribers and remembers whether they now
// hold lyrics that a later clear must retract.
func (l *Loop) emitLyrics(change LyricsChange) {
	l.lyricsShown = !change.Cleared
	l.emit(func(sub *Subscription) { sub.sendLyrics(change) })
}

// clearLyrics empties the display. Subscribers hear about it once.
func (l *Loop) clearLyrics() {
	l.pipeline.Clear()
	if l.lyricsShown {
		l.emitLyrics(LyricsChange{Cleared: true})
	}
}

// setStatus records the current classification and reports whether it
// differs from the previous one.
func (l *Loop) setStatus(name, reason string) bool {
	key := name
	if reason != "" {
		key += ":" + reason
	}
	if l.sc.lastStatus == key {
		return false
	}
	prev := l.sc.lastStatus
	l.sc.lastStatus = key
	prevName, _, _ := strings.Cut(prev, ":")
	l.emit(func(sub *Subscription) {
		sub.sendStatus(StatusChange{Previous: prevName, Current: name, Reason: reason})
	})
	return true
}

func statusName(st PlayerStatus) string {
	name, _, _ := strings.Cut(statusKey(st), ":")
	return name
}

func unsupportedReason(st PlayerStatus) string {
	if u, ok := st.(Unsupported); ok {
		return u.Reason
	}
	return ""
}

func resetLabels(s surface.Surface) {
	s.SetLabel(surface.Above, "")
	s.SetLabel(surface.Below, "")
}
