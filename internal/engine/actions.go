package engine

import (
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Actions are safe to call from any goroutine. They run on the loop
// goroutine in the order they were posted and are dropped once the loop
// has stopped.

// Disconnect unbinds the player and clears track and lyric state. The next
// tick searches for an active player again.
func (l *Loop) Disconnect() {
	l.post(l.disconnect)
}

func (l *Loop) disconnect() {
	bound := l.sc.Registry.Current()
	l.sc.Registry.Unbind()
	l.clearAll()
	if bound != nil {
		l.logger.Info("disconnected from player", "player", bound.Identity())
		l.emit(func(sub *Subscription) { sub.sendPlayer(PlayerChange{}) })
	}
}

// Connect binds the player matching identity.
func (l *Loop) Connect(identity string) {
	l.post(func() { l.connect(identity) })
}

func (l *Loop) connect(identity string) {
	p, err := l.sc.Registry.Connect(identity)
	if err != nil {
		l.logger.Warn("cannot connect to player", "player", identity, "err", err)
		l.report(errmsg.OpPlayerConnect, err)
		return
	}
	l.clearAll()
	l.logger.Info("connected to player", "player", p.Identity())
	l.emit(func(sub *Subscription) { sub.sendPlayer(PlayerChange{Identity: p.Identity()}) })

	if l.settings != nil {
		if err := l.settings.SaveLastPlayer(p.Identity()); err != nil {
			l.report(errmsg.OpPlayerSave, err)
		}
	}
}

// Reload fetches lyrics for the current track again, honoring the cache.
func (l *Loop) Reload() {
	l.post(func() { l.refetch(false, errmsg.OpLyricsReload) })
}

// Refetch fetches lyrics for the current track bypassing the cache and
// recorded misses.
func (l *Loop) Refetch() {
	l.post(func() { l.refetch(true, errmsg.OpLyricsRefetch) })
}

func (l *Loop) refetch(force bool, op errmsg.Op) {
	meta := l.sc.Track.Meta
	s := l.activeSurface()
	if meta == nil || s == nil {
		l.logger.Debug("nothing playing, ignoring lyrics reload", "force", force)
		return
	}
	l.startFetch(s, *meta, lyrics.FetchOptions{Force: force, Cache: s.CacheLyrics()}, op)
}

// RemoveLyric shows an empty lyric for the current track. When the surface
// caches lyrics the empty lyric is cached too, so it stays empty.
func (l *Loop) RemoveLyric() {
	l.post(l.removeLyric)
}

func (l *Loop) removeLyric() {
	meta := l.sc.Track.Meta
	s := l.activeSurface()
	if meta == nil || s == nil {
		return
	}
	l.sc.nextGeneration()
	l.stopFetch()
	resetLabels(s)
	err := l.pipeline.Remove(*meta, s.CacheLyrics())
	l.emitLyrics(LyricsChange{Track: *meta})
	if err != nil {
		l.logger.Error("cannot cache removed lyric", "track", meta.String(), "err", err)
		l.report(errmsg.OpLyricsRemove, err)
		return
	}
	l.logger.Info("removed lyric", "track", meta.String())
}

// ImportLyric shows the LRC file at path for the current track and caches
// it when the surface caches lyrics.
func (l *Loop) ImportLyric(path string) {
	l.post(func() { l.importLyric(path) })
}

func (l *Loop) importLyric(path string) {
	meta := l.sc.Track.Meta
	s := l.activeSurface()
	if meta == nil || s == nil {
		return
	}
	imported, err := l.pipeline.Import(*meta, path, s.CacheLyrics())
	if err != nil {
		l.logger.Error("cannot import lyric", "path", path, "err", err)
		l.report(errmsg.OpLyricsImport, err)
		return
	}
	l.sc.nextGeneration()
	l.stopFetch()
	l.pipeline.Show(s, imported)
	l.pipeline.Refresh(s, l.now())
	l.logger.Info("imported lyric", "track", meta.String(), "path", path)
	l.emitLyrics(LyricsChange{
		Track:  *meta,
		Source: lyrics.SourceLocal,
		Synced: imported.IsSynced(),
		Lines:  len(imported.Lines),
	})
}

// AdjustOffset shifts the lyric offset of the active surface by deltaMs and
// persists the new value. The next tick applies it.
func (l *Loop) AdjustOffset(deltaMs int64) {
	l.post(func() { l.adjustOffset(deltaMs) })
}

func (l *Loop) adjustOffset(deltaMs int64) {
	s := l.activeSurface()
	if s == nil {
		return
	}
	offset := clampOffset(clampOffset(s.LyricOffset()) + clampOffset(deltaMs))
	s.SetLyricOffset(offset)
	l.logger.Debug("lyric offset changed", "offset_ms", offset)

	if l.settings != nil {
		if err := l.settings.SaveLyricOffset(offset); err != nil {
			l.report(errmsg.OpOffsetSave, err)
		}
	}
}

// clampOffset limits ms to the offsets Estimate accepts. The sum of two
// clamped values cannot overflow.
func clampOffset(ms int64) int64 {
	return min(max(ms, -maxOffsetMs), maxOffsetMs)
}

// clearAll resets the active surface (if any) and the track state.
func (l *Loop) clearAll() {
	if s := l.activeSurface(); s != nil {
		l.reset(s)
		return
	}
	l.clearLyrics()
	old := l.sc.Track.Take()
	l.sc.nextGeneration()
	l.stopFetch()
	if old.Meta != nil {
		l.emit(func(sub *Subscription) { sub.sendTrack(TrackChange{Previous: old.Meta}) })
	}
}

func (l *Loop) report(op errmsg.Op, err error) {
	if l.reporter != nil {
		l.reporter.ReportError(op, err)
	}
}
