package engine

import (
	"context"
	"errors"
	"slices"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/surface"
	"github.com/llehouerou/lyricsync/internal/track"
)

// fetchResult is posted back to the loop by a fetch goroutine.
type fetchResult struct {
	generation uint64
	meta       track.Meta
	surface    surface.Surface
	result     lyrics.FetchResult
	err        error
	// op is set for fetches started by a user action.
	op errmsg.Op
}

// startFetch invalidates in-flight fetches, clears the display and fetches
// lyrics for meta without blocking the loop.
func (l *Loop) startFetch(s surface.Surface, meta track.Meta, opts lyrics.FetchOptions, op errmsg.Op) {
	gen := l.sc.nextGeneration()
	resetLabels(s)
	l.clearLyrics()
	l.stopFetch()

	ctx, cancel := context.WithTimeout(l.runCtx, l.fetchTimeout)
	l.cancelFetch = cancel

	l.logger.Debug("fetching lyrics", "track", meta.String(), "force", opts.Force, "generation", gen)
	l.spawn(func() {
		defer cancel()
		res, err := l.pipeline.Fetch(ctx, meta, opts)
		l.deliver(fetchResult{
			generation: gen,
			meta:       meta,
			surface:    s,
			result:     res,
			err:        err,
			op:         op,
		})
	})
}

// stopFetch cancels the in-flight fetch, if any.
func (l *Loop) stopFetch() {
	if l.cancelFetch != nil {
		l.cancelFetch()
		l.cancelFetch = nil
	}
}

// deliver hands r to the loop, or drops it when the loop has stopped.
func (l *Loop) deliver(r fetchResult) {
	select {
	case l.results <- r:
	case <-l.done:
	}
}

// applyFetch shows a fetch result if it still matters: same generation,
// same track, and the surface it was started for is still shown.
func (l *Loop) applyFetch(r fetchResult) {
	if r.generation != l.sc.generation {
		l.logger.Debug("dropping stale lyrics", "track", r.meta.String(),
			"generation", r.generation, "current", l.sc.generation)
		return
	}
	if cur := l.sc.Track.Meta; cur == nil || !track.SameTrack(*cur, r.meta) {
		l.logger.Debug("dropping lyrics for a track no longer playing", "track", r.meta.String())
		return
	}
	if !slices.Contains(l.host.Surfaces(), r.surface) {
		l.logger.Debug("dropping lyrics for a closed surface", "track", r.meta.String())
		return
	}
	l.cancelFetch = nil

	if r.err != nil && r.result.Lyrics == nil {
		if errors.Is(r.err, context.Canceled) {
			return
		}
		l.logger.Error("lyrics fetch failed", "track", r.meta.String(), "err", r.err)
		if r.op != "" && l.reporter != nil {
			l.reporter.ReportError(r.op, r.err)
		}
		return
	}
	if r.err != nil {
		l.logger.Warn("lyrics fetched with errors", "track", r.meta.String(), "err", r.err)
	}

	if r.result.Lyrics.Empty() {
		l.logger.Info("no lyrics found", "track", r.meta.String(), "source", r.result.Source)
	} else {
		l.logger.Info("lyrics loaded", "track", r.meta.String(), "source", r.result.Source,
			"lines", len(r.result.Lyrics.Lines))
	}
	l.pipeline.Show(r.surface, r.result.Lyrics)
	l.pipeline.Refresh(r.surface, l.now())

	change := LyricsChange{Track: r.meta, Source: r.result.Source}
	if r.result.Lyrics != nil {
		change.Synced = r.result.Lyrics.IsSynced()
		change.Lines = len(r.result.Lyrics.Lines)
	}
	l.emitLyrics(change)
}
