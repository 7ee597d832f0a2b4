package lyrics

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/llehouerou/lyricsync/internal/surface"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Pipeline ties a Source, its Cache and a Display together for the sync loop.
// Fetch may run on any goroutine; every other method belongs to the loop.
type Pipeline struct {
	source  *Source
	cache   *Cache
	display Display
}

// NewPipeline creates a pipeline.
func NewPipeline(source *Source, cache *Cache) *Pipeline {
	return &Pipeline{source: source, cache: cache}
}

// Fetch looks lyrics up without touching display state.
func (p *Pipeline) Fetch(ctx context.Context, meta track.Meta, opts FetchOptions) (FetchResult, error) {
	return p.source.Fetch(ctx, meta, opts)
}

// Show displays l on s. Labels are cleared and repopulated by Refresh.
func (p *Pipeline) Show(s surface.Surface, l *Lyrics) {
	p.display.Set(l)
	s.SetLabel(surface.Above, "")
	s.SetLabel(surface.Below, "")
	if l != nil && !l.Empty() && !l.IsSynced() {
		s.SetLabel(surface.Above, l.Lines[0].Text)
		s.SetLabel(surface.Below, "(unsynced)")
	}
}

// Refresh moves the labels to the line matching now.
func (p *Pipeline) Refresh(s surface.Surface, now time.Time) {
	p.display.Refresh(s, now)
}

// Clear drops displayed lyrics.
func (p *Pipeline) Clear() {
	p.display.Clear()
}

// Current returns the displayed lyrics, or nil.
func (p *Pipeline) Current() *Lyrics {
	return p.display.Current()
}

// CachePath returns the cache key for meta.
func (p *Pipeline) CachePath(meta track.Meta) string {
	return p.cache.Path(meta)
}

// Remove shows an empty lyric for meta and, when cache is set, records the
// empty lyric in the cache so later syncs keep it empty.
func (p *Pipeline) Remove(meta track.Meta, cache bool) error {
	p.display.Set(&Lyrics{})
	if !cache {
		return nil
	}
	return p.cache.Save(p.cache.Path(meta), "")
}

// Import reads the LRC file at path for meta. When cache is set the file
// content replaces the cache entry. The display is not changed.
func (p *Pipeline) Import(meta track.Meta, path string, cache bool) (*Lyrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := ParseLRC(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if l.Empty() {
		return nil, fmt.Errorf("%s: no lyric lines", path)
	}
	if cache {
		if err := p.cache.Save(p.cache.Path(meta), string(data)); err != nil {
			return nil, fmt.Errorf("write cache: %w", err)
		}
	}
	return l, nil
}
