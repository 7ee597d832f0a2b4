package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Where a FetchResult came from.
const (
	SourceLocal    = "local"
	SourceEmbedded = "embedded"
	SourceCache    = "cache"
	SourceAPI      = "api"
	SourceNotFound = "not_found"
)

// Provider looks lyrics up remotely.
type Provider interface {
	Get(ctx context.Context, q lrclib.Query) (*lrclib.LyricsResult, error)
}

// MissStore remembers tracks the provider had no lyrics for.
type MissStore interface {
	IsMissed(key string) (bool, error)
	RecordMiss(key string) error
	ClearMiss(key string) error
}

// FetchOptions controls one lookup.
type FetchOptions struct {
	// Force skips the cache and recorded misses.
	Force bool
	// Cache writes provider results to the cache.
	Cache bool
}

// FetchResult contains the result of a lyrics fetch. Lyrics is nil when
// nothing was found.
type FetchResult struct {
	Lyrics *Lyrics
	Source string
}

// Source provides lyrics from local files, cache, or a remote provider.
type Source struct {
	provider Provider
	cache    *Cache
	misses   MissStore
}

// NewSource creates a new lyrics source. misses may be nil.
func NewSource(provider Provider, cache *Cache, misses MissStore) *Source {
	return &Source{provider: provider, cache: cache, misses: misses}
}

// Fetch retrieves lyrics for a track using the priority order:
// 1. .lrc file next to the audio file, then lyrics embedded in its tags
// 2. cache entry (skipped when forced)
// 3. provider (skipped when a recent miss is recorded, unless forced)
func (s *Source) Fetch(ctx context.Context, meta track.Meta, opts FetchOptions) (FetchResult, error) {
	if path := localPath(meta.URL); path != "" {
		if lyrics, err := s.loadFromFile(lrcPathForAudio(path)); err == nil && !lyrics.Empty() {
			return FetchResult{Lyrics: lyrics, Source: SourceLocal}, nil
		}
		if lyrics := embeddedLyrics(path); !lyrics.Empty() {
			return FetchResult{Lyrics: lyrics, Source: SourceEmbedded}, nil
		}
	}

	cachePath := s.cache.Path(meta)
	if !opts.Force {
		lyrics, ok, err := s.cache.Load(cachePath)
		if err != nil {
			return FetchResult{}, fmt.Errorf("read cache: %w", err)
		}
		if ok {
			return FetchResult{Lyrics: lyrics, Source: SourceCache}, nil
		}
	}

	if meta.PrimaryArtist() == "" || meta.Title == "" {
		return FetchResult{Source: SourceNotFound}, nil
	}

	if !opts.Force && s.misses != nil {
		if missed, err := s.misses.IsMissed(MissKey(meta)); err == nil && missed {
			return FetchResult{Source: SourceNotFound}, nil
		}
	}

	return s.fetchFromProvider(ctx, meta, cachePath, opts)
}

func (s *Source) fetchFromProvider(ctx context.Context, meta track.Meta, cachePath string, opts FetchOptions) (FetchResult, error) {
	result, err := s.provider.Get(ctx, lrclib.Query{
		Artist:   meta.PrimaryArtist(),
		Title:    meta.Title,
		Album:    meta.Album,
		Duration: meta.Length,
	})
	if err != nil {
		// ErrNotFound is not a real error, just means no lyrics available
		if errors.Is(err, lrclib.ErrNotFound) {
			if s.misses != nil {
				_ = s.misses.RecordMiss(MissKey(meta))
			}
			return FetchResult{Source: SourceNotFound}, nil
		}
		return FetchResult{}, err
	}

	lyrics := parseLyricsResult(result)
	if lyrics.Empty() {
		if s.misses != nil {
			_ = s.misses.RecordMiss(MissKey(meta))
		}
		return FetchResult{Source: SourceNotFound}, nil
	}

	if s.misses != nil && opts.Force {
		_ = s.misses.ClearMiss(MissKey(meta))
	}
	if opts.Cache && result.HasSyncedLyrics() {
		if err := s.cache.Save(cachePath, result.SyncedLyrics); err != nil {
			return FetchResult{Lyrics: lyrics, Source: SourceAPI}, fmt.Errorf("write cache: %w", err)
		}
	}

	return FetchResult{Lyrics: lyrics, Source: SourceAPI}, nil
}

// MissKey identifies a track in the miss store.
func MissKey(meta track.Meta) string {
	return strings.ToLower(meta.PrimaryArtist() + "\x1f" + meta.Title)
}

// parseLyricsResult parses the API result into a Lyrics struct.
func parseLyricsResult(result *lrclib.LyricsResult) *Lyrics {
	var lyrics *Lyrics
	switch {
	case result.HasSyncedLyrics():
		var err error
		lyrics, err = ParseAny(result.SyncedLyrics)
		if err != nil {
			return nil
		}
	case result.HasPlainLyrics():
		lyrics = ParsePlain(result.PlainLyrics)
	default:
		return nil
	}

	if lyrics.Artist == "" {
		lyrics.Artist = result.ArtistName
	}
	if lyrics.Title == "" {
		lyrics.Title = result.TrackName
	}
	if lyrics.Album == "" {
		lyrics.Album = result.AlbumName
	}
	return lyrics
}

// localPath returns the filesystem path of a file:// URL, or "".
func localPath(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return u.Path
}

// lrcPathForAudio returns the expected .lrc file path for an audio file.
func lrcPathForAudio(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}

// loadFromFile loads lyrics from an LRC file.
func (s *Source) loadFromFile(path string) (*Lyrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLRC(f)
}

// embeddedLyrics reads the lyrics tag (ID3 USLT, MP4 ©lyr, Vorbis LYRICS).
func embeddedLyrics(path string) *Lyrics {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m.Lyrics() == "" {
		return nil
	}
	lyrics, err := ParseAny(m.Lyrics())
	if err != nil {
		return nil
	}
	return lyrics
}
