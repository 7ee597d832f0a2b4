package lyrics

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/llehouerou/lyricsync/internal/track"
)

// Cache stores fetched LRC text as one file per track.
// An empty file records that the track has no lyrics.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. An empty dir disables caching.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the cache file for meta, or "" when caching is disabled.
// Tracks with an artist are keyed by artist/title, others by a hash of the ID.
func (c *Cache) Path(meta track.Meta) string {
	if c.dir == "" {
		return ""
	}
	if artist := meta.PrimaryArtist(); artist != "" && meta.Title != "" {
		return filepath.Join(c.dir, sanitizeFilename(artist), sanitizeFilename(meta.Title)+".lrc")
	}
	h := fnv.New64a()
	h.Write([]byte(meta.ID))
	return filepath.Join(c.dir, "_by-id", fmt.Sprintf("%x.lrc", h.Sum64()))
}

// Load reads a cached entry. ok is false when there is no entry.
func (c *Cache) Load(path string) (lyrics *Lyrics, ok bool, err error) {
	if path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	lyrics, err = ParseAny(string(data))
	if err != nil {
		return nil, false, err
	}
	return lyrics, true, nil
}

// Save writes content to path, creating parent directories.
func (c *Cache) Save(path, content string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// Stats walks the cache and returns entry count and total bytes.
func (c *Cache) Stats() (entries int, size int64, err error) {
	if c.dir == "" {
		return 0, 0, nil
	}
	err = filepath.WalkDir(c.dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".lrc" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}
	return os.RemoveAll(c.dir)
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename removes or replaces characters that are problematic in filenames.
func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "_"
	}
	return name
}
