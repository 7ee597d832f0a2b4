// Package config loads lyricsync settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/lyricsync/internal/icons"
)

const appName = "lyricsync"

// Player backends.
const (
	BackendMPRIS = "mpris"
	BackendMPD   = "mpd"
)

// Overflow modes for lines longer than display.length.
const (
	OverflowWord     = "word"
	OverflowNone     = "none"
	OverflowEllipsis = "ellipsis"
)

type Config struct {
	// Interval between two sync ticks.
	Interval time.Duration `koanf:"interval" default:"100ms"`

	Player  PlayerConfig  `koanf:"player"`
	MPD     MPDConfig     `koanf:"mpd"`
	Lyrics  LyricsConfig  `koanf:"lyrics"`
	Display DisplayConfig `koanf:"display"`
	Feed    FeedConfig    `koanf:"feed"`
	Log     LogConfig     `koanf:"log"`
}

// PlayerConfig selects which media player to follow.
type PlayerConfig struct {
	Backend string   `koanf:"backend" default:"mpris"` // "mpris" or "mpd"
	Prefer  string   `koanf:"prefer"`                  // identity tried first, e.g. "spotify"
	Ignore  []string `koanf:"ignore"`                  // identities never bound automatically
}

// MPDConfig holds the MPD connection settings.
type MPDConfig struct {
	Address  string `koanf:"address" default:"127.0.0.1:6600"`
	Password string `koanf:"password"`
}

// LyricsConfig holds lyrics lookup and cache settings.
type LyricsConfig struct {
	OffsetMs    int64         `koanf:"offset_ms"`
	Cache       bool          `koanf:"cache" default:"true"`
	CacheDir    string        `koanf:"cache_dir"` // empty means $XDG_CACHE_HOME/lyricsync/lyrics
	Timeout     time.Duration `koanf:"timeout" default:"10s"`
	MissTTLDays int           `koanf:"miss_ttl_days" default:"7"`
	LrclibURL   string        `koanf:"lrclib_url" default:"https://lrclib.net/api"`
}

// DisplayConfig controls how lines are fitted to the output width.
type DisplayConfig struct {
	Length   int    `koanf:"length"`                  // 0 means unlimited
	Overflow string `koanf:"overflow" default:"word"` // "word", "none" or "ellipsis"
	Icons    string `koanf:"icons" default:"none"`    // "nerd", "unicode" or "none"
}

// FeedConfig configures the WebSocket feed of `lyricsync serve`.
type FeedConfig struct {
	Address string `koanf:"address" default:"127.0.0.1:7777"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level" default:"info"`
	File  string `koanf:"file"` // empty means $XDG_STATE_HOME/lyricsync/lyricsync.log in TUI mode
}

// Load reads the default config locations. Missing files are skipped.
func Load() (*Config, error) {
	return load(getConfigPaths(), false)
}

// LoadFile reads only path, which must exist.
func LoadFile(path string) (*Config, error) {
	return load([]string{expandPath(path)}, true)
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required {
				return nil, fmt.Errorf("config file: %w", err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Player.Backend = strings.ToLower(strings.TrimSpace(c.Player.Backend))
	c.Display.Overflow = strings.ToLower(strings.TrimSpace(c.Display.Overflow))
	c.Display.Icons = strings.ToLower(strings.TrimSpace(c.Display.Icons))
	c.Lyrics.LrclibURL = strings.TrimSuffix(c.Lyrics.LrclibURL, "/")

	// Expand ~ in paths
	c.Lyrics.CacheDir = expandPath(c.Lyrics.CacheDir)
	c.Log.File = expandPath(c.Log.File)
}

// maxOffsetMs is the largest lyric offset magnitude a time.Duration can hold.
const maxOffsetMs = math.MaxInt64 / int64(time.Millisecond)

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	switch c.Player.Backend {
	case BackendMPRIS, BackendMPD:
	default:
		errs = append(errs, fmt.Errorf("player.backend: unknown backend %q", c.Player.Backend))
	}
	switch c.Display.Overflow {
	case OverflowWord, OverflowNone, OverflowEllipsis:
	default:
		errs = append(errs, fmt.Errorf("display.overflow: unknown mode %q", c.Display.Overflow))
	}
	if !icons.Valid(c.Display.Icons) {
		errs = append(errs, fmt.Errorf("display.icons: unknown style %q", c.Display.Icons))
	}
	if c.Display.Length < 0 {
		errs = append(errs, errors.New("display.length must not be negative"))
	}
	if c.Lyrics.OffsetMs < -maxOffsetMs || c.Lyrics.OffsetMs > maxOffsetMs {
		errs = append(errs, fmt.Errorf("lyrics.offset_ms must be within ±%d, got %d", maxOffsetMs, c.Lyrics.OffsetMs))
	}
	return errors.Join(errs...)
}

// CacheDir returns the lyrics cache directory, or "" when caching is off.
func (c *Config) CacheDir() string {
	if !c.Lyrics.Cache {
		return ""
	}
	if c.Lyrics.CacheDir != "" {
		return c.Lyrics.CacheDir
	}
	return filepath.Join(xdg.CacheHome, appName, "lyrics")
}

// LogFile returns the log file path used when the terminal is taken by the TUI.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// MissTTL returns how long a lyrics miss is remembered.
func (c *Config) MissTTL() time.Duration {
	return time.Duration(c.Lyrics.MissTTLDays) * 24 * time.Hour
}

// Ignored reports whether identity is listed in player.ignore.
func (c *Config) Ignored(identity string) bool {
	for _, name := range c.Player.Ignore {
		if strings.EqualFold(name, identity) {
			return true
		}
	}
	return false
}

// Path returns the user config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/lyricsync/config.toml
		Path(),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
