// Package state persists small pieces of runtime state in sqlite: user
// settings changed from the UI and tracks the lyrics provider had nothing for.
package state

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/lyricsync/internal/db"
)

const (
	appName    = "lyricsync"
	dbFileName = "state.db"

	// DefaultMissTTL is how long a provider miss suppresses ambient lookups.
	DefaultMissTTL = 7 * 24 * time.Hour
)

const (
	keyLyricOffset = "lyric_offset_ms"
	keyLastPlayer  = "last_player"
)

type Manager struct {
	db      *sql.DB
	missTTL time.Duration
	now     func() time.Time
}

// Open opens the state database under the XDG data directory.
func Open(missTTL time.Duration) (*Manager, error) {
	dbPath, err := Path()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, missTTL)
}

// OpenPath opens the state database at path. Use db.Memory for tests.
func OpenPath(path string, missTTL time.Duration) (*Manager, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if missTTL <= 0 {
		missTTL = DefaultMissTTL
	}
	return &Manager{db: conn, missTTL: missTTL, now: time.Now}, nil
}

// Path returns the default database location.
func Path() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// LyricOffset returns the saved lyric offset. ok is false when none was saved.
func (m *Manager) LyricOffset() (ms int64, ok bool, err error) {
	v, ok, err := m.getSetting(keyLyricOffset)
	if err != nil || !ok {
		return 0, false, err
	}
	ms, err = strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return ms, true, nil
}

// SaveLyricOffset persists the lyric offset in milliseconds.
func (m *Manager) SaveLyricOffset(ms int64) error {
	return m.setSetting(keyLyricOffset, strconv.FormatInt(ms, 10))
}

// LastPlayer returns the identity of the last player connected by hand.
func (m *Manager) LastPlayer() (string, error) {
	v, _, err := m.getSetting(keyLastPlayer)
	return v, err
}

// SaveLastPlayer remembers the identity of a player connected by hand.
func (m *Manager) SaveLastPlayer(identity string) error {
	return m.setSetting(keyLastPlayer, identity)
}

func (m *Manager) getSetting(key string) (string, bool, error) {
	var value string
	err := m.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (m *Manager) setSetting(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// IsMissed reports whether key has a miss recorded within the TTL.
func (m *Manager) IsMissed(key string) (bool, error) {
	var fetchedAt int64
	err := m.db.QueryRow(`SELECT fetched_at FROM lyric_misses WHERE key = ?`, key).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.now().Sub(time.Unix(fetchedAt, 0)) < m.missTTL, nil
}

// RecordMiss stores a miss for key and drops expired ones.
func (m *Manager) RecordMiss(key string) error {
	now := m.now()
	return db.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO lyric_misses (key, fetched_at) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET fetched_at = excluded.fetched_at
		`, key, now.Unix())
		if err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM lyric_misses WHERE fetched_at < ?`, now.Add(-m.missTTL).Unix())
		return err
	})
}

// ClearMiss forgets the miss for key.
func (m *Manager) ClearMiss(key string) error {
	_, err := m.db.Exec(`DELETE FROM lyric_misses WHERE key = ?`, key)
	return err
}

// MissCount returns the number of misses still within the TTL.
func (m *Manager) MissCount() (int, error) {
	var n int
	err := m.db.QueryRow(
		`SELECT COUNT(*) FROM lyric_misses WHERE fetched_at >= ?`,
		m.now().Add(-m.missTTL).Unix(),
	).Scan(&n)
	return n, err
}

// ClearMisses forgets every recorded miss.
func (m *Manager) ClearMisses() error {
	_, err := m.db.Exec(`DELETE FROM lyric_misses`)
	return err
}
