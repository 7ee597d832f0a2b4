package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	offset     *int64
	lastPlayer string
	misses     map[string]bool
	closed     bool
	saveErr    error
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{misses: make(map[string]bool)}
}

func (m *Mock) LyricOffset() (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offset == nil {
		return 0, false, nil
	}
	return *m.offset, true, nil
}

func (m *Mock) SaveLyricOffset(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.offset = &ms
	return nil
}

func (m *Mock) LastPlayer() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPlayer, nil
}

func (m *Mock) SaveLastPlayer(identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lastPlayer = identity
	return nil
}

func (m *Mock) IsMissed(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses[key], nil
}

func (m *Mock) RecordMiss(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses[key] = true
	return nil
}

func (m *Mock) ClearMiss(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.misses, key)
	return nil
}

func (m *Mock) MissCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.misses), nil
}

func (m *Mock) ClearMisses() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.misses)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
