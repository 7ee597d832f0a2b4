package player

import (
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/lyricsync/internal/track"
)

// Mock is a test double for Player.
type Mock struct {
	mu          sync.Mutex
	identity    string
	running     bool
	status      Status
	statusErr   error
	position    time.Duration
	positionErr error
	meta        track.Raw
	metaErr     error
	calls       int
}

// NewMock creates a running, stopped mock player.
func NewMock(identity string) *Mock {
	return &Mock{identity: identity, running: true}
}

func (m *Mock) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Mock) Identity() string { return m.identity }

func (m *Mock) PlaybackStatus() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.status, m.statusErr
}

func (m *Mock) Position() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, m.positionErr
}

func (m *Mock) Metadata() (track.Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta, m.metaErr
}

// Test helpers

func (m *Mock) SetRunning(running bool) { m.set(func() { m.running = running }) }

func (m *Mock) SetStatus(s Status) { m.set(func() { m.status = s }) }

func (m *Mock) SetStatusError(err error) { m.set(func() { m.statusErr = err }) }

func (m *Mock) SetPosition(d time.Duration) { m.set(func() { m.position = d }) }

func (m *Mock) SetPositionError(err error) { m.set(func() { m.positionErr = err }) }

func (m *Mock) SetMetadata(raw track.Raw) { m.set(func() { m.meta = raw }) }

func (m *Mock) SetMetadataError(err error) { m.set(func() { m.metaErr = err }) }

// StatusCalls returns how many times PlaybackStatus was queried.
func (m *Mock) StatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *Mock) set(fn func()) {
	m.mu.Lock()
	fn()
	m.mu.Unlock()
}

func (m *Mock) rank() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.Rank()
}

// MockFinder is a test double for Finder that searches a fixed player list.
type MockFinder struct {
	Players []*Mock

	mu          sync.Mutex
	activeCalls int
}

// NewMockFinder creates a finder over players.
func NewMockFinder(players ...*Mock) *MockFinder {
	return &MockFinder{Players: players}
}

func (f *MockFinder) FindActive() (Player, error) {
	f.mu.Lock()
	f.activeCalls++
	f.mu.Unlock()

	var best *Mock
	for _, p := range f.Players {
		if !p.IsRunning() {
			continue
		}
		if best == nil || p.rank() > best.rank() {
			best = p
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (f *MockFinder) Find(id string) (Player, error) {
	for _, p := range f.Players {
		if p.IsRunning() && strings.EqualFold(p.identity, id) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *MockFinder) List() ([]string, error) {
	var ids []string
	for _, p := range f.Players {
		if p.IsRunning() {
			ids = append(ids, p.identity)
		}
	}
	return ids, nil
}

// ActiveCalls returns how many times FindActive was called.
func (f *MockFinder) ActiveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeCalls
}

// Verify mocks implement the interfaces at compile time.
var (
	_ Player = (*Mock)(nil)
	_ Finder = (*MockFinder)(nil)
)
