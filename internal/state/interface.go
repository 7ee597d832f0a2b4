package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	LyricOffset() (ms int64, ok bool, err error)
	SaveLyricOffset(ms int64) error
	LastPlayer() (string, error)
	SaveLastPlayer(identity string) error
	IsMissed(key string) (bool, error)
	RecordMiss(key string) error
	ClearMiss(key string) error
	MissCount() (int, error)
	ClearMisses() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
