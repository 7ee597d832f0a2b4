// Package engine keeps lyric display in sync with an external media player.
//
// A Loop polls the bound player on a fixed interval, classifies what it sees
// into a PlayerStatus, estimates when the current track started and triggers
// lyric fetches when the track changes. All engine state is owned by the
// loop goroutine; other goroutines interact through actions posted with the
// Loop's methods.
package engine

// Unsupported reasons.
const (
	ReasonProgress         = "cannot fetch progress"
	ReasonMetadata         = "cannot get metadata of track playing"
	ReasonPosition         = "cannot get playback position"
	ReasonPositionTooLarge = "position is greater than system time"
	ReasonOffset           = "lyric offset out of range"
)

// PlayerStatus is a non-healthy classification of the bound player.
// The set of implementations is closed: Missing, Paused and Unsupported.
type PlayerStatus interface {
	error
	playerStatus()
}

// Missing means no player is bound or the bound one went away.
type Missing struct{}

func (Missing) Error() string { return "player missing" }
func (Missing) playerStatus() {}

// Paused means the player is not playing. Displayed lyrics are kept.
type Paused struct{}

func (Paused) Error() string { return "player paused" }
func (Paused) playerStatus() {}

// Unsupported means the player is present but one of its queries failed.
type Unsupported struct {
	Reason string
}

func (u Unsupported) Error() string { return "unsupported player: " + u.Reason }
func (Unsupported) playerStatus() {}

// statusKey identifies a status for log deduplication. Unsupported
// statuses with different reasons have different keys.
func statusKey(st PlayerStatus) string {
	switch st := st.(type) {
	case Missing:
		return "missing"
	case Paused:
		return "paused"
	case Unsupported:
		return "unsupported:" + st.Reason
	default:
		return ""
	}
}
