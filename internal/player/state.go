package player

// Status is the playback status a player advertises.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

// String returns the status name for debugging.
func (s Status) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// ParseStatus maps MPRIS ("Playing") and MPD ("play") spellings to a Status.
// Anything unrecognized is Stopped.
func ParseStatus(s string) Status {
	switch s {
	case "Playing", "playing", "play":
		return Playing
	case "Paused", "paused", "pause":
		return Paused
	default:
		return Stopped
	}
}

// Rank orders statuses for active player selection (higher wins).
func (s Status) Rank() int {
	switch s {
	case Playing:
		return 2
	case Paused:
		return 1
	default:
		return 0
	}
}
