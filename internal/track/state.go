package track

// State is what the sync engine knows about the current track.
// It has a single writer (the sync loop); readers get copies through Snapshot.
type State struct {
	Meta      *Meta
	Paused    bool
	CachePath string
}

// Take clears the state and returns what it held.
func (s *State) Take() State {
	old := *s
	*s = State{}
	return old
}

// Snapshot returns a copy that does not share the Meta pointer.
func (s *State) Snapshot() State {
	cp := *s
	if s.Meta != nil {
		m := *s.Meta
		cp.Meta = &m
	}
	return cp
}

// Observe records cur as the playing track if it differs from the stored one
// and reports whether it did. cachePath is only consulted on change.
func (s *State) Observe(cur Meta, cachePath func(Meta) string) bool {
	if !Changed(s.Meta, cur) {
		return false
	}
	m := cur
	s.Meta = &m
	s.CachePath = ""
	if cachePath != nil {
		s.CachePath = cachePath(cur)
	}
	return true
}
