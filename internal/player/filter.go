package player

// Filter wraps f so FindActive tries prefer first and never returns a player
// for which ignored reports true. Find is left untouched so ignored players
// can still be connected by hand.
func Filter(f Finder, prefer string, ignored func(identity string) bool) Finder {
	if prefer == "" && ignored == nil {
		return f
	}
	return &filteredFinder{Finder: f, prefer: prefer, ignored: ignored}
}

type filteredFinder struct {
	Finder
	prefer  string
	ignored func(string) bool
}

func (f *filteredFinder) isIgnored(identity string) bool {
	return f.ignored != nil && f.ignored(identity)
}

func (f *filteredFinder) FindActive() (Player, error) {
	if f.prefer != "" {
		if p, err := f.Finder.Find(f.prefer); err == nil && p.IsRunning() {
			return p, nil
		}
	}

	p, err := f.Finder.FindActive()
	if err != nil {
		return nil, err
	}
	if !f.isIgnored(p.Identity()) {
		return p, nil
	}

	ids, err := f.Finder.List()
	if err != nil {
		return nil, err
	}
	var best Player
	bestRank := -1
	for _, id := range ids {
		if f.isIgnored(id) {
			continue
		}
		c, err := f.Finder.Find(id)
		if err != nil || !c.IsRunning() {
			continue
		}
		st, err := c.PlaybackStatus()
		if err != nil {
			continue
		}
		if st.Rank() > bestRank {
			best, bestRank = c, st.Rank()
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (f *filteredFinder) List() ([]string, error) {
	ids, err := f.Finder.List()
	if err != nil {
		return nil, err
	}
	kept := ids[:0]
	for _, id := range ids {
		if !f.isIgnored(id) {
			kept = append(kept, id)
		}
	}
	return kept, nil
}
