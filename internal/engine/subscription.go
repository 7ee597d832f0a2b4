package engine

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StatusChanged <-chan StatusChange
	PlayerChanged <-chan PlayerChange
	TrackChanged  <-chan TrackChange
	LyricsChanged <-chan LyricsChange
	Done          <-chan struct{}

	// Internal write channels
	statusCh chan StatusChange
	playerCh chan PlayerChange
	trackCh  chan TrackChange
	lyricsCh chan LyricsChange
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		statusCh: make(chan StatusChange, eventBufferSize),
		playerCh: make(chan PlayerChange, eventBufferSize),
		trackCh:  make(chan TrackChange, eventBufferSize),
		lyricsCh: make(chan LyricsChange, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.StatusChanged = s.statusCh
	s.PlayerChanged = s.playerCh
	s.TrackChanged = s.trackCh
	s.LyricsChanged = s.lyricsCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// Events are dropped when a subscriber's buffer is full.

func (s *Subscription) sendStatus(e StatusChange) {
	select {
	case s.statusCh <- e:
	default:
	}
}

func (s *Subscription) sendPlayer(e PlayerChange) {
	select {
	case s.playerCh <- e:
	default:
	}
}

func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
}

func (s *Subscription) sendLyrics(e LyricsChange) {
	select {
	case s.lyricsCh <- e:
	default:
	}
}
