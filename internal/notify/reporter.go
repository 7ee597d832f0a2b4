package notify

import (
	"sync"
	"time"

	"github.com/llehouerou/lyricsync/internal/errmsg"
)

// errorExpire keeps failures on screen longer than the server default.
const errorExpire = 8 * time.Second

// Reporter turns failed user actions into desktop notifications. Each new
// failure replaces the previous one instead of stacking up.
type Reporter struct {
	notifier Notifier

	mu     sync.Mutex
	lastID uint32

	// OnError also receives every reported message, e.g. for a status line.
	OnError func(msg string)
}

// NewReporter wraps n. A nil n only forwards to OnError.
func NewReporter(n Notifier) *Reporter {
	return &Reporter{notifier: n}
}

// ReportError shows a user-facing message for op failing with err.
func (r *Reporter) ReportError(op errmsg.Op, err error) {
	msg := errmsg.Format(op, err)
	if msg == "" {
		return
	}
	if r.OnError != nil {
		r.OnError(msg)
	}
	if r.notifier == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id, nerr := r.notifier.Notify(Notification{
		Summary:  appName,
		Body:     msg,
		Expire:   errorExpire,
		Replaces: r.lastID,
		Urgency:  UrgencyCritical,
	})
	if nerr == nil {
		r.lastID = id
	}
}
