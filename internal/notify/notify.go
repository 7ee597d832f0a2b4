// Package notify shows failed user actions as desktop notifications.
package notify

import (
	"math"
	"time"
)

const appName = "lyricsync"

// Urgency levels defined by freedesktop notifications.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Summary  string
	Body     string
	Expire   time.Duration // 0 lets the server decide
	Replaces uint32        // id of a notification to update in place
	Urgency  Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id. Unavailable backends return 0, nil.
	Notify(n Notification) (uint32, error)
}

// expireMillis converts d to the expire_timeout argument of Notify.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}

type noop struct{}

func (noop) Notify(Notification) (uint32, error) { return 0, nil }
