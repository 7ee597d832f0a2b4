//go:build linux

package notify

import (
	"os"
	"testing"
	"time"
)

func TestBusNotifier_Replaces(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	n, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	first, err := n.Notify(Notification{
		Summary: "lyricsync test",
		Body:    "Failed to fetch lyrics: timeout",
		Expire:  time.Second,
		Urgency: UrgencyLow,
	})
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if first == 0 {
		t.Skip("notification daemon not running")
	}

	second, err := n.Notify(Notification{
		Summary:  "lyricsync test",
		Body:     "Failed to refetch lyrics: timeout",
		Expire:   time.Second,
		Replaces: first,
		Urgency:  UrgencyLow,
	})
	if err != nil {
		t.Fatalf("second Notify() error: %v", err)
	}
	if second != first {
		t.Errorf("replacing notification got id=%d, want %d", second, first)
	}
}
