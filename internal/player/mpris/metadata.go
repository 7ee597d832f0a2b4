// Package mpris observes media players over the D-Bus MPRIS interface.
package mpris

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/lyricsync/internal/track"
)

// BusPrefix is the well-known name prefix every MPRIS player owns.
const BusPrefix = "org.mpris.MediaPlayer2."

// rawFromMetadata converts an MPRIS Metadata dictionary. Missing or
// mistyped keys are left empty.
func rawFromMetadata(md map[string]dbus.Variant) track.Raw {
	return track.Raw{
		TrackID: trackID(md["mpris:trackid"]),
		Title:   str(md["xesam:title"]),
		Album:   str(md["xesam:album"]),
		Artists: strs(md["xesam:artist"]),
		URL:     str(md["xesam:url"]),
		Length:  micros(md["mpris:length"]),
	}
}

func trackID(v dbus.Variant) string {
	switch id := v.Value().(type) {
	case dbus.ObjectPath:
		return string(id)
	case string:
		return id
	}
	return ""
}

func str(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}

// strs accepts a string list or the single string some players send.
func strs(v dbus.Variant) []string {
	switch a := v.Value().(type) {
	case []string:
		out := make([]string, 0, len(a))
		for _, s := range a {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if a != "" {
			return []string{a}
		}
	}
	return nil
}

// micros reads a length in microseconds. Players disagree on the integer
// width, so every numeric type is accepted.
func micros(v dbus.Variant) time.Duration {
	var us int64
	switch n := v.Value().(type) {
	case int64:
		us = n
	case uint64:
		us = int64(n) //nolint:gosec // lengths never reach 2^63 µs
	case int32:
		us = int64(n)
	case uint32:
		us = int64(n)
	case float64:
		us = int64(n)
	default:
		return 0
	}
	if us < 0 {
		return 0
	}
	return time.Duration(us) * time.Microsecond
}

// shortName strips the MPRIS prefix from a bus name.
func shortName(busName string) string {
	return strings.TrimPrefix(busName, BusPrefix)
}

// matches reports whether id designates the player at busName with the given
// identity. id may be the identity, the full bus name or the bus name
// without prefix. Instance suffixes (".instance1234") are ignored.
func matches(id, busName, identity string) bool {
	if id == "" {
		return false
	}
	short := shortName(busName)
	base, _, _ := strings.Cut(short, ".")
	return strings.EqualFold(id, identity) ||
		strings.EqualFold(id, busName) ||
		strings.EqualFold(id, short) ||
		strings.EqualFold(id, base)
}
