package engine

import (
	"math"
	"time"
)

// epoch is the earliest representable lyric start.
var epoch = time.Unix(0, 0)

// maxOffsetMs is the largest offset magnitude that fits in a time.Duration.
const maxOffsetMs = math.MaxInt64 / int64(time.Millisecond)

// Estimate returns the instant matching playback position zero, skewed by
// offsetMs. A negative offset moves the start earlier, which delays lines; a
// positive one moves it later. It fails with Unsupported instead of wrapping
// around when the arithmetic leaves the representable range.
func Estimate(now time.Time, elapsed time.Duration, offsetMs int64) (time.Time, error) {
	if elapsed < 0 {
		return time.Time{}, Unsupported{Reason: ReasonPosition}
	}
	if elapsed > now.Sub(epoch) {
		return time.Time{}, Unsupported{Reason: ReasonPositionTooLarge}
	}
	start := now.Add(-elapsed)

	if offsetMs < -maxOffsetMs || offsetMs > maxOffsetMs {
		return time.Time{}, Unsupported{Reason: ReasonOffset}
	}
	skew := time.Duration(offsetMs) * time.Millisecond
	if skew < 0 && -skew > start.Sub(epoch) {
		return time.Time{}, Unsupported{Reason: ReasonOffset}
	}
	return start.Add(skew), nil
}
