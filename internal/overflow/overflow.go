// Package overflow fits lyric lines into a fixed width.
package overflow

import (
	"fmt"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// Mode selects what happens to text wider than the limit.
type Mode string

const (
	// Word wraps at word boundaries onto several lines.
	Word Mode = "word"
	// None cuts the text at the limit.
	None Mode = "none"
	// Ellipsis cuts the text and marks the cut with "...".
	Ellipsis Mode = "ellipsis"
)

const tail = "..."

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Word, None, Ellipsis:
		return m, nil
	default:
		return "", fmt.Errorf("unknown overflow mode %q", s)
	}
}

// Fit returns text fitted into length cells. A length of zero or less
// disables fitting.
func Fit(text string, length int, mode Mode) string {
	if length <= 0 {
		return text
	}
	switch mode {
	case None:
		return truncate.String(text, uint(length))
	case Ellipsis:
		return truncate.StringWithTail(text, uint(length), tail)
	default:
		return wordwrap.String(text, length)
	}
}
