// Package lyrics provides lyrics parsing, sourcing and display.
package lyrics

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line represents a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics contains parsed lyrics with optional metadata.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
	// Offset comes from the LRC [offset:] tag. Positive values show lines sooner.
	Offset time.Duration
}

// Empty reports whether there is nothing to display.
func (l *Lyrics) Empty() bool {
	return l == nil || len(l.Lines) == 0
}

// IsSynced returns true if the lyrics have timestamps (synced).
func (l *Lyrics) IsSynced() bool {
	if l.Empty() {
		return false
	}
	for _, line := range l.Lines {
		if line.Time > 0 {
			return true
		}
	}
	return false
}

// LineAt returns the index of the lyric line at the given playback position.
// Returns -1 if no line is active yet or if lyrics are unsynced.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if !l.IsSynced() {
		return -1
	}
	pos += l.Offset

	// First line strictly after pos, minus one
	idx := sort.Search(len(l.Lines), func(i int) bool {
		return l.Lines[i].Time > pos
	})
	return idx - 1
}

// TextAt returns the text of line i, or "" when i is out of range.
func (l *Lyrics) TextAt(i int) string {
	if l == nil || i < 0 || i >= len(l.Lines) {
		return ""
	}
	return l.Lines[i].Text
}

var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches metadata tags like [ar:Artist Name] or [offset:+250]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC format lyrics from a reader.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			case "offset":
				if ms, err := strconv.Atoi(strings.TrimPrefix(value, "+")); err == nil {
					lyrics.Offset = time.Duration(ms) * time.Millisecond
				}
			}
			continue
		}

		// LRC can have multiple timestamps for the same text: [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		lastMatch := matches[len(matches)-1]
		text := strings.TrimSpace(line[lastMatch[1]:])

		for _, match := range matches {
			ts, err := parseTimestamp(line[match[0]:match[1]])
			if err != nil {
				continue
			}
			lyrics.Lines = append(lyrics.Lines, Line{Time: ts, Text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lyrics.Lines, func(i, j int) bool {
		return lyrics.Lines[i].Time < lyrics.Lines[j].Time
	})

	return lyrics, nil
}

// ParsePlain turns unsynced text into lines at time zero.
func ParsePlain(text string) *Lyrics {
	lyrics := &Lyrics{}
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lyrics.Lines = append(lyrics.Lines, Line{Text: line})
		}
	}
	return lyrics
}

// ParseAny parses text as LRC when it carries timestamps, else as plain text.
func ParseAny(text string) (*Lyrics, error) {
	if timestampRe.MatchString(text) {
		return ParseLRC(strings.NewReader(text))
	}
	return ParsePlain(text), nil
}

// parseTimestamp parses a timestamp like [00:12.34] into a Duration.
func parseTimestamp(s string) (time.Duration, error) {
	matches := timestampRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}

	seconds, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}

	var millis int
	if frac := matches[3]; frac != "" {
		// .x is tenths, .xx hundredths, .xxx milliseconds
		if len(frac) > 3 {
			frac = frac[:3]
		}
		millis, err = strconv.Atoi(frac)
		if err != nil {
			return 0, err
		}
		for range 3 - len(frac) {
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
