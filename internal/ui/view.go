package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/lyricsync/internal/icons"
	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/ui/render"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	t := styles.T()
	s := t.S()

	var b strings.Builder
	b.WriteString(s.Subtle.Render(m.header()))
	b.WriteString("\n\n")

	above, below := m.labels.Labels()
	above, below = render.Sanitize(above), render.Sanitize(below)
	if above != "" {
		b.WriteString(styles.LyricGradient(m.fit(above), t.Primary, t.Secondary))
	}
	b.WriteString("\n")
	if below != "" {
		b.WriteString(s.Muted.Render(m.fit(below)))
	}
	b.WriteString("\n\n")

	switch {
	case m.message != "":
		b.WriteString(s.Error.Render(m.message))
	case m.status == "unsupported" && m.reason != "":
		b.WriteString(s.Warning.Render(m.reason))
	default:
		b.WriteString(s.Subtle.Render(m.info()))
	}
	b.WriteString("\n")

	if m.prompt != promptNone {
		b.WriteString(s.Prompt.Render(s.Title.Render(m.promptTitle()) + "\n" + m.input.View()))
	} else {
		b.WriteString(s.Subtle.Render(keymap.Help(keymap.All)))
	}
	return b.String()
}

func (m *Model) header() string {
	if m.player == "" {
		return "no player"
	}
	parts := []string{icons.FormatPlayer(m.player)}
	if m.track != nil {
		parts = append(parts, icons.FormatTrack(m.track.String()))
	}
	left := render.Sanitize(strings.Join(parts, " · "))
	var right string
	if m.status == "paused" {
		right = icons.Paused()
	}
	if m.width <= 0 {
		return strings.TrimSpace(left + " " + right)
	}
	return render.Row(left, right, m.width)
}

// info describes the loaded lyrics and the offset.
func (m *Model) info() string {
	var parts []string
	if l := m.lyrics; l != nil {
		switch {
		case l.Lines == 0:
			parts = append(parts, "no lyrics")
		case l.Synced:
			parts = append(parts, english.Plural(l.Lines, "synced line", ""))
		default:
			parts = append(parts, "unsynced")
		}
		if l.Source != "" {
			parts = append(parts, l.Source)
		}
	}
	parts = append(parts, fmt.Sprintf("offset %+dms", m.labels.LyricOffset()))
	return strings.Join(parts, " · ")
}

func (m *Model) promptTitle() string {
	if m.prompt == promptImport {
		return "Import lyrics"
	}
	return "Connect to player"
}

func (m *Model) fit(text string) string {
	length := m.length
	if length <= 0 {
		length = m.width
	}
	return overflow.Fit(text, length, m.mode)
}
