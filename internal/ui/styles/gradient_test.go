package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestLyricGradient_KeepsText(t *testing.T) {
	from, to := lipgloss.Color("#a78bfa"), lipgloss.Color("#f1a208")

	got := LyricGradient("never gonna\ngive you up", from, to)

	assert.Equal(t, "never gonna\ngive you up", ansi.Strip(got))
	assert.Len(t, strings.Split(got, "\n"), 2)
}

func TestLyricGradient_Empty(t *testing.T) {
	assert.Empty(t, LyricGradient("", "#000000", "#ffffff"))
}

func TestBlend(t *testing.T) {
	colors := blend(3, "#000000", "#ffffff")
	assert.Len(t, colors, 3)
	assert.Equal(t, "#000000", colors[0].Hex())
	assert.Equal(t, "#ffffff", colors[2].Hex())

	assert.Len(t, blend(1, "#a78bfa", "#f1a208"), 1)
}

func TestHexColor_ANSIFallsBackToGray(t *testing.T) {
	assert.Equal(t, fallbackGray, hexColor("240"))
	assert.Equal(t, "#a78bfa", hexColor("#a78bfa").Hex())
}
