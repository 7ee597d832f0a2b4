package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// fallbackGray replaces colors that are not "#rrggbb", e.g. ANSI indexes.
var fallbackGray = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// LyricGradient renders the current lyric line in bold, blending from one
// color to the other across each row. Wrapped lyrics restart the gradient
// on every row.
func LyricGradient(text string, from, to lipgloss.Color) string {
	rows := strings.Split(text, "\n")
	for i, row := range rows {
		rows[i] = gradientRow(row, from, to)
	}
	return strings.Join(rows, "\n")
}

func gradientRow(row string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(row)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range blend(len(clusters), from, to) {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Bold(true).
			Render(clusters[i]))
	}
	return b.String()
}

// blend returns n colors from from to to, interpolated in HCL space.
func blend(n int, from, to lipgloss.Color) []colorful.Color {
	start, end := hexColor(from), hexColor(to)
	if n < 2 {
		return []colorful.Color{start}
	}
	out := make([]colorful.Color, n)
	for i := range n {
		out[i] = start.BlendHcl(end, float64(i)/float64(n-1)).Clamped()
	}
	return out
}

func hexColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return fallbackGray
	}
	return col
}
