package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mhoekstra/gauge/internal/analyze"
)

// density glyphs from sparse to dense.
var densityRunes = []rune("·∘○●█")

// ScatterOptions controls the character-grid scatter plot.
type ScatterOptions struct {
	Width  int // grid columns; 0 = 60
	Height int // grid rows; 0 = 20
}

// Scatter renders date-aligned pairs as a density grid to w. Cells holding
// multiple pairs darken through a glyph ramp, which keeps large paired
// samples readable where a plain scatter would solidify.
func Scatter(w io.Writer, corr analyze.Correlation, pairs []analyze.Pair, opts ScatterOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 60
	}
	height := opts.Height
	if height <= 0 {
		height = 20
	}
	if len(pairs) < 2 {
		return fmt.Errorf("scatter: need at least 2 pairs (got %d)", len(pairs))
	}

	xLo, xHi := pairs[0].X, pairs[0].X
	yLo, yHi := pairs[0].Y, pairs[0].Y
	for _, p := range pairs[1:] {
		xLo, xHi = math.Min(xLo, p.X), math.Max(xHi, p.X)
		yLo, yHi = math.Min(yLo, p.Y), math.Max(yHi, p.Y)
	}
	if xHi == xLo {
		xHi = xLo + 1
	}
	if yHi == yLo {
		yHi = yLo + 1
	}

	counts := make([][]int, height)
	for r := range counts {
		counts[r] = make([]int, width)
	}
	maxCount := 0
	for _, p := range pairs {
		c := int((p.X - xLo) / (xHi - xLo) * float64(width-1))
		r := int((yHi - p.Y) / (yHi - yLo) * float64(height-1))
		counts[r][c]++
		if counts[r][c] > maxCount {
			maxCount = counts[r][c]
		}
	}

	fmt.Fprintf(w, "%s  %s vs %s  (n=%d, r=%.3f)\n",
		corr.Station, corr.FieldX, corr.FieldY, corr.Pairs, corr.Pearson)

	yLabelWidth := len(axisNumber(yHi))
	if l := len(axisNumber(yLo)); l > yLabelWidth {
		yLabelWidth = l
	}
	for r := 0; r < height; r++ {
		label := ""
		if r == 0 {
			label = axisNumber(yHi)
		} else if r == height-1 {
			label = axisNumber(yLo)
		}
		var row strings.Builder
		for c := 0; c < width; c++ {
			n := counts[r][c]
			if n == 0 {
				row.WriteRune(' ')
				continue
			}
			idx := (n - 1) * len(densityRunes) / maxCount
			if idx >= len(densityRunes) {
				idx = len(densityRunes) - 1
			}
			row.WriteRune(densityRunes[idx])
		}
		fmt.Fprintf(w, "%*s│%s\n", yLabelWidth, label, row.String())
	}
	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", width))

	xStart := axisNumber(xLo)
	xEnd := axisNumber(xHi)
	pad := width - len(xStart) - len(xEnd)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(w, "%s %s%s%s\n", strings.Repeat(" ", yLabelWidth), xStart, strings.Repeat(" ", pad), xEnd)
	return nil
}
