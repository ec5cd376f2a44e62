// Package chart renders gauge series as terminal charts and PNG images.
//
//   - Plot: braille-free ASCII line chart with labeled axes, NaN gaps kept
//   - Bar: horizontal bar chart, one bar per point, for resampled series
//   - Scatter: character-grid density plot for paired measurements
//   - PNG: file export via wcharczuk/go-chart for reports
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mhoekstra/gauge/internal/model"
)

const defaultPlotHeight = 14

// PlotOptions controls ASCII line chart rendering.
type PlotOptions struct {
	Width  int    // total character width; 0 = $COLUMNS or 80
	Height int    // chart body rows; 0 = 14
	Title  string // empty = "<station> <field>"
}

// Plot renders s as an ASCII line chart to w. Missing values leave visible
// gaps in the line rather than collapsing to zero.
func Plot(w io.Writer, s model.Series, opts PlotOptions) error {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", s.Station, s.Field)
	}

	lo, hi, nValid := valueRange(s.Points)
	if nValid < 2 {
		return fmt.Errorf("plot: need at least 2 present values (got %d)", nValid)
	}

	labels := axisLabels(lo, hi, height)
	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	bodyWidth := width - labelWidth - 1
	if bodyWidth < 16 {
		bodyWidth = 16
	}

	cols := condense(s.Points, bodyWidth)
	grid := traceGrid(cols, lo, hi, height)

	fmt.Fprintf(w, "%s  %s to %s  [%s]\n",
		title,
		s.Points[0].Date.Format("2006-01-02"),
		s.Points[len(s.Points)-1].Date.Format("2006-01-02"),
		s.Field.Unit())

	for r := 0; r < height; r++ {
		label := labels[r]
		axis := "┤"
		if label == "" {
			axis = "│"
		}
		fmt.Fprintf(w, "%*s%s%s\n", labelWidth, label, axis, string(grid[r]))
	}
	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", labelWidth), strings.Repeat("─", bodyWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", labelWidth), dateRuler(s.Points, bodyWidth))
	return nil
}

// BarOptions controls horizontal bar chart rendering.
type BarOptions struct {
	Width   int // total character width; 0 = $COLUMNS or 80
	MaxBars int // keep only the last N bars when exceeded; 0 = unlimited
}

// Bar renders s as a horizontal bar chart to w, one row per present point.
// Dense series should be resampled first; a hint is printed past 60 bars.
func Bar(w io.Writer, s model.Series, opts BarOptions) error {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}

	var pts []model.Point
	for _, p := range s.Points {
		if !p.IsMissing() {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("bar: no present values to render")
	}
	if opts.MaxBars > 0 && len(pts) > opts.MaxBars {
		pts = pts[len(pts)-opts.MaxBars:]
	}
	if len(pts) > 60 {
		fmt.Fprintf(w, "⚠  %d bars — consider piping through: gauge transform resample --freq annual\n\n", len(pts))
	}

	lo, hi := pts[0].Value, pts[0].Value
	for _, p := range pts[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	dateFmt := barDateFormat(pts)
	valWidth := 0
	for _, p := range pts {
		if l := len(axisNumber(p.Value)); l > valWidth {
			valWidth = l
		}
	}
	area := width - len(pts[0].Date.Format(dateFmt)) - valWidth - 4
	if area < 4 {
		area = 4
	}

	fmt.Fprintf(w, "%s %s  %s – %s\n", s.Station, s.Field,
		pts[0].Date.Format(dateFmt), pts[len(pts)-1].Date.Format(dateFmt))

	zero := 0
	if lo < 0 {
		zero = int(math.Round(-lo / span * float64(area-1)))
	}
	for _, p := range pts {
		var bar string
		if lo < 0 {
			bar = splitBar(p.Value, span, area, zero)
		} else {
			n := int(math.Round((p.Value - lo) / span * float64(area)))
			if n < 1 {
				n = 1
			}
			if n > area {
				n = area
			}
			bar = strings.Repeat("█", n)
		}
		fmt.Fprintf(w, "%s  %*s  %s\n", p.Date.Format(dateFmt), valWidth, axisNumber(p.Value), bar)
	}
	return nil
}

// splitBar draws a bar extending left of the zero column for negative values
// and right for positive ones.
func splitBar(v, span float64, area, zero int) string {
	buf := []rune(strings.Repeat(" ", area))
	if zero >= 0 && zero < area {
		buf[zero] = '│'
	}
	steps := int(math.Round(math.Abs(v) / span * float64(area-1)))
	if v >= 0 {
		for i := zero + 1; i <= zero+steps && i < area; i++ {
			buf[i] = '█'
		}
	} else {
		for i := zero - steps; i < zero; i++ {
			if i >= 0 {
				buf[i] = '█'
			}
		}
	}
	return string(buf)
}

func barDateFormat(pts []model.Point) string {
	annual := true
	monthly := true
	for _, p := range pts {
		if p.Date.Day() != 1 {
			monthly, annual = false, false
			break
		}
		if p.Date.Month() != 1 {
			annual = false
		}
	}
	switch {
	case annual:
		return "2006"
	case monthly:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}

// ─── Line tracing ────────────────────────────────────────────────────────────

// condense buckets points into exactly n columns, averaging present values.
// A column whose bucket is entirely missing becomes NaN.
func condense(pts []model.Point, n int) []float64 {
	out := make([]float64, n)
	total := len(pts)
	for c := 0; c < n; c++ {
		lo := c * total / n
		hi := (c+1) * total / n
		if hi <= lo {
			hi = lo + 1
		}
		sum, cnt := 0.0, 0
		for i := lo; i < hi && i < total; i++ {
			if !pts[i].IsMissing() {
				sum += pts[i].Value
				cnt++
			}
		}
		if cnt == 0 {
			out[c] = math.NaN()
		} else {
			out[c] = sum / float64(cnt)
		}
	}
	return out
}

func rowFor(v, lo, hi float64, height int) int {
	if hi == lo {
		return height / 2
	}
	r := int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
	if r < 0 {
		r = 0
	}
	if r >= height {
		r = height - 1
	}
	return r
}

// traceGrid draws the condensed columns into a rune grid, connecting
// neighbouring columns with box-drawing corners and verticals. NaN columns
// stay blank.
func traceGrid(cols []float64, lo, hi float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	rows := make([]int, len(cols))
	for c, v := range cols {
		if math.IsNaN(v) {
			rows[c] = -1
		} else {
			rows[c] = rowFor(v, lo, hi, height)
		}
	}

	for c, r := range rows {
		if r < 0 {
			continue
		}
		prev, next := -1, -1
		if c > 0 {
			prev = rows[c-1]
		}
		if c < len(cols)-1 {
			next = rows[c+1]
		}

		switch {
		case prev < 0 && next < 0:
			grid[r][c] = '·'
		case (prev < 0 || prev == r) && (next < 0 || next == r):
			grid[r][c] = '─'
		case prev >= 0 && prev < r && next >= 0 && next < r:
			grid[r][c] = '─'
		case prev >= 0 && prev > r && next >= 0 && next > r:
			grid[r][c] = '─'
		case next >= 0 && next > r && (prev < 0 || prev <= r):
			grid[r][c] = '╮'
		case next >= 0 && next < r && (prev < 0 || prev >= r):
			grid[r][c] = '╯'
		case prev >= 0 && prev > r:
			grid[r][c] = '╭'
		case prev >= 0 && prev < r:
			grid[r][c] = '╰'
		default:
			grid[r][c] = '│'
		}

		if prev >= 0 && prev != r {
			a, b := r, prev
			if a > b {
				a, b = b, a
			}
			for fill := a + 1; fill < b; fill++ {
				if grid[fill][c] == ' ' {
					grid[fill][c] = '│'
				}
			}
		}
	}
	return grid
}

// ─── Axes ────────────────────────────────────────────────────────────────────

// valueRange scans points for min, max, and the count of present values.
func valueRange(pts []model.Point) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if p.IsMissing() {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
		n++
	}
	return lo, hi, n
}

// axisLabels produces one label string per row, blank except at tick rows.
func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	nTicks := 5
	if height < 8 {
		nTicks = 3
	}
	for i := 0; i < nTicks; i++ {
		v := hi - float64(i)*(hi-lo)/float64(nTicks-1)
		r := rowFor(v, lo, hi, height)
		if labels[r] == "" {
			labels[r] = axisNumber(v)
		}
	}
	return labels
}

// dateRuler places start, middle, and end date labels under the plot.
func dateRuler(pts []model.Point, width int) string {
	buf := []rune(strings.Repeat(" ", width))
	put := func(pos int, s string) {
		for i, ch := range s {
			if pos+i >= 0 && pos+i < width {
				buf[pos+i] = ch
			}
		}
	}
	start := pts[0].Date.Format("2006-01")
	mid := pts[len(pts)/2].Date.Format("2006-01")
	end := pts[len(pts)-1].Date.Format("2006-01")
	put(0, start)
	put(width/2-len(mid)/2, mid)
	put(width-len(end), end)
	return string(buf)
}

// axisNumber formats a value for axis and bar labels: compact, trailing
// zeros trimmed, at least one decimal kept.
func axisNumber(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	abs := math.Abs(v)
	var s string
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	case abs >= 10:
		s = strconv.FormatFloat(v, 'f', 1, 64)
	case abs >= 1:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	default:
		s = strconv.FormatFloat(v, 'f', 3, 64)
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// termWidth reads $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
