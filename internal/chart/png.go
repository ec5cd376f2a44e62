package chart

import (
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mhoekstra/gauge/internal/model"
)

// PNGOptions controls PNG export.
type PNGOptions struct {
	Width  int    // pixels; 0 = 1000
	Height int    // pixels; 0 = 400
	Title  string // empty = "<station> <field>"
}

// WritePNG renders s as a time-series line chart and writes it to path.
// Missing values split the line into separate segments, so gaps stay
// visible in the image just as they do in the terminal plot.
func WritePNG(path string, s model.Series, opts PNGOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 1000
	}
	height := opts.Height
	if height <= 0 {
		height = 400
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", s.Station, s.Field)
	}

	segments := splitSegments(s.Points)
	if len(segments) == 0 {
		return fmt.Errorf("png: no present values to render")
	}

	style := chart.Style{
		StrokeColor: drawing.ColorBlue,
		StrokeWidth: 1.5,
	}

	var series []chart.Series
	for _, seg := range segments {
		xs := make([]time.Time, len(seg))
		ys := make([]float64, len(seg))
		for i, p := range seg {
			xs[i] = p.Date
			ys[i] = p.Value
		}
		if len(seg) == 1 {
			// go-chart needs two X values per series; duplicate the point.
			xs = append(xs, xs[0].Add(12*time.Hour))
			ys = append(ys, ys[0])
		}
		series = append(series, chart.TimeSeries{
			Name:    string(s.Field),
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	graph := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: s.Field.Unit()},
		Series:     series,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// splitSegments breaks a point slice into contiguous runs of present values.
func splitSegments(pts []model.Point) [][]model.Point {
	var segs [][]model.Point
	var cur []model.Point
	for _, p := range pts {
		if p.IsMissing() {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}
