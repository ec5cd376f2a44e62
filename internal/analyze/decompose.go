package analyze

import (
	"fmt"
	"math"

	"github.com/mhoekstra/gauge/internal/model"
)

// Decomposition is the classical additive split of a series into trend,
// seasonal and residual components. All four slices share the input's dates
// and length; positions where the centered moving average is undefined hold
// NaN.
type Decomposition struct {
	Station  string        `json:"station"`
	Field    model.Field   `json:"field"`
	Period   int           `json:"period"`
	Trend    []model.Point `json:"trend"`
	Seasonal []model.Point `json:"seasonal"`
	Residual []model.Point `json:"residual"`
}

// Decompose performs classical additive seasonal decomposition: trend from a
// centered moving average of length period, seasonal from per-phase averaging
// of the detrended series (centered to mean zero), residual as the remainder.
// Requires at least two full periods of data.
func Decompose(s model.Series, period int) (*Decomposition, error) {
	n := len(s.Points)
	if period < 2 {
		return nil, fmt.Errorf("decompose: period must be >= 2, got %d", period)
	}
	if n < 2*period {
		return nil, fmt.Errorf("decompose: need at least %d points for period %d, got %d", 2*period, period, n)
	}

	vals := make([]float64, n)
	for i, p := range s.Points {
		vals[i] = p.Value
	}

	trend := centeredMA(vals, period)

	// Per-phase means of the detrended series.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) || math.IsNaN(vals[i]) {
			continue
		}
		phase := i % period
		pattern[phase] += vals[i] - trend[i]
		counts[phase]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Center the seasonal pattern so it sums to zero over one period.
	var patternMean float64
	for _, v := range pattern {
		patternMean += v
	}
	patternMean /= float64(period)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	d := &Decomposition{
		Station:  s.Station,
		Field:    s.Field,
		Period:   period,
		Trend:    make([]model.Point, n),
		Seasonal: make([]model.Point, n),
		Residual: make([]model.Point, n),
	}
	for i := 0; i < n; i++ {
		seas := pattern[i%period]
		var resid float64
		if math.IsNaN(trend[i]) || math.IsNaN(vals[i]) {
			resid = math.NaN()
		} else {
			resid = vals[i] - trend[i] - seas
		}
		date := s.Points[i].Date
		d.Trend[i] = model.Point{Date: date, Value: trend[i], ValueRaw: model.FormatRaw(trend[i])}
		d.Seasonal[i] = model.Point{Date: date, Value: seas, ValueRaw: model.FormatRaw(seas)}
		d.Residual[i] = model.Point{Date: date, Value: resid, ValueRaw: model.FormatRaw(resid)}
	}
	return d, nil
}

// centeredMA computes a centered moving average of length period. For even
// periods the two edge terms get half weight (2×period MA). Positions within
// half a period of either end are NaN, as are windows containing NaN input.
func centeredMA(vals []float64, period int) []float64 {
	n := len(vals)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	half := period / 2

	for i := half; i < n-half; i++ {
		var sum float64
		ok := true
		if period%2 == 0 {
			sum += vals[i-half] * 0.5
			sum += vals[i+half] * 0.5
			if math.IsNaN(vals[i-half]) || math.IsNaN(vals[i+half]) {
				ok = false
			}
			for j := i - half + 1; j < i+half && ok; j++ {
				if math.IsNaN(vals[j]) {
					ok = false
				}
				sum += vals[j]
			}
		} else {
			for j := i - half; j <= i+half && ok; j++ {
				if math.IsNaN(vals[j]) {
					ok = false
				}
				sum += vals[j]
			}
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}
