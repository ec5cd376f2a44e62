// Package transform implements stateless pipeline operators that take a slice
// of Points and return a new slice. Each operator is a pure function; no side
// effects, no I/O.
package transform

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
)

// ─── Lag Difference ───────────────────────────────────────────────────────────

// DefaultLagDays is the fixed offset the rate-of-change view uses.
const DefaultLagDays = 30

// Lag computes the lag-N difference v[i] - v[i-lag]. The first lag outputs
// are NaN; length is preserved and dates align with the current point.
//
// The offset is applied on sequence position, not calendar distance: if the
// input has duplicate or missing dates, the comparison point shifts with
// them. Callers wanting a calendar-exact lag must densify the series first.
func Lag(points []model.Point, lag int) ([]model.Point, error) {
	if lag < 1 {
		return nil, fmt.Errorf("lag: offset must be >= 1, got %d", lag)
	}
	out := make([]model.Point, len(points))
	for i, p := range points {
		var val float64
		if i < lag {
			val = math.NaN()
		} else {
			prev := points[i-lag].Value
			if math.IsNaN(p.Value) || math.IsNaN(prev) {
				val = math.NaN()
			} else {
				val = p.Value - prev
			}
		}
		out[i] = model.Point{
			Date:     p.Date,
			Value:    val,
			ValueRaw: model.FormatRaw(val),
		}
	}
	return out, nil
}

// ─── Filter ───────────────────────────────────────────────────────────────────

// FilterOptions describes a date/bucket filter predicate.
type FilterOptions struct {
	Start       time.Time    // keep points with date >= Start (zero = no bound)
	End         time.Time    // keep points with date <= End (zero = no bound)
	AfterYear   int          // keep points with year(date) > AfterYear (0 = off)
	Bucket      model.Bucket // keep points whose date falls in this bucket ("" = off)
	DropMissing bool         // drop NaN points
}

// Filter returns points matching all active criteria in opts. Date bounds are
// inclusive; the year threshold is strict.
func Filter(points []model.Point, opts FilterOptions) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if !opts.Start.IsZero() && p.Date.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && p.Date.After(opts.End) {
			continue
		}
		if opts.AfterYear != 0 && p.Date.Year() <= opts.AfterYear {
			continue
		}
		if opts.Bucket != "" && model.BucketFor(p.Date) != opts.Bucket {
			continue
		}
		if opts.DropMissing && p.IsMissing() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ─── Resample ─────────────────────────────────────────────────────────────────

// ResampleFreq is the target frequency for resampling.
type ResampleFreq string

const (
	ResampleMonthly ResampleFreq = "monthly"
	ResampleAnnual  ResampleFreq = "annual"
)

// ResampleMethod is the aggregation applied within each period.
type ResampleMethod string

const (
	ResampleMean ResampleMethod = "mean"
	ResampleMin  ResampleMethod = "min"
	ResampleMax  ResampleMethod = "max"
	ResampleLast ResampleMethod = "last"
)

// Resample aggregates points to a lower frequency. Points are grouped by
// period; NaN values are skipped inside each group. A period with no non-NaN
// values is omitted from the output entirely (empty-group policy).
func Resample(points []model.Point, freq ResampleFreq, method ResampleMethod) ([]model.Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("resample: empty input")
	}
	switch method {
	case ResampleMean, ResampleMin, ResampleMax, ResampleLast:
	default:
		return nil, fmt.Errorf("resample: unknown method %q (use mean, min, max, last)", method)
	}

	groups := make(map[string][]float64)
	starts := make(map[string]time.Time)

	for _, p := range points {
		key, start, err := periodKey(p.Date, freq)
		if err != nil {
			return nil, err
		}
		if !p.IsMissing() {
			groups[key] = append(groups[key], p.Value)
		}
		if _, seen := starts[key]; !seen {
			starts[key] = start
		}
	}

	keys := make([]string, 0, len(starts))
	for k := range starts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.Point, 0, len(keys))
	for _, k := range keys {
		vals := groups[k]
		if len(vals) == 0 {
			continue
		}
		var val float64
		switch method {
		case ResampleMean:
			val = mean(vals)
		case ResampleMin:
			val, _ = minmax(vals)
		case ResampleMax:
			_, val = minmax(vals)
		case ResampleLast:
			val = vals[len(vals)-1]
		}
		out = append(out, model.Point{
			Date:     starts[k],
			Value:    val,
			ValueRaw: model.FormatRaw(val),
		})
	}
	return out, nil
}

// periodKey returns a sortable key and canonical start date for the period
// containing t.
func periodKey(t time.Time, freq ResampleFreq) (string, time.Time, error) {
	switch freq {
	case ResampleAnnual:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d", t.Year()), start, nil
	case ResampleMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d-%02d", t.Year(), t.Month()), start, nil
	}
	return "", time.Time{}, fmt.Errorf("resample: unknown frequency %q (use monthly or annual)", freq)
}

// ─── Math helpers ─────────────────────────────────────────────────────────────

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func minmax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}
