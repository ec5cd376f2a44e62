// Package analyze computes statistical summaries, per-year extremes, field
// correlations and seasonal profiles over projected point series. All
// functions are pure; no I/O.
package analyze

import (
	"fmt"
	"math"
	"sort"

	"github.com/mhoekstra/gauge/internal/model"
)

// ─── Summary ──────────────────────────────────────────────────────────────────

// Summary holds descriptive statistics for one field series.
type Summary struct {
	Station    string      `json:"station"`
	Field      model.Field `json:"field"`
	Count      int         `json:"count"`
	Missing    int         `json:"missing"`
	MissingPct float64     `json:"missing_pct"`
	Mean       float64     `json:"mean"`
	Std        float64     `json:"std"`
	Min        float64     `json:"min"`
	Median     float64     `json:"median"`
	Max        float64     `json:"max"`
	First      float64     `json:"first"` // first non-NaN value
	Last       float64     `json:"last"`  // last non-NaN value
}

// Summarize computes descriptive statistics over s. NaN values are excluded
// from all numeric computations but counted.
func Summarize(s model.Series) Summary {
	out := Summary{Station: s.Station, Field: s.Field, Count: len(s.Points)}

	var vals []float64
	for _, p := range s.Points {
		if p.IsMissing() {
			out.Missing++
		} else {
			vals = append(vals, p.Value)
		}
	}
	if out.Count > 0 {
		out.MissingPct = float64(out.Missing) / float64(out.Count) * 100
	}
	if len(vals) == 0 {
		nan := math.NaN()
		out.Mean, out.Std, out.Min, out.Median, out.Max = nan, nan, nan, nan, nan
		out.First, out.Last = nan, nan
		return out
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	out.Min = sorted[0]
	out.Max = sorted[len(sorted)-1]
	out.Mean = mean(vals)
	out.Std = stddev(vals, out.Mean)
	out.Median = percentile(sorted, 50)

	for _, p := range s.Points {
		if !p.IsMissing() {
			out.First = p.Value
			break
		}
	}
	for i := len(s.Points) - 1; i >= 0; i-- {
		if !s.Points[i].IsMissing() {
			out.Last = s.Points[i].Value
			break
		}
	}
	return out
}

// ─── Per-Year Extremes ────────────────────────────────────────────────────────

// YearExtremes is the min/max of one field within one calendar year.
type YearExtremes struct {
	Year int     `json:"year"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	N    int     `json:"n"` // non-NaN observations in the year
}

// MinMaxByYear groups points by calendar year and reduces each group with
// min/max, ignoring NaN. A year whose values are all NaN yields no row.
// Output is sorted by year ascending.
func MinMaxByYear(points []model.Point) []YearExtremes {
	byYear := make(map[int][]float64)
	for _, p := range points {
		if p.IsMissing() {
			continue
		}
		y := p.Date.Year()
		byYear[y] = append(byYear[y], p.Value)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearExtremes, 0, len(years))
	for _, y := range years {
		vals := byYear[y]
		mn, mx := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < mn {
				mn = v
			}
			if v > mx {
				mx = v
			}
		}
		out = append(out, YearExtremes{Year: y, Min: mn, Max: mx, N: len(vals)})
	}
	return out
}

// ─── Correlation ──────────────────────────────────────────────────────────────

// Correlation is the pairwise relationship between two fields.
type Correlation struct {
	Station string      `json:"station"`
	FieldX  model.Field `json:"field_x"`
	FieldY  model.Field `json:"field_y"`
	Pearson float64     `json:"pearson"`
	Pairs   int         `json:"pairs"` // dates where both fields are non-NaN
}

// Pair is one (x, y) sample used by scatter views.
type Pair struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Correlate aligns two series by date and computes the Pearson coefficient
// over dates where both values are present. The returned pairs feed the
// scatter view. Alignment is by exact calendar date; duplicate dates pair in
// encounter order.
func Correlate(x, y model.Series) (Correlation, []Pair, error) {
	c := Correlation{Station: x.Station, FieldX: x.Field, FieldY: y.Field}

	yByDate := make(map[string][]float64, len(y.Points))
	for _, p := range y.Points {
		k := p.Date.Format("2006-01-02")
		yByDate[k] = append(yByDate[k], p.Value)
	}

	var pairs []Pair
	taken := make(map[string]int)
	for _, p := range x.Points {
		k := p.Date.Format("2006-01-02")
		candidates := yByDate[k]
		i := taken[k]
		if i >= len(candidates) {
			continue
		}
		taken[k] = i + 1
		yv := candidates[i]
		if math.IsNaN(p.Value) || math.IsNaN(yv) {
			continue
		}
		pairs = append(pairs, Pair{X: p.Value, Y: yv})
	}
	c.Pairs = len(pairs)
	if len(pairs) < 2 {
		return c, nil, fmt.Errorf("correlate: need at least 2 complete pairs, got %d", len(pairs))
	}

	var xs, ys []float64
	for _, pr := range pairs {
		xs = append(xs, pr.X)
		ys = append(ys, pr.Y)
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return c, pairs, fmt.Errorf("correlate: zero variance in %s or %s", x.Field, y.Field)
	}
	c.Pearson = cov / math.Sqrt(vx*vy)
	return c, pairs, nil
}

// ─── Seasonal Profile ─────────────────────────────────────────────────────────

// SeasonalCell is the mean of one field for one calendar month within one
// interval bucket.
type SeasonalCell struct {
	Bucket model.Bucket `json:"bucket"`
	Month  int          `json:"month"` // 1-12
	Mean   float64      `json:"mean"`
	N      int          `json:"n"`
}

// SeasonalProfile computes per-month means faceted by interval bucket, the
// tabular core of the seasonal overlay view. Cells with no non-NaN values are
// omitted. Output is ordered by bucket age, then month.
func SeasonalProfile(points []model.Point) []SeasonalCell {
	type key struct {
		bucket model.Bucket
		month  int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)

	for _, p := range points {
		if p.IsMissing() {
			continue
		}
		k := key{model.BucketFor(p.Date), int(p.Date.Month())}
		sums[k] += p.Value
		counts[k]++
	}

	out := make([]SeasonalCell, 0, len(sums))
	for k, sum := range sums {
		out = append(out, SeasonalCell{
			Bucket: k.bucket,
			Month:  k.month,
			Mean:   sum / float64(counts[k]),
			N:      counts[k],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket.Order() < out[j].Bucket.Order()
		}
		return out[i].Month < out[j].Month
	})
	return out
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

func stddev(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}

func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	idx := p / 100 * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
