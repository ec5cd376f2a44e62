// Package model defines the canonical data types used throughout gauge.
// These types are the single source of truth for the prepared observation
// record, its single-field projections, and the result envelope that every
// command returns.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ─── Interval Buckets ─────────────────────────────────────────────────────────

// Bucket is one of four fixed historical date ranges used to facet seasonal
// views. Buckets partition the full date range with half-open boundaries at
// 1900-01-01, 1940-01-01 and 1980-01-01: a boundary date maps to the later
// bucket.
type Bucket string

const (
	BucketPre1900 Bucket = "pre-1900"
	Bucket1900    Bucket = "1900-1940"
	Bucket1940    Bucket = "1940-1980"
	Bucket1980    Bucket = "1980-today"
)

var bucketBoundaries = []struct {
	start  time.Time
	bucket Bucket
}{
	{time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Bucket1980},
	{time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC), Bucket1940},
	{time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), Bucket1900},
}

// BucketFor returns the interval bucket containing d.
// Pure function of the date; monotonic in d.
func BucketFor(d time.Time) Bucket {
	for _, b := range bucketBoundaries {
		if !d.Before(b.start) {
			return b.bucket
		}
	}
	return BucketPre1900
}

// Buckets returns all buckets in chronological order.
func Buckets() []Bucket {
	return []Bucket{BucketPre1900, Bucket1900, Bucket1940, Bucket1980}
}

// Order returns the chronological rank of b (0 = earliest). Unknown buckets
// sort last.
func (b Bucket) Order() int {
	for i, known := range Buckets() {
		if b == known {
			return i
		}
	}
	return len(Buckets())
}

// ParseBucket validates a bucket name from user input.
func ParseBucket(s string) (Bucket, error) {
	for _, b := range Buckets() {
		if s == string(b) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q (use pre-1900, 1900-1940, 1940-1980, 1980-today)", s)
}

// ─── Fields ───────────────────────────────────────────────────────────────────

// Field names one of the three measured quantities on an observation.
type Field string

const (
	FieldLevel       Field = "level"
	FieldSalinity    Field = "salinity"
	FieldTemperature Field = "temperature"
)

// Fields returns all measured fields in their input-column order.
func Fields() []Field {
	return []Field{FieldLevel, FieldSalinity, FieldTemperature}
}

// ParseField validates a field name from user input.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldLevel, FieldSalinity, FieldTemperature:
		return Field(s), nil
	}
	return "", fmt.Errorf("unknown field %q (use level, salinity, or temperature)", s)
}

// Unit returns the measurement unit for display.
func (f Field) Unit() string {
	switch f {
	case FieldLevel:
		return "m"
	case FieldSalinity:
		return "µS/cm"
	case FieldTemperature:
		return "°C"
	}
	return ""
}

// ─── Observation ──────────────────────────────────────────────────────────────

// Observation is one prepared input row: a calendar date with the three
// measured values. Missing measurements are NaN, never zero. TimeOfDay is
// parsed from the raw timestamp but unused by downstream views.
type Observation struct {
	Date        time.Time     `json:"date"`
	TimeOfDay   time.Duration `json:"time_of_day"`
	Station     string        `json:"station"`
	Level       float64       `json:"level"`
	Salinity    float64       `json:"salinity"`
	Temperature float64       `json:"temperature"`
	Bucket      Bucket        `json:"bucket"`
}

// Value returns the measurement for field f.
func (o Observation) Value(f Field) float64 {
	switch f {
	case FieldLevel:
		return o.Level
	case FieldSalinity:
		return o.Salinity
	case FieldTemperature:
		return o.Temperature
	}
	return math.NaN()
}

// IsMissing returns true if the measurement for field f is NaN.
func (o Observation) IsMissing(f Field) bool {
	return math.IsNaN(o.Value(f))
}

// MarshalJSON emits missing measurements as null; encoding/json rejects NaN.
func (o Observation) MarshalJSON() ([]byte, error) {
	type wire struct {
		Date        string   `json:"date"`
		TimeOfDay   string   `json:"time_of_day,omitempty"`
		Station     string   `json:"station"`
		Level       *float64 `json:"level"`
		Salinity    *float64 `json:"salinity"`
		Temperature *float64 `json:"temperature"`
		Bucket      Bucket   `json:"bucket"`
	}
	w := wire{
		Date:        o.Date.Format("2006-01-02"),
		Station:     o.Station,
		Level:       nullable(o.Level),
		Salinity:    nullable(o.Salinity),
		Temperature: nullable(o.Temperature),
		Bucket:      o.Bucket,
	}
	if o.TimeOfDay != 0 {
		w.TimeOfDay = o.TimeOfDay.String()
	}
	return json.Marshal(w)
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ─── Single-Field Series ──────────────────────────────────────────────────────

// Point is a single data point in a projected series.
// Value is NaN when the raw measurement was empty or unparseable.
// ValueRaw preserves the original input text where known.
type Point struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	ValueRaw string    `json:"value_raw"`
}

// IsMissing returns true if the point value is NaN.
func (p Point) IsMissing() bool {
	return math.IsNaN(p.Value)
}

// MarshalJSON emits a missing value as null; encoding/json rejects NaN.
func (p Point) MarshalJSON() ([]byte, error) {
	type wire struct {
		Date     string   `json:"date"`
		Value    *float64 `json:"value"`
		ValueRaw string   `json:"value_raw,omitempty"`
	}
	return json.Marshal(wire{
		Date:     p.Date.Format("2006-01-02"),
		Value:    nullable(p.Value),
		ValueRaw: p.ValueRaw,
	})
}

// Series bundles the points of one field for one station.
type Series struct {
	Station string  `json:"station"`
	Field   Field   `json:"field"`
	Points  []Point `json:"points"`
}

// Project extracts the single-field series for f from a prepared observation
// slice. Input order is preserved; NaN values are kept as gaps.
func Project(obs []Observation, f Field) Series {
	s := Series{Field: f}
	if len(obs) > 0 {
		s.Station = obs[0].Station
	}
	s.Points = make([]Point, len(obs))
	for i, o := range obs {
		v := o.Value(f)
		s.Points[i] = Point{Date: o.Date, Value: v, ValueRaw: FormatRaw(v)}
	}
	return s
}

// FormatRaw renders a value the way raw input text is echoed: "." for missing.
func FormatRaw(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	return fmt.Sprintf("%g", v)
}

// ─── Result Envelope ──────────────────────────────────────────────────────────

// ResultStats carries size and timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
	Dropped    int   `json:"dropped,omitempty"`
}

// Result is the uniform envelope returned by every command. The Data field
// holds the typed payload; Kind identifies what is in it. Renderers switch on
// Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindSeries       = "series"
	KindObservations = "observations"
	KindTable        = "table"
	KindReport       = "report"
)

// Table is a generic tabular payload for aggregation results.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
