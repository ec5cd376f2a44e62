package analyze_test

import (
	"math"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/analyze"
	"github.com/mhoekstra/gauge/internal/model"
)

// makeMonthly builds a monthly series from a generator over the index.
func makeMonthly(n int, f func(i int) float64) model.Series {
	s := model.Series{Station: "VLISSGN", Field: model.FieldLevel}
	for i := 0; i < n; i++ {
		d := time.Date(1980, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC)
		s.Points = append(s.Points, model.Point{Date: d, Value: f(i)})
	}
	return s
}

func TestDecomposeRecoversSeasonalPattern(t *testing.T) {
	// Flat trend at 10 with a period-4 pattern {+2, 0, -2, 0}.
	pattern := []float64{2, 0, -2, 0}
	s := makeMonthly(24, func(i int) float64 { return 10 + pattern[i%4] })

	d, err := analyze.Decompose(s, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Period != 4 {
		t.Errorf("period: got %d", d.Period)
	}
	if len(d.Trend) != 24 || len(d.Seasonal) != 24 || len(d.Residual) != 24 {
		t.Fatal("component lengths must match input")
	}

	// Interior trend should be the flat level.
	for i := 4; i < 20; i++ {
		if !approxEqual(d.Trend[i].Value, 10, 1e-9) {
			t.Errorf("trend[%d]: expected 10, got %g", i, d.Trend[i].Value)
		}
	}
	// Seasonal component recovers the injected pattern at every phase.
	for i := 0; i < 24; i++ {
		if !approxEqual(d.Seasonal[i].Value, pattern[i%4], 1e-9) {
			t.Errorf("seasonal[%d]: expected %g, got %g", i, pattern[i%4], d.Seasonal[i].Value)
		}
	}
	// Residuals vanish where the trend is defined.
	for i := 4; i < 20; i++ {
		if !approxEqual(d.Residual[i].Value, 0, 1e-9) {
			t.Errorf("residual[%d]: expected 0, got %g", i, d.Residual[i].Value)
		}
	}
}

func TestDecomposeEdgesAreNaN(t *testing.T) {
	s := makeMonthly(12, func(i int) float64 { return float64(i) })
	d, err := analyze.Decompose(s, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(d.Trend[0].Value) || !math.IsNaN(d.Trend[11].Value) {
		t.Error("trend must be NaN within half a period of the ends")
	}
	if !math.IsNaN(d.Residual[0].Value) {
		t.Error("residual must be NaN where the trend is NaN")
	}
}

func TestDecomposeRejectsShortInput(t *testing.T) {
	s := makeMonthly(7, func(i int) float64 { return float64(i) })
	if _, err := analyze.Decompose(s, 4); err == nil {
		t.Error("expected error for fewer than 2 periods of data")
	}
}

func TestDecomposeRejectsBadPeriod(t *testing.T) {
	s := makeMonthly(24, func(i int) float64 { return float64(i) })
	if _, err := analyze.Decompose(s, 1); err == nil {
		t.Error("expected error for period < 2")
	}
}
