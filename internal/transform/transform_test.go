package transform_test

import (
	"math"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/transform"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// makeDaily builds daily points starting at a date string.
func makeDaily(start string, values ...float64) []model.Point {
	t0 := date(start)
	out := make([]model.Point, len(values))
	for i, v := range values {
		out[i] = model.Point{Date: t0.AddDate(0, 0, i), Value: v}
	}
	return out
}

// date parses "YYYY-MM-DD" and panics on error. Test use only.
func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("date: " + err.Error())
	}
	return t
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ─── Lag ──────────────────────────────────────────────────────────────────────

func TestLag30(t *testing.T) {
	vals := make([]float64, 35)
	for i := range vals {
		vals[i] = float64(i * 10)
	}
	pts := makeDaily("1950-01-01", vals...)

	out, err := transform.Lag(pts, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 35 {
		t.Fatalf("length not preserved: got %d", len(out))
	}
	for i := 0; i < 30; i++ {
		if !math.IsNaN(out[i].Value) {
			t.Fatalf("out[%d]: expected NaN, got %g", i, out[i].Value)
		}
	}
	// v[30] - v[0] = 300 - 0
	if !approxEqual(out[30].Value, 300, 1e-9) {
		t.Errorf("out[30]: expected 300, got %g", out[30].Value)
	}
	if !out[30].Date.Equal(pts[30].Date) {
		t.Errorf("out[30] date should align with the current point")
	}
}

func TestLagNaNPropagates(t *testing.T) {
	pts := makeDaily("1950-01-01", 1, math.NaN(), 3, 4)
	out, err := transform.Lag(pts, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[1].Value) {
		t.Error("NaN current value should give NaN")
	}
	if !math.IsNaN(out[2].Value) {
		t.Error("NaN previous value should give NaN")
	}
	if !approxEqual(out[3].Value, 1, 1e-9) {
		t.Errorf("out[3]: expected 1, got %g", out[3].Value)
	}
}

func TestLagRejectsNonPositive(t *testing.T) {
	if _, err := transform.Lag(makeDaily("1950-01-01", 1, 2), 0); err == nil {
		t.Error("expected error for lag 0")
	}
}

// ─── Filter ───────────────────────────────────────────────────────────────────

func TestFilterDateBoundsInclusive(t *testing.T) {
	pts := makeDaily("1980-01-01", 1, 2, 3, 4, 5)
	out := transform.Filter(pts, transform.FilterOptions{
		Start: date("1980-01-02"),
		End:   date("1980-01-04"),
	})
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	if out[0].Value != 2 || out[2].Value != 4 {
		t.Errorf("bounds should be inclusive: got %g..%g", out[0].Value, out[2].Value)
	}
}

func TestFilterAfterYearStrict(t *testing.T) {
	pts := []model.Point{
		{Date: date("1980-12-31"), Value: 1},
		{Date: date("1981-01-01"), Value: 2},
	}
	out := transform.Filter(pts, transform.FilterOptions{AfterYear: 1980})
	if len(out) != 1 || out[0].Value != 2 {
		t.Fatalf("year threshold should be strict: got %d points", len(out))
	}
}

func TestFilterBucket(t *testing.T) {
	pts := []model.Point{
		{Date: date("1939-12-31"), Value: 1},
		{Date: date("1940-01-01"), Value: 2},
		{Date: date("1985-06-15"), Value: 3},
	}
	out := transform.Filter(pts, transform.FilterOptions{Bucket: model.Bucket1940})
	if len(out) != 1 || out[0].Value != 2 {
		t.Fatalf("expected only the 1940-1980 point, got %d points", len(out))
	}
}

func TestFilterDropMissing(t *testing.T) {
	pts := makeDaily("1950-01-01", 1, math.NaN(), 3)
	out := transform.Filter(pts, transform.FilterOptions{DropMissing: true})
	if len(out) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out))
	}
}

// ─── Resample ─────────────────────────────────────────────────────────────────

func TestResampleMonthlyMean(t *testing.T) {
	pts := []model.Point{
		{Date: date("1950-01-10"), Value: 1},
		{Date: date("1950-01-20"), Value: 3},
		{Date: date("1950-02-05"), Value: 10},
	}
	out, err := transform.Resample(pts, transform.ResampleMonthly, transform.ResampleMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(out))
	}
	if !approxEqual(out[0].Value, 2, 1e-9) {
		t.Errorf("january mean: expected 2, got %g", out[0].Value)
	}
	if !out[0].Date.Equal(date("1950-01-01")) {
		t.Errorf("period start: expected 1950-01-01, got %v", out[0].Date)
	}
}

func TestResampleAllNaNPeriodOmitted(t *testing.T) {
	pts := []model.Point{
		{Date: date("1950-01-10"), Value: math.NaN()},
		{Date: date("1950-02-05"), Value: 5},
	}
	out, err := transform.Resample(pts, transform.ResampleMonthly, transform.ResampleMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("all-NaN period should be omitted: got %d periods", len(out))
	}
	if !out[0].Date.Equal(date("1950-02-01")) {
		t.Errorf("surviving period: got %v", out[0].Date)
	}
}

func TestResampleAnnualMinMax(t *testing.T) {
	pts := []model.Point{
		{Date: date("1950-01-01"), Value: 4},
		{Date: date("1950-06-01"), Value: -2},
		{Date: date("1951-03-01"), Value: 7},
	}
	mins, err := transform.Resample(pts, transform.ResampleAnnual, transform.ResampleMin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mins[0].Value != -2 || mins[1].Value != 7 {
		t.Errorf("annual mins: got %g, %g", mins[0].Value, mins[1].Value)
	}
	maxs, err := transform.Resample(pts, transform.ResampleAnnual, transform.ResampleMax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxs[0].Value != 4 {
		t.Errorf("annual max 1950: got %g", maxs[0].Value)
	}
}

func TestResampleUnknownMethod(t *testing.T) {
	pts := makeDaily("1950-01-01", 1)
	if _, err := transform.Resample(pts, transform.ResampleMonthly, "median"); err == nil {
		t.Error("expected error for unknown method")
	}
}
