package ingest_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/ingest"
	"github.com/mhoekstra/gauge/internal/model"
)

const preamble = "station metadata line 1\nline 2\nline 3\nline 4\n"

func prepare(t *testing.T, raw string) ingest.Prepared {
	t.Helper()
	p, err := ingest.Prepare(strings.NewReader(raw), ingest.Options{Station: "VLISSGN", SkipLines: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestPrepareSkipsPreamble(t *testing.T) {
	raw := preamble + "08:00 15/06/1985,1.23,28000,17.5\n"
	p := prepare(t, raw)
	if len(p.Obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(p.Obs))
	}
	o := p.Obs[0]
	want := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	if !o.Date.Equal(want) {
		t.Errorf("date: expected %v, got %v", want, o.Date)
	}
	if o.TimeOfDay != 8*time.Hour {
		t.Errorf("time of day: expected 8h, got %v", o.TimeOfDay)
	}
	if o.Station != "VLISSGN" {
		t.Errorf("station: got %q", o.Station)
	}
	if o.Level != 1.23 || o.Salinity != 28000 || o.Temperature != 17.5 {
		t.Errorf("values: got %g %g %g", o.Level, o.Salinity, o.Temperature)
	}
}

func TestPrepareBucketBoundaries(t *testing.T) {
	raw := preamble +
		"12:00 31/12/1899,1.0,,\n" +
		"12:00 01/01/1900,1.0,,\n" +
		"12:00 31/12/1939,1.0,,\n" +
		"12:00 01/01/1940,1.0,,\n" +
		"12:00 31/12/1979,1.0,,\n" +
		"12:00 01/01/1980,1.0,,\n"
	p := prepare(t, raw)
	if len(p.Obs) != 6 {
		t.Fatalf("expected 6 observations, got %d", len(p.Obs))
	}
	want := []model.Bucket{
		model.BucketPre1900,
		model.Bucket1900,
		model.Bucket1900,
		model.Bucket1940,
		model.Bucket1940,
		model.Bucket1980,
	}
	for i, o := range p.Obs {
		if o.Bucket != want[i] {
			t.Errorf("row %d (%s): expected bucket %s, got %s",
				i, o.Date.Format("2006-01-02"), want[i], o.Bucket)
		}
	}
}

func TestPrepareMissingValuesBecomeNaN(t *testing.T) {
	raw := preamble +
		"08:00 01/01/1950,,28000,\n" +
		"09:00 02/01/1950,1.5,not-a-number,12.0\n" +
		"10:00 03/01/1950,2.0\n"
	p := prepare(t, raw)
	if len(p.Obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(p.Obs))
	}
	if p.Dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", p.Dropped)
	}
	if !math.IsNaN(p.Obs[0].Level) || !math.IsNaN(p.Obs[0].Temperature) {
		t.Error("empty fields should be NaN")
	}
	if p.Obs[0].Salinity != 28000 {
		t.Errorf("salinity: got %g", p.Obs[0].Salinity)
	}
	if !math.IsNaN(p.Obs[1].Salinity) {
		t.Error("unparseable salinity should be NaN")
	}
	if !math.IsNaN(p.Obs[2].Salinity) || !math.IsNaN(p.Obs[2].Temperature) {
		t.Error("absent trailing columns should be NaN")
	}
}

func TestPrepareDropsMalformedTimestamps(t *testing.T) {
	raw := preamble +
		"08:00 01/01/1950,1.0,,\n" +
		"garbage-no-space,2.0,,\n" +
		"08:00 99/99/1950,3.0,,\n" +
		"25:00 01/01/1950,3.5,,\n" +
		"09:00 02/01/1950,4.0,,\n"
	p := prepare(t, raw)
	if len(p.Obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(p.Obs))
	}
	if p.Dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", p.Dropped)
	}
	if len(p.Warnings) == 0 {
		t.Error("expected a warning about dropped rows")
	}
	if p.Obs[0].Level != 1.0 || p.Obs[1].Level != 4.0 {
		t.Errorf("surviving rows wrong: %g %g", p.Obs[0].Level, p.Obs[1].Level)
	}
}

func TestPrepareOrderPreserved(t *testing.T) {
	// Input order is kept as-is, including out-of-order and duplicate dates.
	raw := preamble +
		"08:00 02/01/1950,2.0,,\n" +
		"08:00 01/01/1950,1.0,,\n" +
		"08:00 01/01/1950,1.5,,\n"
	p := prepare(t, raw)
	if len(p.Obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(p.Obs))
	}
	if p.Obs[0].Level != 2.0 || p.Obs[1].Level != 1.0 || p.Obs[2].Level != 1.5 {
		t.Errorf("order not preserved: %g %g %g",
			p.Obs[0].Level, p.Obs[1].Level, p.Obs[2].Level)
	}
}

func TestPreparePreambleIsNotParsedAsCSV(t *testing.T) {
	// Metadata lines are free-form text. A quoted field spanning two
	// physical lines must still count as two skipped lines, and a stray
	// quote must not surface in the drop diagnostics.
	raw := "\"Murray River\nmonitoring export\",meta\n" +
		"line 3\n" +
		"line 4\n" +
		"08:00 01/01/1950,1.0,,\n" +
		"09:00 02/01/1950,2.0,,\n"
	p := prepare(t, raw)
	if len(p.Obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(p.Obs))
	}
	if p.Obs[0].Level != 1.0 || p.Obs[1].Level != 2.0 {
		t.Errorf("surviving rows wrong: %g %g", p.Obs[0].Level, p.Obs[1].Level)
	}
	if p.Dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", p.Dropped)
	}

	raw = "station \"VLISSGN export\n" +
		"line 2\nline 3\nline 4\n" +
		"08:00 01/01/1950,1.0,,\n"
	p = prepare(t, raw)
	if len(p.Obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(p.Obs))
	}
	if p.Dropped != 0 || len(p.Warnings) != 0 {
		t.Errorf("header-only noise must not be counted: dropped=%d warnings=%v",
			p.Dropped, p.Warnings)
	}
}

func TestPrepareNegativeSkipUsesDefault(t *testing.T) {
	raw := preamble + "08:00 01/01/1950,1.0,,\n"
	p, err := ingest.Prepare(strings.NewReader(raw), ingest.Options{Station: "X", SkipLines: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(p.Obs))
	}
}

func TestPrepareSecondsInClock(t *testing.T) {
	raw := preamble + "08:30:45 01/01/1950,1.0,,\n"
	p := prepare(t, raw)
	if len(p.Obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(p.Obs))
	}
	want := 8*time.Hour + 30*time.Minute + 45*time.Second
	if p.Obs[0].TimeOfDay != want {
		t.Errorf("time of day: expected %v, got %v", want, p.Obs[0].TimeOfDay)
	}
}
