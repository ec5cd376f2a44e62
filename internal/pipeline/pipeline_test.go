package pipeline_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/pipeline"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("date: " + err.Error())
	}
	return t
}

func TestReadSeries(t *testing.T) {
	input := `{"station":"VLISSGN","field":"level","date":"1950-01-01","value":1.5}
{"station":"VLISSGN","field":"level","date":"1950-01-02","value":null}

{"station":"VLISSGN","field":"level","date":"1950-01-03","value":-0.25}
`
	s, err := pipeline.ReadSeries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Station != "VLISSGN" || s.Field != model.FieldLevel {
		t.Errorf("header: %s %s", s.Station, s.Field)
	}
	if len(s.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(s.Points))
	}
	if s.Points[0].Value != 1.5 {
		t.Errorf("point 0: %g", s.Points[0].Value)
	}
	if !s.Points[1].IsMissing() {
		t.Error("null value should read as NaN")
	}
	if s.Points[2].Value != -0.25 {
		t.Errorf("point 2: %g", s.Points[2].Value)
	}
}

func TestReadSeriesDotIsMissing(t *testing.T) {
	input := `{"date":"1950-01-01","value":"."}` + "\n"
	s, err := pipeline.ReadSeries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Points[0].IsMissing() {
		t.Error("\".\" value should read as NaN")
	}
}

func TestReadSeriesErrors(t *testing.T) {
	cases := map[string]string{
		"empty input":   "",
		"invalid json":  "not json\n",
		"bad date":      `{"date":"01/01/1950","value":1}` + "\n",
		"string value":  `{"date":"1950-01-01","value":"high"}` + "\n",
		"boolean value": `{"date":"1950-01-01","value":true}` + "\n",
	}
	for name, input := range cases {
		if _, err := pipeline.ReadSeries(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	in := model.Series{
		Station: "VLISSGN",
		Field:   model.FieldTemperature,
		Points: []model.Point{
			{Date: date("1985-06-15"), Value: 17.5, ValueRaw: "17.5"},
			{Date: date("1985-06-16"), Value: math.NaN(), ValueRaw: "."},
		},
	}

	var buf bytes.Buffer
	if err := pipeline.WriteJSONL(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := pipeline.ReadSeries(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Station != in.Station || out.Field != in.Field {
		t.Errorf("header: %s %s", out.Station, out.Field)
	}
	if len(out.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out.Points))
	}
	if out.Points[0].Value != 17.5 {
		t.Errorf("value: %g", out.Points[0].Value)
	}
	if !out.Points[1].IsMissing() {
		t.Error("missing point should survive the round trip")
	}
	if !out.Points[0].Date.Equal(in.Points[0].Date) {
		t.Errorf("date: %v", out.Points[0].Date)
	}
}
