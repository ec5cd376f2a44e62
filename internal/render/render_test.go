package render_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/render"
)

func seriesResult() *model.Result {
	s := &model.Series{
		Station: "VLISSGN",
		Field:   model.FieldLevel,
		Points: []model.Point{
			{Date: time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), Value: 1.5, ValueRaw: "1.5"},
			{Date: time.Date(1985, 6, 16, 0, 0, 0, 0, time.UTC), Value: math.NaN(), ValueRaw: "."},
		},
	}
	return &model.Result{
		Kind:        model.KindSeries,
		GeneratedAt: time.Now(),
		Command:     "obs get",
		Data:        s,
		Stats:       model.ResultStats{Items: 2},
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "."},
		{1.5, "1.5"},
		{4.0, "4.0"},
		{-0.25, "-0.25"},
		{1.234567, "1.234567"},
	}
	for _, c := range cases {
		if got := render.FormatValue(c.in); got != c.want {
			t.Errorf("FormatValue(%g): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, seriesResult(), render.FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "VLISSGN") || !strings.Contains(out, "1985-06-15") {
		t.Error("table output missing expected cells")
	}
	if !strings.Contains(out, "1.5") {
		t.Error("value missing from table")
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, seriesResult(), render.FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "station,field,date,value,value_raw" {
		t.Errorf("header: %q", lines[0])
	}
	if !strings.Contains(lines[2], ".") {
		t.Error("missing value should render as \".\"")
	}
}

func TestRenderTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, seriesResult(), render.FormatTSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\t") {
		t.Error("TSV output should contain tabs")
	}
}

func TestRenderJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, seriesResult(), render.FormatJSONL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("line 2 not valid JSON: %v", err)
	}
	if rec["value"] != nil {
		t.Error("missing value should serialise as null")
	}
}

func TestRenderJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, seriesResult(), render.FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var envelope struct {
		Kind string `json:"kind"`
		Data struct {
			Points []struct {
				Value *float64 `json:"value"`
			} `json:"points"`
		} `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if envelope.Kind != model.KindSeries {
		t.Errorf("kind: %q", envelope.Kind)
	}
	if len(envelope.Data.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(envelope.Data.Points))
	}
	if envelope.Data.Points[1].Value != nil {
		t.Error("missing value should serialise as null")
	}
}

func TestRenderTableKind(t *testing.T) {
	result := &model.Result{
		Kind:        model.KindTable,
		GeneratedAt: time.Now(),
		Command:     "analyze minmax",
		Data: &model.Table{
			Headers: []string{"YEAR", "MIN", "MAX"},
			Rows:    [][]string{{"1950", "-1.2", "2.4"}},
		},
		Stats: model.ResultStats{Items: 1},
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, result, render.FormatTable); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(buf.String(), "1950") {
		t.Error("table body missing")
	}

	buf.Reset()
	if err := render.Render(&buf, result, render.FormatMD); err != nil {
		t.Fatalf("md: %v", err)
	}
	if !strings.Contains(buf.String(), "| YEAR | MIN | MAX |") {
		t.Errorf("markdown header wrong: %q", buf.String())
	}

	buf.Reset()
	if err := render.Render(&buf, result, render.FormatCSV); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "year,min,max") {
		t.Errorf("csv header wrong: %q", buf.String())
	}
}
