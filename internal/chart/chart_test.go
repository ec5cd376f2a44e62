package chart_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/analyze"
	"github.com/mhoekstra/gauge/internal/chart"
	"github.com/mhoekstra/gauge/internal/model"
)

func makeSeries(values ...float64) model.Series {
	t0 := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.Series{Station: "VLISSGN", Field: model.FieldLevel}
	for i, v := range values {
		s.Points = append(s.Points, model.Point{Date: t0.AddDate(0, 0, i), Value: v})
	}
	return s
}

func TestPlotRenders(t *testing.T) {
	s := makeSeries(1, 2, 3, 2, 1, 0, -1, 0, 1, 2)
	var sb strings.Builder
	err := chart.Plot(&sb, s, chart.PlotOptions{Width: 60, Height: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "VLISSGN level") {
		t.Error("title missing from output")
	}
	if !strings.Contains(out, "1980-01") {
		t.Error("date ruler missing from output")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header + 8 body rows + axis + ruler
	if len(lines) != 11 {
		t.Errorf("expected 11 lines, got %d", len(lines))
	}
}

func TestPlotHandlesGaps(t *testing.T) {
	s := makeSeries(1, math.NaN(), math.NaN(), 2, 3)
	var sb strings.Builder
	if err := chart.Plot(&sb, s, chart.PlotOptions{Width: 40, Height: 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlotNeedsTwoValues(t *testing.T) {
	s := makeSeries(1, math.NaN())
	var sb strings.Builder
	if err := chart.Plot(&sb, s, chart.PlotOptions{}); err == nil {
		t.Error("expected error for fewer than 2 present values")
	}
}

func TestBarRenders(t *testing.T) {
	s := makeSeries(1, 2, 3)
	var sb strings.Builder
	if err := chart.Bar(&sb, s, chart.BarOptions{Width: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sb.String(), "█") {
		t.Error("bars missing from output")
	}
}

func TestBarNegativeValues(t *testing.T) {
	s := makeSeries(-2, 1, 3)
	var sb strings.Builder
	if err := chart.Bar(&sb, s, chart.BarOptions{Width: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sb.String(), "│") {
		t.Error("zero baseline missing for signed data")
	}
}

func TestBarAllMissing(t *testing.T) {
	s := makeSeries(math.NaN(), math.NaN())
	var sb strings.Builder
	if err := chart.Bar(&sb, s, chart.BarOptions{}); err == nil {
		t.Error("expected error for all-missing input")
	}
}

func TestBarMaxBars(t *testing.T) {
	s := makeSeries(1, 2, 3, 4, 5)
	var sb strings.Builder
	if err := chart.Bar(&sb, s, chart.BarOptions{Width: 50, MaxBars: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	// header + 2 bars
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestScatterRenders(t *testing.T) {
	corr := analyze.Correlation{
		Station: "VLISSGN",
		FieldX:  model.FieldSalinity,
		FieldY:  model.FieldTemperature,
		Pearson: 0.5,
		Pairs:   4,
	}
	pairs := []analyze.Pair{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 1}}
	var sb strings.Builder
	if err := chart.Scatter(&sb, corr, pairs, chart.ScatterOptions{Width: 20, Height: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "r=0.500") {
		t.Error("correlation missing from header")
	}
}

func TestScatterNeedsPairs(t *testing.T) {
	var sb strings.Builder
	err := chart.Scatter(&sb, analyze.Correlation{}, []analyze.Pair{{X: 1, Y: 1}}, chart.ScatterOptions{})
	if err == nil {
		t.Error("expected error for a single pair")
	}
}
