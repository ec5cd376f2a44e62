package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mhoekstra/gauge/internal/app"
	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/pipeline"
	"github.com/mhoekstra/gauge/internal/render"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// stdinIsPiped reports whether stdin carries piped data rather than a
// terminal. Commands that accept both pipe and store input use this to pick
// their source.
func stdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// inputSeries resolves the series a pipe-aware command operates on: JSONL
// from stdin when piped, otherwise the stored station record projected onto
// fieldName. The store is only opened in the second case.
func inputSeries(deps *app.Deps, fieldName string) (model.Series, error) {
	if stdinIsPiped() {
		return pipeline.ReadSeries(os.Stdin)
	}

	if fieldName == "" {
		return model.Series{}, fmt.Errorf("no piped input: pass --field to read from the store, or pipe JSONL into stdin")
	}
	field, err := model.ParseField(fieldName)
	if err != nil {
		return model.Series{}, err
	}

	if err := deps.RequireStore(); err != nil {
		return model.Series{}, err
	}
	obs, _, ok, err := deps.Store.GetObservations(deps.Config.Station)
	if err != nil {
		return model.Series{}, err
	}
	if !ok {
		return model.Series{}, fmt.Errorf("no data for station %q (run: gauge import <file.csv>)", deps.Config.Station)
	}
	return model.Project(obs, field), nil
}

// storedObservations loads the prepared record for the configured station.
func storedObservations(deps *app.Deps) ([]model.Observation, error) {
	if err := deps.RequireStore(); err != nil {
		return nil, err
	}
	obs, _, ok, err := deps.Store.GetObservations(deps.Config.Station)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no data for station %q (run: gauge import <file.csv>)", deps.Config.Station)
	}
	return obs, nil
}

// outputResult renders a result to --out or stdout in the resolved format,
// then prints warnings and timing to stderr.
func outputResult(deps *app.Deps, result *model.Result) error {
	format := resolveFormat(deps.Config.Format)
	if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
		return err
	}
	if !deps.Config.Quiet {
		render.PrintFooter(os.Stderr, result, deps.Config.Verbose)
	}
	return nil
}

// writeSeriesOutput emits a transformed series: JSONL to stdout when the
// command is mid-pipeline, the resolved format otherwise.
func writeSeriesOutput(deps *app.Deps, command string, s model.Series, started time.Time) error {
	if globalFlags.Format == "" && globalFlags.Out == "" && !pipeline.IsTTY() {
		return pipeline.WriteJSONL(os.Stdout, s)
	}
	return outputResult(deps, buildSeriesResult(command, s, started))
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// parseDateFlag parses a --start/--end style flag value as YYYY-MM-DD.
func parseDateFlag(value, label string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", label, value)
	}
	return t, nil
}

// commandLine reconstructs the invoked command path for Result envelopes.
func commandLine(parts ...string) string {
	return strings.Join(parts, " ")
}

// buildSeriesResult wraps a Series in a Result envelope.
func buildSeriesResult(command string, s model.Series, started time.Time) *model.Result {
	return &model.Result{
		Kind:        model.KindSeries,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        &s,
		Stats: model.ResultStats{
			DurationMs: time.Since(started).Milliseconds(),
			Items:      len(s.Points),
		},
	}
}

// buildObsResult wraps an observation slice in a Result envelope.
func buildObsResult(command string, obs []model.Observation, started time.Time) *model.Result {
	return &model.Result{
		Kind:        model.KindObservations,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        obs,
		Stats: model.ResultStats{
			DurationMs: time.Since(started).Milliseconds(),
			Items:      len(obs),
		},
	}
}

// buildTableResult wraps a generic table in a Result envelope.
func buildTableResult(command string, t *model.Table, started time.Time) *model.Result {
	return &model.Result{
		Kind:        model.KindTable,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        t,
		Stats: model.ResultStats{
			DurationMs: time.Since(started).Milliseconds(),
			Items:      len(t.Rows),
		},
	}
}
