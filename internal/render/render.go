// Package render converts Result values into human-readable or
// machine-parseable output. Each format is a separate function; the top-level
// Render dispatcher selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/pipeline"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

func renderJSONL(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindSeries:
		s, ok := result.Data.(*model.Series)
		if !ok {
			return renderJSON(w, result)
		}
		return pipeline.WriteJSONL(w, *s)
	case model.KindObservations:
		obs, ok := result.Data.([]model.Observation)
		if !ok {
			return renderJSON(w, result)
		}
		enc := json.NewEncoder(w)
		for _, o := range obs {
			rec := map[string]interface{}{
				"station": o.Station,
				"date":    o.Date.Format("2006-01-02"),
				"bucket":  string(o.Bucket),
			}
			for _, f := range model.Fields() {
				if o.IsMissing(f) {
					rec[string(f)] = nil
				} else {
					rec[string(f)] = o.Value(f)
				}
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return json.NewEncoder(w).Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindSeries:
		s, ok := result.Data.(*model.Series)
		if !ok {
			return fmt.Errorf("unexpected data type for series")
		}
		return renderSeriesTable(w, s)
	case model.KindObservations:
		obs, ok := result.Data.([]model.Observation)
		if !ok {
			return fmt.Errorf("unexpected data type for observations")
		}
		return renderObsTable(w, obs)
	case model.KindTable, model.KindReport:
		t, ok := result.Data.(*model.Table)
		if !ok {
			return fmt.Errorf("unexpected data type for table")
		}
		return renderGenericTable(w, t)
	default:
		return renderJSON(w, result)
	}
}

func renderSeriesTable(w io.Writer, s *model.Series) error {
	tw := newTableWriter(w)
	tw.SetHeader([]string{"STATION", "FIELD", "DATE", "VALUE"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, p := range s.Points {
		tw.Append([]string{
			s.Station,
			string(s.Field),
			p.Date.Format("2006-01-02"),
			FormatValue(p.Value),
		})
	}
	tw.Render()
	return nil
}

func renderObsTable(w io.Writer, obs []model.Observation) error {
	tw := newTableWriter(w)
	tw.SetHeader([]string{"DATE", "LEVEL", "SALINITY", "TEMP", "BUCKET"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	for _, o := range obs {
		tw.Append([]string{
			o.Date.Format("2006-01-02"),
			FormatValue(o.Level),
			FormatValue(o.Salinity),
			FormatValue(o.Temperature),
			string(o.Bucket),
		})
	}
	tw.Render()
	return nil
}

func renderGenericTable(w io.Writer, t *model.Table) error {
	tw := newTableWriter(w)
	tw.SetHeader(t.Headers)
	for _, row := range t.Rows {
		tw.Append(row)
	}
	tw.Render()
	return nil
}

func newTableWriter(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch result.Kind {
	case model.KindSeries:
		s, ok := result.Data.(*model.Series)
		if !ok {
			return fmt.Errorf("unexpected data type for series")
		}
		_ = cw.Write([]string{"station", "field", "date", "value", "value_raw"})
		for _, p := range s.Points {
			_ = cw.Write([]string{
				s.Station,
				string(s.Field),
				p.Date.Format("2006-01-02"),
				FormatValue(p.Value),
				p.ValueRaw,
			})
		}
	case model.KindObservations:
		obs, ok := result.Data.([]model.Observation)
		if !ok {
			return fmt.Errorf("unexpected data type for observations")
		}
		_ = cw.Write([]string{"station", "date", "level", "salinity", "temperature", "bucket"})
		for _, o := range obs {
			_ = cw.Write([]string{
				o.Station,
				o.Date.Format("2006-01-02"),
				FormatValue(o.Level),
				FormatValue(o.Salinity),
				FormatValue(o.Temperature),
				string(o.Bucket),
			})
		}
	case model.KindTable, model.KindReport:
		t, ok := result.Data.(*model.Table)
		if !ok {
			return fmt.Errorf("unexpected data type for table")
		}
		_ = cw.Write(lowerAll(t.Headers))
		for _, row := range t.Rows {
			_ = cw.Write(row)
		}
	default:
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindSeries:
		s, ok := result.Data.(*model.Series)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "| STATION | FIELD | DATE | VALUE |\n|---|---|---|---|\n")
		for _, p := range s.Points {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				s.Station, s.Field, p.Date.Format("2006-01-02"), FormatValue(p.Value))
		}
		return nil
	case model.KindTable, model.KindReport:
		t, ok := result.Data.(*model.Table)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(t.Headers, " | "))
		fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(t.Headers)))
		for _, row := range t.Rows {
			fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// FormatValue formats a measurement for display. Always shows at least one
// decimal place (4.0, not 4); trims unnecessary trailing zeros; missing
// values (NaN) render as ".".
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	s := strings.TrimRight(fmt.Sprintf("%.6f", v), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	}
	return out
}
