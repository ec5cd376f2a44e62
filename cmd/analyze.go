package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/analyze"
	"github.com/mhoekstra/gauge/internal/app"
	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/render"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Statistical views over a series (reads JSONL from stdin, or the store via --field)",
	Long: `Analysis commands reduce a series to tabular views: descriptive
statistics, per-year extremes, cross-field correlation, monthly
seasonal profiles, and classical seasonal decomposition.

Piped and store-backed input both work:
  gauge obs get --field level --format jsonl | gauge analyze summary
  gauge analyze minmax --field temperature`,
}

// ─── summary ──────────────────────────────────────────────────────────────────

var analyzeSummaryField string

var analyzeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Descriptive statistics: count, missing, mean, std, min, median, max",
	Example: `  gauge analyze summary --field level
  gauge obs range --field salinity --year-after 1980 --format jsonl | gauge analyze summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, analyzeSummaryField)
		if err != nil {
			return err
		}
		sum := analyze.Summarize(s)

		t := &model.Table{
			Headers: []string{"STATION", "FIELD", "COUNT", "MISSING", "MISSING %", "MEAN", "STD", "MIN", "MEDIAN", "MAX"},
			Rows: [][]string{{
				sum.Station,
				string(sum.Field),
				strconv.Itoa(sum.Count),
				strconv.Itoa(sum.Missing),
				fmt.Sprintf("%.1f", sum.MissingPct),
				render.FormatValue(sum.Mean),
				render.FormatValue(sum.Std),
				render.FormatValue(sum.Min),
				render.FormatValue(sum.Median),
				render.FormatValue(sum.Max),
			}},
		}
		return outputResult(deps, buildTableResult(commandLine("analyze", "summary"), t, started))
	},
}

// ─── minmax ───────────────────────────────────────────────────────────────────

var analyzeMinMaxField string

var analyzeMinMaxCmd = &cobra.Command{
	Use:   "minmax",
	Short: "Per-year minimum and maximum (years with no present values omitted)",
	Example: `  gauge analyze minmax --field level
  gauge analyze minmax --field level --format csv --out extremes.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, analyzeMinMaxField)
		if err != nil {
			return err
		}
		extremes := analyze.MinMaxByYear(s.Points)
		if len(extremes) == 0 {
			return fmt.Errorf("minmax: no present values in input")
		}

		t := &model.Table{Headers: []string{"YEAR", "MIN", "MAX", "N"}}
		for _, e := range extremes {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(e.Year),
				render.FormatValue(e.Min),
				render.FormatValue(e.Max),
				strconv.Itoa(e.N),
			})
		}
		return outputResult(deps, buildTableResult(commandLine("analyze", "minmax"), t, started))
	},
}

// ─── corr ─────────────────────────────────────────────────────────────────────

var (
	analyzeCorrX string
	analyzeCorrY string
)

var analyzeCorrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Pearson correlation of two fields aligned by date",
	Example: `  gauge analyze corr --x salinity --y temperature
  gauge analyze corr --x level --y salinity --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		corr, _, err := correlateFields(deps, analyzeCorrX, analyzeCorrY)
		if err != nil {
			return err
		}

		t := &model.Table{
			Headers: []string{"STATION", "X", "Y", "PEARSON", "PAIRS"},
			Rows: [][]string{{
				corr.Station,
				string(corr.FieldX),
				string(corr.FieldY),
				fmt.Sprintf("%.4f", corr.Pearson),
				strconv.Itoa(corr.Pairs),
			}},
		}
		return outputResult(deps, buildTableResult(commandLine("analyze", "corr"), t, started))
	},
}

// correlateFields loads both fields from the store and aligns them by date.
// Shared by analyze corr and chart scatter.
func correlateFields(deps *app.Deps, xName, yName string) (analyze.Correlation, []analyze.Pair, error) {
	fx, err := model.ParseField(xName)
	if err != nil {
		return analyze.Correlation{}, nil, fmt.Errorf("--x: %w", err)
	}
	fy, err := model.ParseField(yName)
	if err != nil {
		return analyze.Correlation{}, nil, fmt.Errorf("--y: %w", err)
	}
	obs, err := storedObservations(deps)
	if err != nil {
		return analyze.Correlation{}, nil, err
	}
	return analyze.Correlate(model.Project(obs, fx), model.Project(obs, fy))
}

// ─── seasonal ─────────────────────────────────────────────────────────────────

var analyzeSeasonalField string

var analyzeSeasonalCmd = &cobra.Command{
	Use:   "seasonal",
	Short: "Monthly means faceted by interval bucket",
	Example: `  gauge analyze seasonal --field level
  gauge analyze seasonal --field temperature --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, analyzeSeasonalField)
		if err != nil {
			return err
		}
		cells := analyze.SeasonalProfile(s.Points)
		if len(cells) == 0 {
			return fmt.Errorf("seasonal: no present values in input")
		}

		t := &model.Table{Headers: []string{"BUCKET", "MONTH", "MEAN", "N"}}
		for _, c := range cells {
			t.Rows = append(t.Rows, []string{
				string(c.Bucket),
				time.Month(c.Month).String()[:3],
				render.FormatValue(c.Mean),
				strconv.Itoa(c.N),
			})
		}
		return outputResult(deps, buildTableResult(commandLine("analyze", "seasonal"), t, started))
	},
}

// ─── decompose ────────────────────────────────────────────────────────────────

var (
	analyzeDecomposeField     string
	analyzeDecomposePeriod    int
	analyzeDecomposeComponent string
)

var analyzeDecomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "Split a series into trend, seasonal, and residual components",
	Long: `Decompose runs classical additive decomposition with a centered moving
average trend. The input should be regular frequency; resample first:

  gauge obs get --field level --format jsonl \
    | gauge transform resample --freq monthly \
    | gauge analyze decompose --period 12 --component trend`,
	Example: `  gauge analyze decompose --field level --period 12
  gauge analyze decompose --field level --period 12 --component seasonal --format jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, analyzeDecomposeField)
		if err != nil {
			return err
		}
		dec, err := analyze.Decompose(s, analyzeDecomposePeriod)
		if err != nil {
			return err
		}

		switch analyzeDecomposeComponent {
		case "trend", "seasonal", "residual":
			out := model.Series{Station: s.Station, Field: s.Field}
			switch analyzeDecomposeComponent {
			case "trend":
				out.Points = dec.Trend
			case "seasonal":
				out.Points = dec.Seasonal
			case "residual":
				out.Points = dec.Residual
			}
			return writeSeriesOutput(deps, commandLine("analyze", "decompose"), out, started)
		case "all":
			t := &model.Table{Headers: []string{"DATE", "OBSERVED", "TREND", "SEASONAL", "RESIDUAL"}}
			for i, p := range s.Points {
				t.Rows = append(t.Rows, []string{
					p.Date.Format("2006-01-02"),
					render.FormatValue(p.Value),
					render.FormatValue(dec.Trend[i].Value),
					render.FormatValue(dec.Seasonal[i].Value),
					render.FormatValue(dec.Residual[i].Value),
				})
			}
			return outputResult(deps, buildTableResult(commandLine("analyze", "decompose"), t, started))
		default:
			return fmt.Errorf("unknown component %q (use trend, seasonal, residual, all)", analyzeDecomposeComponent)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeSummaryCmd)
	analyzeCmd.AddCommand(analyzeMinMaxCmd)
	analyzeCmd.AddCommand(analyzeCorrCmd)
	analyzeCmd.AddCommand(analyzeSeasonalCmd)
	analyzeCmd.AddCommand(analyzeDecomposeCmd)

	analyzeSummaryCmd.Flags().StringVar(&analyzeSummaryField, "field", "", "read this field from the store instead of stdin")

	analyzeMinMaxCmd.Flags().StringVar(&analyzeMinMaxField, "field", "", "read this field from the store instead of stdin")

	analyzeCorrCmd.Flags().StringVar(&analyzeCorrX, "x", "salinity", "first field")
	analyzeCorrCmd.Flags().StringVar(&analyzeCorrY, "y", "temperature", "second field")

	analyzeSeasonalCmd.Flags().StringVar(&analyzeSeasonalField, "field", "", "read this field from the store instead of stdin")

	analyzeDecomposeCmd.Flags().StringVar(&analyzeDecomposeField, "field", "", "read this field from the store instead of stdin")
	analyzeDecomposeCmd.Flags().IntVar(&analyzeDecomposePeriod, "period", 12, "seasonal period in observations (12 for monthly data)")
	analyzeDecomposeCmd.Flags().StringVar(&analyzeDecomposeComponent, "component", "all", "output: trend|seasonal|residual|all")
}
