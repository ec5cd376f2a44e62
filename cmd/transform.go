package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a series (reads JSONL from stdin, or the store via --field)",
	Long: `Transform operators read a JSONL series from stdin and write JSONL to
stdout, so they chain over pipes. Without piped input, --field selects a
series from the stored station record.

Pipeline example:
  gauge obs get --field level --format jsonl \
    | gauge transform filter --year-after 1980 \
    | gauge transform lag --days 30 \
    | gauge analyze summary`,
}

// ─── lag ──────────────────────────────────────────────────────────────────────

var (
	transformLagField string
	transformLagDays  int
)

var transformLagCmd = &cobra.Command{
	Use:   "lag",
	Short: "Difference against the value N positions back: v[t] - v[t-N]",
	Example: `  gauge obs get --field level --format jsonl | gauge transform lag --days 30
  gauge transform lag --field temperature --days 365`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, transformLagField)
		if err != nil {
			return err
		}

		days := transformLagDays
		if !cmd.Flags().Changed("days") {
			days = deps.Config.LagDays
		}
		out, err := transform.Lag(s.Points, days)
		if err != nil {
			return err
		}
		s.Points = out
		return writeSeriesOutput(deps, commandLine("transform", "lag"), s, started)
	},
}

// ─── filter ───────────────────────────────────────────────────────────────────

var (
	transformFilterField       string
	transformFilterStart       string
	transformFilterEnd         string
	transformFilterAfterYear   int
	transformFilterBucket      string
	transformFilterDropMissing bool
)

var transformFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keep points by date range, year, or interval bucket",
	Example: `  gauge obs get --field salinity --format jsonl | gauge transform filter --year-after 1980
  gauge transform filter --field level --bucket 1940-1980 --drop-missing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, transformFilterField)
		if err != nil {
			return err
		}

		var opts transform.FilterOptions
		if opts.Start, err = parseDateFlag(transformFilterStart, "--start"); err != nil {
			return err
		}
		if opts.End, err = parseDateFlag(transformFilterEnd, "--end"); err != nil {
			return err
		}
		opts.AfterYear = transformFilterAfterYear
		opts.DropMissing = transformFilterDropMissing
		if transformFilterBucket != "" {
			b, err := model.ParseBucket(transformFilterBucket)
			if err != nil {
				return err
			}
			opts.Bucket = b
		}

		s.Points = transform.Filter(s.Points, opts)
		if len(s.Points) == 0 {
			return fmt.Errorf("filter kept no points")
		}
		return writeSeriesOutput(deps, commandLine("transform", "filter"), s, started)
	},
}

// ─── resample ─────────────────────────────────────────────────────────────────

var (
	transformResampleField  string
	transformResampleFreq   string
	transformResampleMethod string
)

var transformResampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Aggregate to monthly or annual frequency",
	Example: `  gauge obs get --field level --format jsonl | gauge transform resample --freq annual
  gauge transform resample --field temperature --freq monthly --method max`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, transformResampleField)
		if err != nil {
			return err
		}

		out, err := transform.Resample(s.Points,
			transform.ResampleFreq(transformResampleFreq),
			transform.ResampleMethod(transformResampleMethod))
		if err != nil {
			return err
		}
		s.Points = out
		return writeSeriesOutput(deps, commandLine("transform", "resample"), s, started)
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.AddCommand(transformLagCmd)
	transformCmd.AddCommand(transformFilterCmd)
	transformCmd.AddCommand(transformResampleCmd)

	transformLagCmd.Flags().StringVar(&transformLagField, "field", "", "read this field from the store instead of stdin")
	transformLagCmd.Flags().IntVar(&transformLagDays, "days", transform.DefaultLagDays, "lag distance in positions")

	transformFilterCmd.Flags().StringVar(&transformFilterField, "field", "", "read this field from the store instead of stdin")
	transformFilterCmd.Flags().StringVar(&transformFilterStart, "start", "", "keep points on or after this date (YYYY-MM-DD)")
	transformFilterCmd.Flags().StringVar(&transformFilterEnd, "end", "", "keep points on or before this date (YYYY-MM-DD)")
	transformFilterCmd.Flags().IntVar(&transformFilterAfterYear, "year-after", 0, "keep points strictly after this year")
	transformFilterCmd.Flags().StringVar(&transformFilterBucket, "bucket", "", "keep one interval bucket")
	transformFilterCmd.Flags().BoolVar(&transformFilterDropMissing, "drop-missing", false, "drop missing points")

	transformResampleCmd.Flags().StringVar(&transformResampleField, "field", "", "read this field from the store instead of stdin")
	transformResampleCmd.Flags().StringVar(&transformResampleFreq, "freq", "monthly", "target frequency: monthly|annual")
	transformResampleCmd.Flags().StringVar(&transformResampleMethod, "method", "mean", "aggregation: mean|min|max|last")
}
