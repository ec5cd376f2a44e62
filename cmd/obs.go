package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/transform"
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Inspect the stored station record",
	Long: `Observation commands read the prepared record stored by import.

With --field they emit a single-field series suitable for piping into
transform, analyze, and chart. Without --field they show full rows.`,
}

// ─── obs get ──────────────────────────────────────────────────────────────────

var obsGetField string

var obsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Emit the full stored record, or one field as a series",
	Example: `  gauge obs get
  gauge obs get --field level --format jsonl | gauge analyze summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		obs, err := storedObservations(deps)
		if err != nil {
			return err
		}

		if obsGetField == "" {
			return outputResult(deps, buildObsResult(commandLine("obs", "get"), obs, started))
		}
		field, err := model.ParseField(obsGetField)
		if err != nil {
			return err
		}
		s := model.Project(obs, field)
		return outputResult(deps, buildSeriesResult(commandLine("obs", "get"), s, started))
	},
}

// ─── obs latest ───────────────────────────────────────────────────────────────

var obsLatestLimit int

var obsLatestCmd = &cobra.Command{
	Use:     "latest",
	Short:   "Show the most recent rows of the stored record",
	Example: `  gauge obs latest --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		obs, err := storedObservations(deps)
		if err != nil {
			return err
		}

		limit := obsLatestLimit
		if limit <= 0 {
			limit = 10
		}
		if len(obs) > limit {
			obs = obs[len(obs)-limit:]
		}
		return outputResult(deps, buildObsResult(commandLine("obs", "latest"), obs, started))
	},
}

// ─── obs range ────────────────────────────────────────────────────────────────

var (
	obsRangeField       string
	obsRangeStart       string
	obsRangeEnd         string
	obsRangeAfterYear   int
	obsRangeBucket      string
	obsRangeDropMissing bool
)

var obsRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Slice the record by date, year, or interval bucket",
	Example: `  gauge obs range --start 1980-01-01 --end 1999-12-31
  gauge obs range --field level --year-after 1980 --format jsonl
  gauge obs range --bucket 1940-1980`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		opts, err := rangeFilterOptions()
		if err != nil {
			return err
		}

		obs, err := storedObservations(deps)
		if err != nil {
			return err
		}

		if obsRangeField != "" {
			field, err := model.ParseField(obsRangeField)
			if err != nil {
				return err
			}
			s := model.Project(obs, field)
			s.Points = transform.Filter(s.Points, opts)
			return outputResult(deps, buildSeriesResult(commandLine("obs", "range"), s, started))
		}

		kept := filterObservations(obs, opts)
		return outputResult(deps, buildObsResult(commandLine("obs", "range"), kept, started))
	},
}

// rangeFilterOptions parses the range flag set into transform options.
func rangeFilterOptions() (transform.FilterOptions, error) {
	var opts transform.FilterOptions
	var err error
	if opts.Start, err = parseDateFlag(obsRangeStart, "--start"); err != nil {
		return opts, err
	}
	if opts.End, err = parseDateFlag(obsRangeEnd, "--end"); err != nil {
		return opts, err
	}
	opts.AfterYear = obsRangeAfterYear
	opts.DropMissing = obsRangeDropMissing
	if obsRangeBucket != "" {
		b, err := model.ParseBucket(obsRangeBucket)
		if err != nil {
			return opts, err
		}
		opts.Bucket = b
	}
	return opts, nil
}

// filterObservations applies date, year, and bucket filters at the row level.
// DropMissing removes rows where every field is missing.
func filterObservations(obs []model.Observation, opts transform.FilterOptions) []model.Observation {
	var out []model.Observation
	for _, o := range obs {
		if !opts.Start.IsZero() && o.Date.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && o.Date.After(opts.End) {
			continue
		}
		if opts.AfterYear > 0 && o.Date.Year() <= opts.AfterYear {
			continue
		}
		if opts.Bucket != "" && o.Bucket != opts.Bucket {
			continue
		}
		if opts.DropMissing {
			allMissing := true
			for _, f := range model.Fields() {
				if !o.IsMissing(f) {
					allMissing = false
					break
				}
			}
			if allMissing {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

func init() {
	rootCmd.AddCommand(obsCmd)
	obsCmd.AddCommand(obsGetCmd)
	obsCmd.AddCommand(obsLatestCmd)
	obsCmd.AddCommand(obsRangeCmd)

	obsGetCmd.Flags().StringVar(&obsGetField, "field", "", "project a single field: level|salinity|temperature")

	obsLatestCmd.Flags().IntVar(&obsLatestLimit, "limit", 10, "number of rows to show")

	obsRangeCmd.Flags().StringVar(&obsRangeField, "field", "", "project a single field: level|salinity|temperature")
	obsRangeCmd.Flags().StringVar(&obsRangeStart, "start", "", "keep rows on or after this date (YYYY-MM-DD)")
	obsRangeCmd.Flags().StringVar(&obsRangeEnd, "end", "", "keep rows on or before this date (YYYY-MM-DD)")
	obsRangeCmd.Flags().IntVar(&obsRangeAfterYear, "year-after", 0, "keep rows strictly after this year")
	obsRangeCmd.Flags().StringVar(&obsRangeBucket, "bucket", "", "keep one interval bucket: pre-1900|1900-1940|1940-1980|1980-today")
	obsRangeCmd.Flags().BoolVar(&obsRangeDropMissing, "drop-missing", false, "drop rows with no present values")
}
