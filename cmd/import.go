package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/ingest"
)

var importSkipLines int

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Parse a raw station export and store the prepared record",
	Long: `Import reads a raw monitoring station CSV export, skips the preamble
lines, parses the combined time/date stamp, and stores the prepared
observation sequence for later analysis.

Rows with an unparseable timestamp are dropped and counted; empty or
malformed measurement values become missing (never dropped).`,
	Example: `  gauge import waterdata.csv
  gauge import waterdata.csv --station VLISSGN --skip-lines 4
  gauge import              # uses data_path from config.json
  cat waterdata.csv | gauge import -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		path := deps.Config.DataPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no input file: pass a path or set data_path in config.json")
		}
		var in *os.File
		if path == "-" {
			in = os.Stdin
			path = "(stdin)"
		} else {
			in, err = os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer in.Close()
		}

		skip := importSkipLines
		if !cmd.Flags().Changed("skip-lines") {
			skip = deps.Config.SkipLines
		}

		prepared, err := ingest.Prepare(in, ingest.Options{
			Station:   deps.Config.Station,
			SkipLines: skip,
		})
		if err != nil {
			return fmt.Errorf("preparing %s: %w", path, err)
		}
		if len(prepared.Obs) == 0 {
			return fmt.Errorf("no usable rows in %s", path)
		}

		station := deps.Config.Station
		if err := deps.Store.PutObservations(station, path, prepared.Obs, prepared.Dropped); err != nil {
			return fmt.Errorf("storing observations: %w", err)
		}

		if !deps.Config.Quiet {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Imported %d rows for %s  (%s)\n",
				len(prepared.Obs), station, time.Since(started).Round(time.Millisecond))
			for _, w := range prepared.Warnings {
				fmt.Fprintf(out, "⚠  %s\n", w)
			}
			first := prepared.Obs[0].Date.Format("2006-01-02")
			last := prepared.Obs[len(prepared.Obs)-1].Date.Format("2006-01-02")
			fmt.Fprintf(out, "  range %s to %s\n", first, last)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntVar(&importSkipLines, "skip-lines", ingest.DefaultSkipLines,
		"number of preamble lines before the data rows")
}
