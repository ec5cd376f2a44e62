// Package cmd implements the gauge CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/app"
	"github.com/mhoekstra/gauge/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Station string
	Format  string
	Out     string
	DB      string
	Quiet   bool
	Verbose bool
}

// rootCmd is the base command. Running `gauge` with no subcommand prints help.
var rootCmd = &cobra.Command{
	Use:   "gauge",
	Short: "gauge — water monitoring station time-series toolkit",
	Long: `gauge prepares, stores, and analyses long-running water monitoring
station records: water level, salinity, and temperature observations.

Quick start:
  gauge import waterdata.csv            # parse and store the station record
  gauge obs latest                      # peek at the most recent rows
  gauge analyze summary --field level   # per-field descriptive statistics

Commands compose over pipes using JSONL:
  gauge obs get --field level --format jsonl \
    | gauge transform lag --days 30 \
    | gauge chart plot`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load(globalFlags.Station, globalFlags.DB)
	if err != nil {
		return nil, err
	}

	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}

	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Station, "station", "",
		"station ID (overrides env GAUGE_STATION and config.json)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.DB, "db", "",
		"path to the local database file (default: ~/.gauge/gauge.db)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
}
