package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and maintain the local database",
}

// ─── store list ───────────────────────────────────────────────────────────────

var storeListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored station records with import provenance",
	Example: `  gauge store list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		metas, err := deps.Store.ListStations()
		if err != nil {
			return fmt.Errorf("listing stations: %w", err)
		}
		if len(metas) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No station records stored.")
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: gauge import <file.csv>")
			return nil
		}

		printSimpleTable(cmd.OutOrStdout(), []string{"STATION", "ROWS", "DROPPED", "SOURCE", "IMPORTED"}, func(add func(...string)) {
			for _, m := range metas {
				add(m.Station,
					strconv.Itoa(m.Rows),
					strconv.Itoa(m.Dropped),
					m.SourceFile,
					m.ImportedAt.Format("2006-01-02 15:04"))
			}
		})
		return nil
	},
}

// ─── store stats ──────────────────────────────────────────────────────────────

var storeStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show entry counts and sizes per database bucket",
	Example: `  gauge store stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		stats, err := deps.Store.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n\n", deps.Store.Path())
		printSimpleTable(cmd.OutOrStdout(), []string{"BUCKET", "ENTRIES", "SIZE"}, func(add func(...string)) {
			for _, s := range stats {
				add(s.Name, strconv.Itoa(s.Count), humanBytes(s.Bytes))
			}
		})
		return nil
	},
}

// ─── store clear ──────────────────────────────────────────────────────────────

var (
	storeClearBucket string
	storeClearAll    bool
	storeClearYes    bool
)

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored data from one bucket or all of them",
	Example: `  gauge store clear --bucket snapshots --yes
  gauge store clear --all --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !storeClearAll && storeClearBucket == "" {
			return fmt.Errorf("pass --bucket <name> or --all")
		}
		if !storeClearYes {
			return fmt.Errorf("refusing to delete without --yes")
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		if storeClearAll {
			if err := deps.Store.ClearAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all buckets")
			return nil
		}

		valid := false
		for _, name := range store.AllBuckets {
			if name == storeClearBucket {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown bucket %q (use one of: %v)", storeClearBucket, store.AllBuckets)
		}
		if err := deps.Store.ClearBucket(storeClearBucket); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared bucket %s\n", storeClearBucket)
		return nil
	},
}

// humanBytes formats a byte count with a binary unit suffix.
func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeClearCmd)

	storeClearCmd.Flags().StringVar(&storeClearBucket, "bucket", "", "bucket to clear: obs|snapshots")
	storeClearCmd.Flags().BoolVar(&storeClearAll, "all", false, "clear every bucket")
	storeClearCmd.Flags().BoolVar(&storeClearYes, "yes", false, "confirm deletion")
}
