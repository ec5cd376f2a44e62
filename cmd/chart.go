package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/chart"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a series as a terminal chart or PNG image",
	Long: `Chart commands draw a series in the terminal or export it to a PNG.
Like the other pipe-aware commands, they take JSONL on stdin or read
the store via --field.

  gauge obs get --field level --format jsonl \
    | gauge transform resample --freq annual | gauge chart bar`,
}

// ─── plot ─────────────────────────────────────────────────────────────────────

var (
	chartPlotField  string
	chartPlotWidth  int
	chartPlotHeight int
	chartPlotTitle  string
)

var chartPlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "ASCII line chart with labeled axes (missing values leave gaps)",
	Example: `  gauge chart plot --field level
  gauge obs range --field level --year-after 1980 --format jsonl | gauge chart plot --height 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, chartPlotField)
		if err != nil {
			return err
		}
		return chart.Plot(cmd.OutOrStdout(), s, chart.PlotOptions{
			Width:  chartPlotWidth,
			Height: chartPlotHeight,
			Title:  chartPlotTitle,
		})
	},
}

// ─── bar ──────────────────────────────────────────────────────────────────────

var (
	chartBarField   string
	chartBarWidth   int
	chartBarMaxBars int
)

var chartBarCmd = &cobra.Command{
	Use:   "bar",
	Short: "Horizontal bar chart, one bar per point (best after resample)",
	Example: `  gauge obs get --field level --format jsonl | gauge transform resample --freq annual | gauge chart bar
  gauge chart bar --field temperature --max-bars 40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, chartBarField)
		if err != nil {
			return err
		}
		return chart.Bar(cmd.OutOrStdout(), s, chart.BarOptions{
			Width:   chartBarWidth,
			MaxBars: chartBarMaxBars,
		})
	},
}

// ─── scatter ──────────────────────────────────────────────────────────────────

var (
	chartScatterX      string
	chartScatterY      string
	chartScatterWidth  int
	chartScatterHeight int
)

var chartScatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Density scatter of two fields aligned by date",
	Example: `  gauge chart scatter --x salinity --y temperature
  gauge chart scatter --x level --y salinity --width 80 --height 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		corr, pairs, err := correlateFields(deps, chartScatterX, chartScatterY)
		if err != nil {
			return err
		}
		return chart.Scatter(cmd.OutOrStdout(), corr, pairs, chart.ScatterOptions{
			Width:  chartScatterWidth,
			Height: chartScatterHeight,
		})
	},
}

// ─── png ──────────────────────────────────────────────────────────────────────

var (
	chartPNGField  string
	chartPNGWidth  int
	chartPNGHeight int
	chartPNGTitle  string
)

var chartPNGCmd = &cobra.Command{
	Use:   "png <output.png>",
	Short: "Export a series as a PNG line chart",
	Example: `  gauge chart png level.png --field level
  gauge obs range --field level --year-after 1980 --format jsonl | gauge chart png recent.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		s, err := inputSeries(deps, chartPNGField)
		if err != nil {
			return err
		}
		path := args[0]
		if err := chart.WritePNG(path, s, chart.PNGOptions{
			Width:  chartPNGWidth,
			Height: chartPNGHeight,
			Title:  chartPNGTitle,
		}); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartPlotCmd)
	chartCmd.AddCommand(chartBarCmd)
	chartCmd.AddCommand(chartScatterCmd)
	chartCmd.AddCommand(chartPNGCmd)

	chartPlotCmd.Flags().StringVar(&chartPlotField, "field", "", "read this field from the store instead of stdin")
	chartPlotCmd.Flags().IntVar(&chartPlotWidth, "width", 0, "chart width in characters (default: $COLUMNS)")
	chartPlotCmd.Flags().IntVar(&chartPlotHeight, "height", 0, "chart height in rows (default: 14)")
	chartPlotCmd.Flags().StringVar(&chartPlotTitle, "title", "", "chart title")

	chartBarCmd.Flags().StringVar(&chartBarField, "field", "", "read this field from the store instead of stdin")
	chartBarCmd.Flags().IntVar(&chartBarWidth, "width", 0, "chart width in characters (default: $COLUMNS)")
	chartBarCmd.Flags().IntVar(&chartBarMaxBars, "max-bars", 0, "keep only the last N bars")

	chartScatterCmd.Flags().StringVar(&chartScatterX, "x", "salinity", "field on the X axis")
	chartScatterCmd.Flags().StringVar(&chartScatterY, "y", "temperature", "field on the Y axis")
	chartScatterCmd.Flags().IntVar(&chartScatterWidth, "width", 0, "grid columns (default: 60)")
	chartScatterCmd.Flags().IntVar(&chartScatterHeight, "height", 0, "grid rows (default: 20)")

	chartPNGCmd.Flags().StringVar(&chartPNGField, "field", "", "read this field from the store instead of stdin")
	chartPNGCmd.Flags().IntVar(&chartPNGWidth, "width", 0, "image width in pixels (default: 1000)")
	chartPNGCmd.Flags().IntVar(&chartPNGHeight, "height", 0, "image height in pixels (default: 400)")
	chartPNGCmd.Flags().StringVar(&chartPNGTitle, "title", "", "chart title")
}
