package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhoekstra/gauge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gauge configuration",
	Long:  `Read and write gauge configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("  Edit it and set station and data_path to get started.")
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(globalFlags.Station, globalFlags.DB)
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}
		format := cfg.Format
		if globalFlags.Format != "" {
			format = globalFlags.Format
		}

		if format == "json" {
			type configOut struct {
				Station    string `json:"station"`
				DataPath   string `json:"data_path"`
				DBPath     string `json:"db_path"`
				Format     string `json:"default_format"`
				LagDays    int    `json:"lag_days"`
				SkipLines  int    `json:"skip_lines"`
				ConfigFile string `json:"config_file"`
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				Station:    cfg.Station,
				DataPath:   cfg.DataPath,
				DBPath:     cfg.DBPath,
				Format:     cfg.Format,
				LagDays:    cfg.LagDays,
				SkipLines:  cfg.SkipLines,
				ConfigFile: src,
			})
		}

		printKVTable([][]string{
			{"station", cfg.Station},
			{"data_path", cfg.DataPath},
			{"db_path", cfg.DBPath},
			{"default_format", cfg.Format},
			{"lag_days", fmt.Sprintf("%d", cfg.LagDays)},
			{"skip_lines", fmt.Sprintf("%d", cfg.SkipLines)},
			{"config_file", src},
		})
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		var f config.File
		existing, path, err := loadConfigFile()
		if err != nil {
			path = config.DefaultConfigFile
			f = config.Template()
		} else {
			f = *existing
		}

		switch key {
		case "station":
			f.Station = val
		case "data_path":
			f.DataPath = val
		case "db_path":
			f.DBPath = val
		case "default_format", "format":
			f.DefaultFormat = val
		case "lag_days":
			var n int
			if _, err := fmt.Sscanf(val, "%d", &n); err != nil || n < 1 {
				return fmt.Errorf("lag_days must be a positive integer")
			}
			f.LagDays = n
		case "skip_lines":
			var n int
			if _, err := fmt.Sscanf(val, "%d", &n); err != nil || n < 0 {
				return fmt.Errorf("skip_lines must be a non-negative integer")
			}
			f.SkipLines = &n
		default:
			return fmt.Errorf("unknown config key: %q\n\nValid keys: station, data_path, db_path, default_format, lag_days, skip_lines", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// loadConfigFile reads config.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", err
	}
	return &f, path, nil
}

// printKVTable renders a two-column key/value listing with aligned columns.
func printKVTable(rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Printf("  %s%s  %s\n", r[0], padding, r[1])
	}
}
