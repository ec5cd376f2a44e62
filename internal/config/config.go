// Package config handles loading and resolving gauge configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags (--station, --db, ...)
//  2. Environment variables (GAUGE_STATION, GAUGE_DB_PATH, GAUGE_DATA)
//  3. config.json in the current working directory
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	DefaultStation    = "VLISSGN"
	DefaultLagDays    = 30
	DefaultSkipLines  = 4
	EnvStation        = "GAUGE_STATION"
	EnvDBPath         = "GAUGE_DB_PATH"
	EnvDataPath       = "GAUGE_DATA"
)

// File is the on-disk representation of config.json.
type File struct {
	Station       string `json:"station"`
	DataPath      string `json:"data_path"`
	DBPath        string `json:"db_path"`
	DefaultFormat string `json:"default_format"`
	LagDays       int    `json:"lag_days"`
	SkipLines     *int   `json:"skip_lines,omitempty"`
}

// Config is the fully-resolved runtime configuration. All callers use this
// struct; File is only read during loading.
type Config struct {
	Station    string
	DataPath   string
	DBPath     string
	Format     string
	LagDays    int
	SkipLines  int
	ConfigPath string // path of the config.json that was loaded (empty if none)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
}

// Load resolves configuration from all sources. flagStation and flagDB are
// the values of --station and --db (empty if not set).
func Load(flagStation, flagDB string) (*Config, error) {
	cfg := &Config{
		Station:   DefaultStation,
		Format:    DefaultFormat,
		LagDays:   DefaultLagDays,
		SkipLines: DefaultSkipLines,
	}

	// Layer 1: config.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvStation); v != "" {
		cfg.Station = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvDataPath); v != "" {
		cfg.DataPath = v
	}

	// Layer 3: CLI flags (highest priority)
	if flagStation != "" {
		cfg.Station = flagStation
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	// Default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".gauge", "gauge.db")
		}
	}

	return cfg, nil
}

// loadFile attempts to read config.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s", path)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg, skipping zero/empty
// fields.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.Station != "" {
		cfg.Station = f.Station
	}
	if f.DataPath != "" {
		cfg.DataPath = f.DataPath
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.LagDays > 0 {
		cfg.LagDays = f.LagDays
	}
	if f.SkipLines != nil && *f.SkipLines >= 0 {
		cfg.SkipLines = *f.SkipLines
	}
}

// Template returns a File populated with defaults, suitable for writing an
// initial config.json via `gauge config init`.
func Template() File {
	return File{
		Station:       DefaultStation,
		DataPath:      "waterdata.csv",
		DefaultFormat: DefaultFormat,
		LagDays:       DefaultLagDays,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
