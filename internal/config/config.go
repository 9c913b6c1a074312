// Package config resolves the tool's configuration from, in increasing
// precedence: built-in defaults, an optional YAML file, environment
// variables (a local .env file is honored when present), then CLI flags
// applied by the command layer.
//
// Only detection concerns live here. Endpoints, credentials and fetch
// tuning belong to the external fetcher and notifier, not to this tool.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides, e.g. PARCELWATCH_CURRENT.
const EnvPrefix = "PARCELWATCH_"

// Config is the resolved configuration of one detection run.
type Config struct {
	CurrentPath   string `yaml:"current"`
	BaselinePath  string `yaml:"baseline"`
	SummaryPath   string `yaml:"summary"`
	ReportPath    string `yaml:"report"`
	WatchlistPath string `yaml:"watchlist"`

	IDFields     []string `yaml:"id_fields"`
	IgnoreFields []string `yaml:"ignore_fields"`

	SampleSize        int  `yaml:"sample_size"`
	SendWhenNoChanges bool `yaml:"send_when_no_changes"`
	Promote           bool `yaml:"promote"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CurrentPath:   "data/parcels.geojson",
		BaselinePath:  "data/parcels_baseline.geojson",
		SummaryPath:   "data/changes_summary.json",
		WatchlistPath: "data/watched_parcels.txt",
		SampleSize:    10,
		Promote:       true,
		LogLevel:      "info",
	}
}

// Load resolves the configuration. When path is empty, defaults plus
// environment apply; when set, the YAML file must exist and parse.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	// A .env next to the working directory is a convenience for local runs;
	// absence is fine.
	_ = godotenv.Load()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr(&c.CurrentPath, "CURRENT")
	envStr(&c.BaselinePath, "BASELINE")
	envStr(&c.SummaryPath, "SUMMARY")
	envStr(&c.ReportPath, "REPORT")
	envStr(&c.WatchlistPath, "WATCHLIST")
	envStr(&c.LogLevel, "LOG_LEVEL")
	envInt(&c.SampleSize, "SAMPLE_SIZE")
	envBool(&c.SendWhenNoChanges, "SEND_WHEN_NO_CHANGES")
	envBool(&c.Promote, "PROMOTE")
	envList(&c.IDFields, "ID_FIELDS")
	envList(&c.IgnoreFields, "IGNORE_FIELDS")
}

func envStr(dst *string, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envList(dst *[]string, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		parts := make([]string, 0, 4)
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		*dst = parts
	}
}
