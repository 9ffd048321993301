// Package config provides configuration loading for plantool.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"plantool/measure"
	"plantool/reasoning"
	"plantool/recommend"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PLANTOOL_"

// Config represents the complete plantool configuration
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Scoring ScoringConfig `yaml:"scoring"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// DataConfig says where benefit records come from
type DataConfig struct {
	// File is a CSV, CSV.gz, JSON or Parquet benefits file.
	File string `yaml:"file"`
	// DatabaseURL, when set and File is empty, loads records from PostgreSQL.
	DatabaseURL string `yaml:"database_url"`
	// BatchSize is the number of rows per import transaction.
	BatchSize int `yaml:"batch_size"`
}

type ScoringConfig struct {
	Thresholds measure.Thresholds `yaml:"thresholds"`
	// Workers bounds per-plan concurrency (0 = GOMAXPROCS).
	Workers int `yaml:"workers"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Style  string `yaml:"style"`
	// TopN limits the number of recommendations (0 = all).
	TopN int `yaml:"top_n"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			BatchSize: 10000,
		},
		Scoring: ScoringConfig{
			Thresholds: measure.DefaultThresholds(),
		},
		Output: OutputConfig{
			Format: string(recommend.FormatText),
			Style:  string(reasoning.Detailed),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.Scoring.Thresholds.Validate(); err != nil {
		return fmt.Errorf("scoring.thresholds: %w", err)
	}
	if c.Scoring.Workers < 0 {
		return fmt.Errorf("scoring.workers must not be negative")
	}
	if c.Data.BatchSize < 1 {
		return fmt.Errorf("data.batch_size must be at least 1")
	}
	if c.Output.TopN < 0 {
		return fmt.Errorf("output.top_n must not be negative")
	}
	if _, err := recommend.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := reasoning.ParseStyle(c.Output.Style); err != nil {
		return fmt.Errorf("output.style: %w", err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from PLANTOOL_* variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "DATA_FILE"); ok && v != "" {
		c.Data.File = v
	}
	if v, ok := lookup(EnvPrefix + "DATABASE_URL"); ok && v != "" {
		c.Data.DatabaseURL = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "TOP_N"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sTOP_N: %w", EnvPrefix, err)
		}
		c.Output.TopN = n
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Scoring.Workers = n
	}
	return nil
}

// Load reads path when non-empty, applies the environment and validates.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
