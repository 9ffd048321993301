package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.TopN != 0 {
		t.Errorf("expected default top_n 0 (all), got %d", cfg.Output.TopN)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default format text, got %s", cfg.Output.Format)
	}
	if cfg.Scoring.Thresholds.BreadthSaturation != 20 {
		t.Errorf("expected default breadth saturation 20, got %f", cfg.Scoring.Thresholds.BreadthSaturation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative top_n",
			modify:  func(c *Config) { c.Output.TopN = -1 },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "pdf" },
			wantErr: true,
		},
		{
			name:    "unknown style",
			modify:  func(c *Config) { c.Output.Style = "verbose" },
			wantErr: true,
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Scoring.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "zero breadth saturation",
			modify:  func(c *Config) { c.Scoring.Thresholds.BreadthSaturation = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "markdown alias",
			modify:  func(c *Config) { c.Output.Format = "md" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantool.yaml")
	content := `
data:
  file: benefits.csv
scoring:
  workers: 2
  thresholds:
    coinsurance_ceiling: 60
output:
  format: json
  top_n: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Data.File != "benefits.csv" || cfg.Output.Format != "json" || cfg.Output.TopN != 3 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Scoring.Thresholds.CoinsuranceCeiling != 60 {
		t.Errorf("expected coinsurance ceiling 60, got %f", cfg.Scoring.Thresholds.CoinsuranceCeiling)
	}
	// Unset fields keep their defaults.
	if cfg.Scoring.Thresholds.AnnualMaxSaturation != 5000 || cfg.Data.BatchSize != 10000 || cfg.Output.Style != "detailed" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/plantool.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PLANTOOL_DATA_FILE":    "plans.parquet",
		"PLANTOOL_DATABASE_URL": "postgres://localhost/plans",
		"PLANTOOL_LOG_LEVEL":    "debug",
		"PLANTOOL_TOP_N":        "10",
		"PLANTOOL_WORKERS":      "4",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Data.File != "plans.parquet" || cfg.Data.DatabaseURL != "postgres://localhost/plans" {
		t.Errorf("data overrides not applied: %+v", cfg.Data)
	}
	if cfg.Log.Level != "debug" || cfg.Output.TopN != 10 || cfg.Scoring.Workers != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	env["PLANTOOL_TOP_N"] = "ten"
	if err := DefaultConfig().ApplyEnv(lookup); err == nil {
		t.Error("expected error for non-numeric PLANTOOL_TOP_N")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
