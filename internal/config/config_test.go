package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"openingaudit/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENINGAUDIT_DB", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "openingaudit", "openings.db")
	if cfg.Paths.Database != wantDB {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Paths.Database, wantDB)
	}
	if cfg.Tables.Results != "results" {
		t.Fatalf("unexpected results table: %q", cfg.Tables.Results)
	}
	if cfg.Analysis.LengthWindowMin != 80 || cfg.Analysis.LengthWindowMax != 110 {
		t.Fatalf("unexpected window: %+v", cfg.Analysis)
	}
	if cfg.Analysis.DiffThreshold != 10 {
		t.Fatalf("unexpected diff threshold: %v", cfg.Analysis.DiffThreshold)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.Database)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "openingaudit.toml")
	t.Setenv("OPENINGAUDIT_DB", "")

	type payload struct {
		Paths struct {
			Database string `toml:"database"`
		} `toml:"paths"`
		Tables struct {
			Results string `toml:"results"`
		} `toml:"tables"`
		Analysis struct {
			DiffThreshold float64 `toml:"diff_threshold"`
		} `toml:"analysis"`
	}
	custom := payload{}
	custom.Paths.Database = filepath.Join(tempDir, "custom.db")
	custom.Tables.Results = "report_2024"
	custom.Analysis.DiffThreshold = 15
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.Database != custom.Paths.Database {
		t.Fatalf("expected database from file, got %q", cfg.Paths.Database)
	}
	if cfg.Tables.Results != "report_2024" {
		t.Fatalf("expected results table override, got %q", cfg.Tables.Results)
	}
	if cfg.Tables.Series != "series" {
		t.Fatalf("expected default series table, got %q", cfg.Tables.Series)
	}
	if cfg.Analysis.DiffThreshold != 15 {
		t.Fatalf("expected diff threshold 15, got %v", cfg.Analysis.DiffThreshold)
	}
}

func TestEnvVarOverridesDatabasePath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	envPath := filepath.Join(tempDir, "env.db")
	t.Setenv("OPENINGAUDIT_DB", envPath)

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.Database != envPath {
		t.Fatalf("expected env database %q, got %q", envPath, cfg.Paths.Database)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad table name", func(c *config.Config) { c.Tables.Results = "results; DROP" }, "tables.results"},
		{"duplicate table", func(c *config.Config) { c.Tables.Results = c.Tables.Series }, "already used"},
		{"inverted window", func(c *config.Config) { c.Analysis.LengthWindowMax = 10 }, "length_window_max"},
		{"negative threshold", func(c *config.Config) { c.Analysis.DiffThreshold = -1 }, "diff_threshold"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "openingaudit.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nunknown_key = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("OPENINGAUDIT_DB", "")
	target := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Tables.Overrides != "overrides" {
		t.Fatalf("unexpected overrides table: %q", cfg.Tables.Overrides)
	}
}
