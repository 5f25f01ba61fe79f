package config

import (
	"errors"
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a SQL table or
// column name without quoting tricks.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTables(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTables() error {
	tables := []struct {
		key   string
		value string
	}{
		{"tables.series", c.Tables.Series},
		{"tables.episodes", c.Tables.Episodes},
		{"tables.errors", c.Tables.Errors},
		{"tables.offsets", c.Tables.Offsets},
		{"tables.overrides", c.Tables.Overrides},
		{"tables.results", c.Tables.Results},
	}
	seen := make(map[string]string, len(tables))
	for _, table := range tables {
		if !ValidIdentifier(table.value) {
			return fmt.Errorf("%s: invalid table name %q", table.key, table.value)
		}
		if other, ok := seen[table.value]; ok {
			return fmt.Errorf("%s: table %q already used by %s", table.key, table.value, other)
		}
		seen[table.value] = table.key
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.LengthWindowMin < 0 {
		return errors.New("analysis.length_window_min must not be negative")
	}
	if c.Analysis.LengthWindowMax < c.Analysis.LengthWindowMin {
		return errors.New("analysis.length_window_max must be at least analysis.length_window_min")
	}
	if c.Analysis.DiffThreshold < 0 {
		return errors.New("analysis.diff_threshold must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
