package config

const (
	defaultConfigPath      = "~/.config/openingaudit/config.toml"
	defaultDatabase        = "~/.local/share/openingaudit/openings.db"
	defaultStateDir        = "~/.local/state/openingaudit"
	defaultLogDir          = "~/.local/share/openingaudit/logs"
	defaultSeriesTable     = "series"
	defaultEpisodesTable   = "episodes"
	defaultErrorsTable     = "errors"
	defaultOffsetsTable    = "offsets"
	defaultOverridesTable  = "overrides"
	defaultResultsTable    = "results"
	defaultLengthWindowMin = 80
	defaultLengthWindowMax = 110
	defaultDiffThreshold   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabase,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tables: Tables{
			Series:    defaultSeriesTable,
			Episodes:  defaultEpisodesTable,
			Errors:    defaultErrorsTable,
			Offsets:   defaultOffsetsTable,
			Overrides: defaultOverridesTable,
			Results:   defaultResultsTable,
		},
		Analysis: Analysis{
			LengthWindowMin: defaultLengthWindowMin,
			LengthWindowMax: defaultLengthWindowMax,
			DiffThreshold:   defaultDiffThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
