package preflight

import (
	"context"

	"openingaudit/internal/config"
	"openingaudit/internal/tables"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every readiness check for the given config. store may be
// nil when the database could not be opened; the database check then fails.
func RunAll(ctx context.Context, cfg *config.Config, store *tables.Store) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckInputTables(ctx, store),
		CheckRunLock(cfg.Paths.StateDir, cfg.Tables.Results),
	}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
