package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"openingaudit/internal/runlock"
	"openingaudit/internal/tables"
)

// CheckDirectoryAccess verifies path is a directory the current user can
// read, write and traverse.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckInputTables verifies the database holds series to reconcile.
func CheckInputTables(ctx context.Context, store *tables.Store) Result {
	const name = "Input tables"

	if store == nil {
		return Result{Name: name, Detail: "database unavailable"}
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("count rows: %v", err)}
	}
	detail := fmt.Sprintf("%d series, %d episodes, %d errors, %d offsets, %d overrides",
		counts[tables.KindSeries], counts[tables.KindEpisodes], counts[tables.KindErrors],
		counts[tables.KindOffsets], counts[tables.KindOverrides])
	if counts[tables.KindSeries] == 0 {
		return Result{Name: name, Detail: detail + " (import the series table first)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckRunLock reports whether a run could take the results lock right now.
// The lock is released immediately.
func CheckRunLock(stateDir, table string) Result {
	const name = "Run lock"

	lock, err := runlock.Acquire(stateDir, table, nil)
	if err != nil {
		if errors.Is(err, runlock.ErrRunInProgress) {
			return Result{Name: name, Detail: fmt.Sprintf("a run is writing %s", table)}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	path := lock.Path()
	if err := lock.Release(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("idle (%s)", path)}
}
