package runlock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"openingaudit/internal/logging"
)

// ErrRunInProgress indicates another run holds the lock for the same table.
var ErrRunInProgress = errors.New("another run is writing this results table")

type fileLock interface {
	Locked() bool
	Unlock() error
}

// Lock is a held run lock.
type Lock struct {
	path   string
	lock   fileLock
	logger *slog.Logger
}

// Path returns the lock file location for table under stateDir.
func Path(stateDir, table string) string {
	return filepath.Join(stateDir, strings.TrimSpace(table)+".lock")
}

// Acquire takes the lock for table without blocking.
func Acquire(stateDir, table string, logger *slog.Logger) (*Lock, error) {
	if strings.TrimSpace(stateDir) == "" {
		return nil, errors.New("state directory is required")
	}
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("results table is required")
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := Path(stateDir, table)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, path)
	}

	l := &Lock{
		path:   path,
		lock:   fl,
		logger: logging.NewComponentLogger(logger, "runlock"),
	}
	l.logger.Debug("run lock acquired", logging.String("lock", path))
	return l, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release gives up the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil || !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(l.logger, "failed to release run lock", "run_lock_release_failed",
			logging.String("lock", l.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the lock file stays held until this process exits"),
			logging.String(logging.FieldErrorHint, "remove the lock file if no run is active"),
		)
		return fmt.Errorf("release lock: %w", err)
	}
	l.logger.Debug("run lock released", logging.String("lock", l.path))
	return nil
}
