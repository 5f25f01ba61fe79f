// Package logging assembles structured slog loggers and formatting helpers used
// across openingaudit.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers that tag every line of a reconciliation run with its
// run id. A no-op logger is provided for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same field names.
package logging
