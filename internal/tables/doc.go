// Package tables is the tabular source and sink for openingaudit, backed by
// SQLite.
//
// The Store creates the five input tables from an embedded schema and loads
// them as positional rows in insertion order, decoded into typed catalog
// records. The results table is replaced in a single transaction; a failed
// write leaves the previous report in place. CSV imports and override files land in
// the input tables through the same Store.
//
// Table names come from configuration and are validated as plain
// identifiers before they reach SQL.
package tables
