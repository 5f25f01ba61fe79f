// Package main hosts the openingaudit CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, opens the SQLite store and
// drives one reconciliation run at a time: importing detector output and
// manual overrides, rebuilding the results table, and rendering stored
// results for review. Domain logic lives in the internal packages; commands
// here only wire them together and format output.
package main
