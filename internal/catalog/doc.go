// Package catalog defines the typed records openingaudit reconciles.
//
// Titles, catalog episodes, extraction errors, detected offsets and manual
// overrides arrive from independently maintained tables. This package gives
// each collection a fixed struct and owns the status vocabularies shared by
// storage, the reconciliation engine and the CLI.
package catalog
