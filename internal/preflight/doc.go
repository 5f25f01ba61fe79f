// Package preflight provides readiness checks for the paths and storage a
// reconciliation run depends on.
//
// The CLI "openingaudit status" command runs them to show whether the state
// and log directories are writable, the database opens with the expected
// schema and holds input, and no other run currently holds the results lock.
package preflight
