// Package runlock keeps two reconciliation runs from writing the same results
// table at once. The lock is an advisory file lock under the state directory,
// one file per destination table.
package runlock
