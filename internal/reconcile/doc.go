// Package reconcile merges the per-title record collections into the opening
// report.
//
// Titles are handled one at a time in ascending id order. A title either ends
// in a single terminal row, is skipped because upstream processing has not
// finished, or proceeds to episode analysis. Episode analysis walks the full
// episode range, picks a status and interval for each episode with manual
// overrides taking precedence over automated detection, and then annotates
// every found opening with its distance from the title's median length.
//
// The package performs no I/O. Callers load an Input, call Engine.Run and
// hand the resulting Report to a writer. An integrity violation in any title,
// such as an unknown title status, aborts the whole run and no report is
// produced.
package reconcile
