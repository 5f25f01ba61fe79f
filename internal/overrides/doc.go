// Package overrides reads the user-authored overrides file.
//
// The file lists manual corrections for the reconciliation: a replacement
// title status for a series, or a pinned status and opening interval for a
// single episode. Both YAML and JSON are accepted, either as a bare list or
// wrapped in an object under the "overrides" key. A UTF-8 byte order mark is
// ignored. Entries are validated and converted to catalog.Override values
// ready to be stored in the overrides table.
package overrides
