// Package logs reads back the openingaudit log file so recent runs can be
// reviewed from the CLI without opening the file by hand.
package logs
