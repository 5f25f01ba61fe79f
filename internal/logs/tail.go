package logs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// TailOptions selects which lines Tail returns.
type TailOptions struct {
	// Limit caps the number of returned lines; zero or less returns all.
	Limit int
	// RunID keeps only lines tagged with this run identifier.
	RunID string
}

// Tail returns the last matching lines of the log at path, oldest first. A
// missing file yields no lines.
func Tail(path string, opts TailOptions) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	match := runMatcher(opts.RunID)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if opts.Limit <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); match(line) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, opts.Limit)
	count, next := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if !match(line) {
			continue
		}
		ring[next] = line
		next = (next + 1) % opts.Limit
		count = min(count+1, opts.Limit)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	start := 0
	if count == opts.Limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%opts.Limit]
	}
	return lines, nil
}

// runMatcher accepts console lines ("[1a2b3c4d] ...") and JSON lines
// ("run_id":"...") for the given run. Console headers carry only the first
// eight characters of the id.
func runMatcher(runID string) func(string) bool {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return func(string) bool { return true }
	}
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	consoleTag := "[" + short + "]"
	jsonTag := `"run_id":"` + runID
	return func(line string) bool {
		return strings.Contains(line, consoleTag) || strings.Contains(line, jsonTag)
	}
}
