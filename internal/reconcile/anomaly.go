package reconcile

import (
	"math"
	"slices"

	"openingaudit/internal/catalog"
)

// Median returns the median of values. ok is false for an empty input.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	half := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[half], true
	}
	return (sorted[half-1] + sorted[half]) / 2, true
}

// Annotate finalizes a title's episode rows. When every episode is too short
// the rows collapse into one terminal row; otherwise each found row receives
// the title median, its absolute deviation and the large-deviation flag.
// The input slice is not modified.
func Annotate(title catalog.Title, rows []Row, opts Options) []Row {
	if allTooShort(rows) {
		return []Row{terminalRow(title, catalog.TerminalAllTooShort)}
	}

	out := slices.Clone(rows)
	lengths := make([]float64, 0, len(out))
	for _, row := range out {
		if row.IsFound() && row.Length != nil {
			lengths = append(lengths, *row.Length)
		}
	}
	median, ok := Median(lengths)
	if !ok {
		return out
	}

	for i := range out {
		row := &out[i]
		if !row.IsFound() || row.Length == nil {
			continue
		}
		diff := math.Abs(median - *row.Length)
		row.MedianLength = ptr(median)
		row.DiffFromMedian = ptr(diff)
		row.IsDiffLarge = ptr(diff > opts.DiffThreshold)
	}
	return out
}

func allTooShort(rows []Row) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if row.Status != catalog.EpisodeTooShort {
			return false
		}
	}
	return true
}
