package reconcile

import (
	"openingaudit/internal/catalog"
)

// Row is one report line: a terminal title row or an analyzed episode.
// Nil fields are empty cells.
type Row struct {
	TitleID          int64
	TitleName        string
	Episode          *int
	Status           string
	OpBegin          *float64
	OpEnd            *float64
	InMins           string
	Found            *bool
	Length           *float64
	IsLengthInWindow *bool
	MedianLength     *float64
	DiffFromMedian   *float64
	IsDiffLarge      *bool
}

var header = []string{
	"title_id", "title_name", "episode", "status", "op_begin_secs", "op_end_secs",
	"in_mins", "found", "length", "is_length_in_window",
	"median_length", "diff_from_median", "is_diff_large",
}

// Header returns the fixed report column names.
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// IsFound reports whether the row carries a resolved opening.
func (r Row) IsFound() bool {
	return r.Found != nil && *r.Found
}

// IsAnomaly reports whether the row's opening length deviates from the
// title median by more than the configured threshold.
func (r Row) IsAnomaly() bool {
	return r.IsDiffLarge != nil && *r.IsDiffLarge
}

// Values renders the row in header order. Unset cells are nil.
func (r Row) Values() []any {
	values := make([]any, 0, len(header))
	values = append(values,
		r.TitleID,
		r.TitleName,
		intCell(r.Episode),
		r.Status,
		floatCell(r.OpBegin),
		floatCell(r.OpEnd),
		stringCell(r.InMins),
		boolCell(r.Found),
		floatCell(r.Length),
		boolCell(r.IsLengthInWindow),
		floatCell(r.MedianLength),
		floatCell(r.DiffFromMedian),
		boolCell(r.IsDiffLarge),
	)
	return values
}

// Report is the ordered output of a run.
type Report struct {
	Header []string
	Rows   []Row
}

// Values renders all rows in header order.
func (r *Report) Values() [][]any {
	if r == nil {
		return nil
	}
	out := make([][]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row.Values())
	}
	return out
}

// StatusCounts tallies rows per status.
func (r *Report) StatusCounts() map[string]int {
	counts := make(map[string]int)
	if r == nil {
		return counts
	}
	for _, row := range r.Rows {
		counts[row.Status]++
	}
	return counts
}

// Anomalies returns the rows flagged by the median deviation test.
func (r *Report) Anomalies() []Row {
	if r == nil {
		return nil
	}
	var out []Row
	for _, row := range r.Rows {
		if row.IsAnomaly() {
			out = append(out, row)
		}
	}
	return out
}

func terminalRow(title catalog.Title, status string) Row {
	return Row{TitleID: title.ID, TitleName: title.Name, Status: status}
}

func intCell(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolCell(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringCell(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func ptr[T any](v T) *T { return &v }
