package reconcile

import (
	"cmp"
	"log/slog"
	"slices"

	"openingaudit/internal/catalog"
	"openingaudit/internal/logging"
)

const (
	defaultWindowMin     = 80
	defaultWindowMax     = 110
	defaultDiffThreshold = 10
)

// Options tunes the length window and the median deviation test. Values are
// in seconds.
type Options struct {
	WindowMin     float64
	WindowMax     float64
	DiffThreshold float64
}

// DefaultOptions returns the expected TV opening band (80-110s) and a 10s
// deviation threshold.
func DefaultOptions() Options {
	return Options{
		WindowMin:     defaultWindowMin,
		WindowMax:     defaultWindowMax,
		DiffThreshold: defaultDiffThreshold,
	}
}

// Input is one point-in-time snapshot of every input collection.
type Input struct {
	Titles    []catalog.Title
	Episodes  []catalog.Episode
	Errors    []catalog.ExtractionError
	Offsets   []catalog.DetectedOffset
	Overrides []catalog.Override
}

// Engine runs the reconciliation over an Input.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine constructs an engine. A nil logger discards output.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Run reconciles every title and returns the complete report. Any integrity
// violation aborts the run and no report is returned.
func (e *Engine) Run(in Input) (*Report, error) {
	titles := slices.Clone(in.Titles)
	slices.SortStableFunc(titles, func(a, b catalog.Title) int { return cmp.Compare(a.ID, b.ID) })
	for i := 1; i < len(titles); i++ {
		if titles[i].ID == titles[i-1].ID {
			return nil, integrityError(ErrDuplicateTitle, titles[i].ID, nil, "%q and %q share an id", titles[i-1].Name, titles[i].Name)
		}
	}

	grouped := groupBySeries(in)

	report := &Report{Header: Header()}
	for _, title := range titles {
		rows, err := e.processTitle(title, grouped[title.ID])
		if err != nil {
			logging.ErrorWithContext(e.logger, "title reconciliation failed", "title_integrity_error",
				logging.Int64(logging.FieldTitleID, title.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the input tables and rerun"),
			)
			return nil, err
		}
		report.Rows = append(report.Rows, rows...)
	}

	e.logger.Info("reconciliation complete",
		logging.Int("titles", len(titles)),
		logging.Int("rows", len(report.Rows)),
		logging.Int("anomalies", len(report.Anomalies())),
	)
	return report, nil
}

func (e *Engine) processTitle(title catalog.Title, records TitleRecords) ([]Row, error) {
	resolution, err := ResolveTitle(title, records.Overrides)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With(logging.Int64(logging.FieldTitleID, title.ID))

	if resolution.Terminal != nil {
		logger.Debug("title ended in terminal row",
			logging.String("title_status", string(resolution.Status)),
			logging.String("report_status", resolution.Terminal.Status),
		)
		return []Row{*resolution.Terminal}, nil
	}
	if resolution.Skipped() {
		logger.Debug("title skipped", logging.String("title_status", string(resolution.Status)))
		return nil, nil
	}

	rows, err := ReconcileEpisodes(title, records, e.opts)
	if err != nil {
		return nil, err
	}
	rows = Annotate(title, rows, e.opts)

	for _, row := range rows {
		if row.IsAnomaly() && row.Episode != nil {
			logging.WarnWithContext(logger, "opening length deviates from title median", "opening_length_anomaly",
				logging.String(logging.FieldEpisodeKey, catalog.EpisodeKey(title.ID, *row.Episode)),
				logging.Float64("length", *row.Length),
				logging.Float64("median_length", *row.MedianLength),
				logging.String(logging.FieldErrorHint, "review the detected interval or add an override"),
				logging.String(logging.FieldImpact, "episode flagged in report"),
			)
		}
	}
	logger.Debug("title analyzed", logging.Int("rows", len(rows)))
	return rows, nil
}

func groupBySeries(in Input) map[int64]TitleRecords {
	grouped := make(map[int64]TitleRecords)
	for _, ep := range in.Episodes {
		rec := grouped[ep.SeriesID]
		rec.Episodes = append(rec.Episodes, ep)
		grouped[ep.SeriesID] = rec
	}
	for _, e := range in.Errors {
		rec := grouped[e.SeriesID]
		rec.Errors = append(rec.Errors, e)
		grouped[e.SeriesID] = rec
	}
	for _, o := range in.Offsets {
		rec := grouped[o.SeriesID]
		rec.Offsets = append(rec.Offsets, o)
		grouped[o.SeriesID] = rec
	}
	for _, o := range in.Overrides {
		rec := grouped[o.SeriesID]
		rec.Overrides = append(rec.Overrides, o)
		grouped[o.SeriesID] = rec
	}
	return grouped
}
