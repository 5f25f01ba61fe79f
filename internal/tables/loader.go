package tables

import (
	"context"
	"fmt"

	"openingaudit/internal/catalog"
	"openingaudit/internal/logging"
	"openingaudit/internal/reconcile"
)

// Load reads every row of table, projecting the named fields in order.
// Rows come back in insertion order.
func (s *Store) Load(ctx context.Context, table string, fields []string) ([][]any, error) {
	ctx = ensureContext(ctx)
	name, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}
	columns, err := quoteIdents(fields)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", columns, name)

	var out [][]any
	err = retryOnBusy(ctx, func() error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		defer rows.Close()
		for rows.Next() {
			values := make([]any, len(fields))
			targets := make([]any, len(fields))
			for i := range values {
				targets[i] = &values[i]
			}
			if err := rows.Scan(targets...); err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			out = append(out, values)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RowError locates a value that could not be decoded.
type RowError struct {
	Table string
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s row %d: %v", e.Table, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d field %s: %v", e.Table, e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ErrorKind classifies decode failures as input problems.
func (e *RowError) ErrorKind() string { return "input" }

func rowError(table string, row int, field string, err error) error {
	return &RowError{Table: table, Row: row + 1, Field: field, Err: err}
}

// LoadTitles reads the series table.
func (s *Store) LoadTitles(ctx context.Context) ([]catalog.Title, error) {
	table := s.tables.Series
	rows, err := s.Load(ctx, table, SeriesFields)
	if err != nil {
		return nil, err
	}
	titles := make([]catalog.Title, 0, len(rows))
	for i, row := range rows {
		id, err := requiredInt(row[0])
		if err != nil {
			return nil, rowError(table, i, "id", err)
		}
		titles = append(titles, catalog.Title{
			ID:     id,
			Name:   stringCell(row[1]),
			Status: catalog.ParseTitleStatus(stringCell(row[2])),
		})
	}
	return titles, nil
}

// LoadEpisodes reads the episode catalog.
func (s *Store) LoadEpisodes(ctx context.Context) ([]catalog.Episode, error) {
	table := s.tables.Episodes
	rows, err := s.Load(ctx, table, EpisodeFields)
	if err != nil {
		return nil, err
	}
	episodes := make([]catalog.Episode, 0, len(rows))
	for i, row := range rows {
		seriesID, episode, err := seriesEpisode(table, i, row)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, catalog.Episode{SeriesID: seriesID, Episode: episode})
	}
	return episodes, nil
}

// LoadErrors reads the extraction errors.
func (s *Store) LoadErrors(ctx context.Context) ([]catalog.ExtractionError, error) {
	table := s.tables.Errors
	rows, err := s.Load(ctx, table, ErrorFields)
	if err != nil {
		return nil, err
	}
	errs := make([]catalog.ExtractionError, 0, len(rows))
	for i, row := range rows {
		seriesID, episode, err := seriesEpisode(table, i, row)
		if err != nil {
			return nil, err
		}
		errs = append(errs, catalog.ExtractionError{
			SeriesID: seriesID,
			Episode:  episode,
			Code:     catalog.ErrorCode(stringCell(row[2])),
		})
	}
	return errs, nil
}

// LoadOffsets reads the detected opening intervals.
func (s *Store) LoadOffsets(ctx context.Context) ([]catalog.DetectedOffset, error) {
	table := s.tables.Offsets
	rows, err := s.Load(ctx, table, OffsetFields)
	if err != nil {
		return nil, err
	}
	offsets := make([]catalog.DetectedOffset, 0, len(rows))
	for i, row := range rows {
		seriesID, episode, err := seriesEpisode(table, i, row)
		if err != nil {
			return nil, err
		}
		begin, err := requiredFloat(row[2])
		if err != nil {
			return nil, rowError(table, i, "begin", err)
		}
		end, err := requiredFloat(row[3])
		if err != nil {
			return nil, rowError(table, i, "end", err)
		}
		offsets = append(offsets, catalog.DetectedOffset{
			SeriesID: seriesID,
			Episode:  episode,
			Begin:    begin,
			End:      end,
		})
	}
	return offsets, nil
}

// LoadOverrides reads the manual corrections.
func (s *Store) LoadOverrides(ctx context.Context) ([]catalog.Override, error) {
	table := s.tables.Overrides
	rows, err := s.Load(ctx, table, OverrideFields)
	if err != nil {
		return nil, err
	}
	overrides := make([]catalog.Override, 0, len(rows))
	for i, row := range rows {
		seriesID, err := requiredInt(row[0])
		if err != nil {
			return nil, rowError(table, i, "series_id", err)
		}
		ov := catalog.Override{SeriesID: seriesID, EpisodeStatus: stringCell(row[3])}
		if raw := stringCell(row[1]); raw != "" {
			status := catalog.TitleStatus(raw)
			ov.TitleStatus = &status
		}
		if ov.Episode, err = optionalInt(row[2]); err != nil {
			return nil, rowError(table, i, "episode", err)
		}
		if ov.Begin, err = optionalInt(row[4]); err != nil {
			return nil, rowError(table, i, "begin", err)
		}
		if ov.End, err = optionalInt(row[5]); err != nil {
			return nil, rowError(table, i, "end", err)
		}
		overrides = append(overrides, ov)
	}
	return overrides, nil
}

// LoadInput reads all five input tables into one snapshot.
func (s *Store) LoadInput(ctx context.Context) (reconcile.Input, error) {
	var in reconcile.Input
	var err error
	if in.Titles, err = s.LoadTitles(ctx); err != nil {
		return reconcile.Input{}, fmt.Errorf("load series: %w", err)
	}
	if in.Episodes, err = s.LoadEpisodes(ctx); err != nil {
		return reconcile.Input{}, fmt.Errorf("load episodes: %w", err)
	}
	if in.Errors, err = s.LoadErrors(ctx); err != nil {
		return reconcile.Input{}, fmt.Errorf("load errors: %w", err)
	}
	if in.Offsets, err = s.LoadOffsets(ctx); err != nil {
		return reconcile.Input{}, fmt.Errorf("load offsets: %w", err)
	}
	if in.Overrides, err = s.LoadOverrides(ctx); err != nil {
		return reconcile.Input{}, fmt.Errorf("load overrides: %w", err)
	}
	s.logger.Debug("input loaded",
		logging.Int("titles", len(in.Titles)),
		logging.Int("episodes", len(in.Episodes)),
		logging.Int("errors", len(in.Errors)),
		logging.Int("offsets", len(in.Offsets)),
		logging.Int("overrides", len(in.Overrides)),
	)
	return in, nil
}

// Counts returns the row count of every input table, keyed by kind.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	ctx = ensureContext(ctx)
	counts := make(map[string]int)
	for _, table := range InputTables(s.tables) {
		n, err := s.count(ctx, table.Name)
		if err != nil {
			return nil, err
		}
		counts[table.Kind] = n
	}
	return counts, nil
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	name, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}
	var n int
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+name).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func seriesEpisode(table string, i int, row []any) (int64, int, error) {
	seriesID, err := requiredInt(row[0])
	if err != nil {
		return 0, 0, rowError(table, i, "series_id", err)
	}
	episode, err := requiredInt(row[1])
	if err != nil {
		return 0, 0, rowError(table, i, "episode", err)
	}
	return seriesID, int(episode), nil
}
