package tables

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"openingaudit/internal/logging"
	"openingaudit/internal/reconcile"
)

// Replace swaps the contents of table for rows in a single transaction. The
// table is dropped and recreated with header as its columns, so rows from a
// previous, larger report never survive. A failed write leaves the previous
// contents in place.
func (s *Store) Replace(ctx context.Context, table string, header []string, rows [][]any) error {
	ctx = ensureContext(ctx)
	if len(header) == 0 {
		return errors.New("replace table: header is required")
	}
	name, err := quoteIdent(table)
	if err != nil {
		return err
	}
	columns, err := quoteIdents(header)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("replace %s: row %d has %d values, header has %d", table, i+1, len(row), len(header))
		}
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, columns)); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, columns, placeholders(len(header))))
		if err != nil {
			return fmt.Errorf("prepare insert %s: %w", table, err)
		}
		defer stmt.Close()
		for i, row := range rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", table, i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("table replaced", logging.String(logging.FieldTable, table), logging.Int("rows", len(rows)))
	return nil
}

// WriteReport replaces the configured results table with report.
func (s *Store) WriteReport(ctx context.Context, report *reconcile.Report) error {
	if report == nil {
		return errors.New("write report: report is required")
	}
	if err := s.Replace(ctx, s.tables.Results, report.Header, report.Values()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ErrNoResults indicates the results table has not been written yet.
var ErrNoResults = errors.New("no results stored; run the reconciliation first")

// ReadResults loads the stored report rows in their written order.
func (s *Store) ReadResults(ctx context.Context) ([]reconcile.Row, error) {
	ctx = ensureContext(ctx)
	table := s.tables.Results
	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoResults
	}
	cells, err := s.Load(ctx, table, reconcile.Header())
	if err != nil {
		return nil, err
	}
	rows := make([]reconcile.Row, 0, len(cells))
	for i, cell := range cells {
		row, err := decodeResult(cell)
		if err != nil {
			return nil, rowError(table, i, "", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	})
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return n > 0, nil
}

// decodeResult maps a stored row back onto the report columns, in header order.
func decodeResult(cell []any) (reconcile.Row, error) {
	id, err := requiredInt(cell[0])
	if err != nil {
		return reconcile.Row{}, fmt.Errorf("title_id: %w", err)
	}
	row := reconcile.Row{
		TitleID:   id,
		TitleName: stringCell(cell[1]),
		Status:    stringCell(cell[3]),
		InMins:    stringCell(cell[6]),
	}
	if row.Episode, err = optionalInt(cell[2]); err != nil {
		return reconcile.Row{}, fmt.Errorf("episode: %w", err)
	}
	floats := []struct {
		name   string
		index  int
		target **float64
	}{
		{"op_begin_secs", 4, &row.OpBegin},
		{"op_end_secs", 5, &row.OpEnd},
		{"length", 8, &row.Length},
		{"median_length", 10, &row.MedianLength},
		{"diff_from_median", 11, &row.DiffFromMedian},
	}
	for _, f := range floats {
		if *f.target, err = optionalFloat(cell[f.index]); err != nil {
			return reconcile.Row{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	bools := []struct {
		name   string
		index  int
		target **bool
	}{
		{"found", 7, &row.Found},
		{"is_length_in_window", 9, &row.IsLengthInWindow},
		{"is_diff_large", 12, &row.IsDiffLarge},
	}
	for _, b := range bools {
		if *b.target, err = optionalBool(cell[b.index]); err != nil {
			return reconcile.Row{}, fmt.Errorf("%s: %w", b.name, err)
		}
	}
	return row, nil
}
