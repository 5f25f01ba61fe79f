package tables

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"openingaudit/internal/catalog"
	"openingaudit/internal/logging"
)

// ImportCSV replaces the contents of an input table with the rows of a CSV
// document. The first record is the header; columns are matched to fields by
// name and fields without a column are stored as NULL. Empty cells are NULL.
// It returns the number of imported rows.
func (s *Store) ImportCSV(ctx context.Context, table string, fields []string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("import %s: csv header is required", table)
	}
	if err != nil {
		return 0, fmt.Errorf("import %s: read header: %w", table, err)
	}
	index, err := columnIndex(head, fields)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", table, err)
	}

	var rows [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("import %s: %w", table, err)
		}
		if blankRecord(record) {
			continue
		}
		row := make([]any, len(fields))
		for i, col := range index {
			if col < 0 || col >= len(record) {
				continue
			}
			if value := strings.TrimSpace(record[col]); value != "" {
				row[i] = value
			}
		}
		rows = append(rows, row)
	}

	if err := s.replaceRows(ctx, table, fields, rows); err != nil {
		return 0, fmt.Errorf("import %s: %w", table, err)
	}
	return len(rows), nil
}

// ReplaceOverrides stores overrides as the complete overrides table.
func (s *Store) ReplaceOverrides(ctx context.Context, overrides []catalog.Override) error {
	rows := make([][]any, 0, len(overrides))
	for _, ov := range overrides {
		row := []any{ov.SeriesID, nil, nil, nil, nil, nil}
		if ov.HasTitleStatus() {
			row[1] = string(*ov.TitleStatus)
		}
		if ov.Episode != nil {
			row[2] = int64(*ov.Episode)
		}
		if ov.EpisodeStatus != "" {
			row[3] = ov.EpisodeStatus
		}
		if ov.Begin != nil {
			row[4] = int64(*ov.Begin)
		}
		if ov.End != nil {
			row[5] = int64(*ov.End)
		}
		rows = append(rows, row)
	}
	if err := s.replaceRows(ctx, s.tables.Overrides, OverrideFields, rows); err != nil {
		return fmt.Errorf("replace overrides: %w", err)
	}
	return nil
}

// replaceRows empties an input table and inserts rows, keeping its schema.
func (s *Store) replaceRows(ctx context.Context, table string, fields []string, rows [][]any) error {
	ctx = ensureContext(ctx)
	name, err := quoteIdent(table)
	if err != nil {
		return err
	}
	columns, err := quoteIdents(fields)
	if err != nil {
		return err
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, columns, placeholders(len(fields))))
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
	s.logger.Info("input table replaced", logging.String(logging.FieldTable, table), logging.Int("rows", len(rows)))
	return nil
}

// columnIndex maps each field to its CSV column, or -1 when absent. At least
// one field must be present.
func columnIndex(head []string, fields []string) ([]int, error) {
	positions := make(map[string]int, len(head))
	for i, name := range head {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := positions[key]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		positions[key] = i
	}
	index := make([]int, len(fields))
	matched := 0
	for i, field := range fields {
		col, ok := positions[field]
		if !ok {
			index[i] = -1
			continue
		}
		index[i] = col
		matched++
	}
	if matched == 0 {
		return nil, fmt.Errorf("header has none of the columns %s", strings.Join(fields, ", "))
	}
	return index, nil
}

func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
