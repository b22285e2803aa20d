package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daryltucker/forest-bench/internal/output"
)

// WriteImport stores every sheet as one import and returns its id.
// Cells are rendered like the CSV sink; absent cells are not stored.
func (s *Store) WriteImport(ctx context.Context, sheets []output.Sheet) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("write import: %w", err)
	}

	cell, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (import_id, sheet, row_idx, col_idx, "column", value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("write import: %w", err)
	}
	defer cell.Close()

	for pos, sh := range sheets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheets (import_id, name, position, row_count) VALUES (?, ?, ?, ?)`,
			id, sh.Name, pos, len(sh.Rows),
		); err != nil {
			return "", fmt.Errorf("write sheet %s: %w", sh.Name, err)
		}

		columns := output.Columns(sh.Rows)
		for r, row := range sh.Rows {
			for c, col := range columns {
				v, ok := row.Get(col)
				if !ok {
					continue
				}
				if _, err := cell.ExecContext(ctx, id, sh.Name, r, c, col, output.FormatValue(v)); err != nil {
					return "", fmt.Errorf("write sheet %s row %d: %w", sh.Name, r, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write import: %w", err)
	}
	return id, nil
}

// SheetInfo summarizes one stored sheet.
type SheetInfo struct {
	Name string
	Rows int
}

// Sheets lists the sheets of an import in their original order.
func (s *Store) Sheets(ctx context.Context, importID string) ([]SheetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, row_count FROM sheets WHERE import_id = ? ORDER BY position`, importID)
	if err != nil {
		return nil, fmt.Errorf("read sheets: %w", err)
	}
	defer rows.Close()

	var out []SheetInfo
	for rows.Next() {
		var info SheetInfo
		if err := rows.Scan(&info.Name, &info.Rows); err != nil {
			return nil, fmt.Errorf("read sheets: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
