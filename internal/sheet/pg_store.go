package sheet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the Postgres-backed tabular store. One row per occupied
// cell, so the visible semantics stay identical to the workbook stores.
const Schema = `
CREATE TABLE IF NOT EXISTS sheet_cells (
	tenant_id TEXT        NOT NULL,
	sheet     TEXT        NOT NULL,
	row_no    INT         NOT NULL,
	col_no    INT         NOT NULL,
	value     TEXT        NOT NULL,
	PRIMARY KEY (tenant_id, sheet, row_no, col_no)
);
`

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure sheet_cells schema: %w", err)
	}
	return nil
}

func (s *PgStore) ReadRange(ctx context.Context, tenant, rangeSpec string) ([][]string, error) {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT row_no, col_no, value
		FROM sheet_cells
		WHERE tenant_id = $1
		  AND sheet = $2
		  AND row_no >= $3
		  AND ($4 = 0 OR row_no <= $4)
		  AND col_no BETWEEN $5 AND $6
		ORDER BY row_no, col_no
	`, tenant, rng.Sheet, rng.StartRow, rng.EndRow, rng.StartCol, rng.EndCol)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", rangeSpec, err)
	}
	defer rows.Close()

	cells := make(map[int]map[int]string)
	lastRow := 0
	for rows.Next() {
		var rowNo, colNo int
		var value string
		if err := rows.Scan(&rowNo, &colNo, &value); err != nil {
			return nil, err
		}
		if cells[rowNo] == nil {
			cells[rowNo] = make(map[int]string)
		}
		cells[rowNo][colNo] = value
		if rowNo > lastRow {
			lastRow = rowNo
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out [][]string
	for rowNo := rng.StartRow; rowNo <= lastRow; rowNo++ {
		row := make([]string, rng.Width())
		for colNo, v := range cells[rowNo] {
			row[colNo-rng.StartCol] = v
		}
		out = append(out, row)
	}
	return trimTrailingEmpty(out), nil
}

func (s *PgStore) AppendRow(ctx context.Context, tenant, rangeSpec string, rows [][]any) error {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var target int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(row_no) + 1, $3)
		FROM sheet_cells
		WHERE tenant_id = $1
		  AND sheet = $2
		  AND col_no BETWEEN $4 AND $5
	`, tenant, rng.Sheet, rng.StartRow, rng.StartCol, rng.EndCol).Scan(&target)
	if err != nil {
		return fmt.Errorf("find append row: %w", err)
	}
	if target < rng.StartRow {
		target = rng.StartRow
	}

	for i, row := range rows {
		for j, v := range row {
			if err := upsertCell(ctx, tx, tenant, rng.Sheet, target+i, rng.StartCol+j, CellString(v)); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *PgStore) UpdateCells(ctx context.Context, tenant, cellAddr string, rows [][]any) error {
	cell, err := ParseCell(cellAddr)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, row := range rows {
		for j, v := range row {
			if err := upsertCell(ctx, tx, tenant, cell.Sheet, cell.Row+i, cell.Col+j, CellString(v)); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

// Tenants lists distinct tenant handles present in the store.
func (s *PgStore) Tenants(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT tenant_id FROM sheet_cells ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func upsertCell(ctx context.Context, tx pgx.Tx, tenant, sheetName string, rowNo, colNo int, value string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO sheet_cells (tenant_id, sheet, row_no, col_no, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, sheet, row_no, col_no)
		DO UPDATE SET value = EXCLUDED.value
	`, tenant, sheetName, rowNo, colNo, value)
	if err != nil {
		return fmt.Errorf("upsert cell %s!%s%d: %w", sheetName, ColName(colNo), rowNo, err)
	}
	return nil
}
