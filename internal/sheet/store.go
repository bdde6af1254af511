package sheet

import (
	"context"
	"errors"
)

var (
	ErrTenantNotFound = errors.New("tenant sheet not found")
	ErrSheetNotFound  = errors.New("sheet not found")
)

// Store is the narrow tabular-store contract the scheduling engine
// depends on. A tenant handle identifies one workbook (one client
// business); range and cell specs use A1 notation with a sheet prefix.
//
// ReadRange returns rows of cell values as strings, blank cells as "".
// Rows past the last occupied row of the range are not returned.
type Store interface {
	ReadRange(ctx context.Context, tenant, rangeSpec string) ([][]string, error)
	AppendRow(ctx context.Context, tenant, rangeSpec string, rows [][]any) error
	UpdateCells(ctx context.Context, tenant, cellAddr string, rows [][]any) error
}
