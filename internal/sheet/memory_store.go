package sheet

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore keeps tenant workbooks in process memory. It backs unit
// tests and is a usable store for throwaway environments.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[string]map[string][][]string),
	}
}

// Seed replaces the contents of one sheet. Rows are 1-based from the top
// of the sheet, so rows[0] lands on sheet row 1.
func (s *MemoryStore) Seed(tenant, sheetName string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb, ok := s.tenants[tenant]
	if !ok {
		wb = make(map[string][][]string)
		s.tenants[tenant] = wb
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = append([]string(nil), row...)
	}
	wb[sheetName] = grid
}

func (s *MemoryStore) ReadRange(ctx context.Context, tenant, rangeSpec string) ([][]string, error) {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	grid, err := s.sheetLocked(tenant, rng.Sheet)
	if err != nil {
		return nil, err
	}

	lastRow := len(grid)
	if rng.EndRow != 0 && rng.EndRow < lastRow {
		lastRow = rng.EndRow
	}

	var out [][]string
	for rowNo := rng.StartRow; rowNo <= lastRow; rowNo++ {
		out = append(out, sliceRow(grid[rowNo-1], rng))
	}
	return trimTrailingEmpty(out), nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, tenant, rangeSpec string, rows [][]any) error {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.sheetLocked(tenant, rng.Sheet)
	if err != nil {
		return err
	}

	target := rng.StartRow
	for ; target <= len(grid); target++ {
		if !rowEmpty(grid[target-1], rng) {
			continue
		}
		break
	}

	for i, row := range rows {
		for j, v := range row {
			grid = setCell(grid, target+i, rng.StartCol+j, CellString(v))
		}
	}
	s.tenants[tenant][rng.Sheet] = grid
	return nil
}

func (s *MemoryStore) UpdateCells(ctx context.Context, tenant, cellAddr string, rows [][]any) error {
	cell, err := ParseCell(cellAddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.sheetLocked(tenant, cell.Sheet)
	if err != nil {
		return err
	}

	for i, row := range rows {
		for j, v := range row {
			grid = setCell(grid, cell.Row+i, cell.Col+j, CellString(v))
		}
	}
	s.tenants[tenant][cell.Sheet] = grid
	return nil
}

func (s *MemoryStore) sheetLocked(tenant, sheetName string) ([][]string, error) {
	wb, ok := s.tenants[tenant]
	if !ok {
		return nil, fmt.Errorf("tenant %q: %w", tenant, ErrTenantNotFound)
	}
	grid, ok := wb[sheetName]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, ErrSheetNotFound)
	}
	return grid, nil
}

// CellString renders an appended cell value the way a spreadsheet
// backend stores it.
func CellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func sliceRow(row []string, rng Range) []string {
	out := make([]string, rng.Width())
	for c := rng.StartCol; c <= rng.EndCol; c++ {
		if c-1 < len(row) {
			out[c-rng.StartCol] = row[c-1]
		}
	}
	return out
}

func rowEmpty(row []string, rng Range) bool {
	for c := rng.StartCol; c <= rng.EndCol; c++ {
		if c-1 < len(row) && row[c-1] != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, c := range last {
			if c != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

func setCell(grid [][]string, rowNo, colNo int, v string) [][]string {
	for len(grid) < rowNo {
		grid = append(grid, nil)
	}
	row := grid[rowNo-1]
	for len(row) < colNo {
		row = append(row, "")
	}
	row[colNo-1] = v
	grid[rowNo-1] = row
	return grid
}
