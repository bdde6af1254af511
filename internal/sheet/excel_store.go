package sheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore keeps one .xlsx workbook per tenant under a data directory;
// the tenant handle is the workbook's base name. Access is serialized
// per tenant because excelize mutates the whole file on save.
type ExcelStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewExcelStore(dir string) *ExcelStore {
	return &ExcelStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *ExcelStore) ReadRange(ctx context.Context, tenant, rangeSpec string) ([][]string, error) {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return nil, err
	}

	unlock := s.lockTenant(tenant)
	defer unlock()

	f, err := s.open(tenant)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid, err := sheetRows(f, rng.Sheet)
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

func (s *ExcelStore) AppendRow(ctx context.Context, tenant, rangeSpec string, rows [][]any) error {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return err
	}

	unlock := s.lockTenant(tenant)
	defer unlock()

	f, err := s.open(tenant)
	if err != nil {
		return err
	}
	defer f.Close()

	grid, err := sheetRows(f, rng.Sheet)
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

	if err := writeCells(f, rng.Sheet, rng.StartCol, target, rows); err != nil {
		return err
	}
	return f.Save()
}

func (s *ExcelStore) UpdateCells(ctx context.Context, tenant, cellAddr string, rows [][]any) error {
	cell, err := ParseCell(cellAddr)
	if err != nil {
		return err
	}

	unlock := s.lockTenant(tenant)
	defer unlock()

	f, err := s.open(tenant)
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(cell.Sheet); err != nil || idx < 0 {
		return fmt.Errorf("sheet %q: %w", cell.Sheet, ErrSheetNotFound)
	}

	if err := writeCells(f, cell.Sheet, cell.Col, cell.Row, rows); err != nil {
		return err
	}
	return f.Save()
}

// CreateTenant creates an empty workbook with the given sheets. Used by
// the seeder; existing workbooks are left alone.
func (s *ExcelStore) CreateTenant(tenant string, sheets []string) error {
	unlock := s.lockTenant(tenant)
	defer unlock()

	path := s.path(tenant)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, name := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// Tenants lists tenant handles present in the data directory.
func (s *ExcelStore) Tenants(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var tenants []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xlsx" {
			continue
		}
		tenants = append(tenants, e.Name()[:len(e.Name())-len(".xlsx")])
	}
	return tenants, nil
}

func (s *ExcelStore) path(tenant string) string {
	return filepath.Join(s.dir, tenant+".xlsx")
}

func (s *ExcelStore) open(tenant string) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path(tenant))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tenant %q: %w", tenant, ErrTenantNotFound)
		}
		return nil, fmt.Errorf("open workbook for %q: %w", tenant, err)
	}
	return f, nil
}

func (s *ExcelStore) lockTenant(tenant string) func() {
	s.mu.Lock()
	lk, ok := s.locks[tenant]
	if !ok {
		lk = &sync.Mutex{}
		s.locks[tenant] = lk
	}
	s.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}

func sheetRows(f *excelize.File, sheetName string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, ErrSheetNotFound)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func writeCells(f *excelize.File, sheetName string, startCol, startRow int, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			addr, err := excelize.CoordinatesToCellName(startCol+j, startRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, addr, CellString(v)); err != nil {
				return fmt.Errorf("set cell %s: %w", addr, err)
			}
		}
	}
	return nil
}
