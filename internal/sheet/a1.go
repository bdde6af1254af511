package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a parsed A1-notation range with an optional sheet prefix,
// e.g. "予約!A2:J" or "設定!A1:B19". Rows and columns are 1-based.
// EndRow == 0 means the range is open-ended downwards (read to the last
// occupied row).
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// Cell is a parsed single-cell address, e.g. "予約!I5".
type Cell struct {
	Sheet string
	Col   int
	Row   int
}

// Width returns the number of columns the range spans.
func (r Range) Width() int {
	return r.EndCol - r.StartCol + 1
}

// ParseRange parses "Sheet!A1:B19" or "Sheet!A2:J" (row-open).
func ParseRange(spec string) (Range, error) {
	sheetName, ref, err := splitSheet(spec)
	if err != nil {
		return Range{}, err
	}

	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q: missing ':'", spec)
	}

	startCol, startRow, err := parseRef(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", spec, err)
	}
	if startRow == 0 {
		return Range{}, fmt.Errorf("range %q: start must include a row", spec)
	}

	endCol, endRow, err := parseRef(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", spec, err)
	}

	if endCol < startCol || (endRow != 0 && endRow < startRow) {
		return Range{}, fmt.Errorf("range %q: end before start", spec)
	}

	return Range{
		Sheet:    sheetName,
		StartCol: startCol,
		StartRow: startRow,
		EndCol:   endCol,
		EndRow:   endRow,
	}, nil
}

// ParseCell parses "Sheet!I5".
func ParseCell(addr string) (Cell, error) {
	sheetName, ref, err := splitSheet(addr)
	if err != nil {
		return Cell{}, err
	}

	col, row, err := parseRef(ref)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %q: %w", addr, err)
	}
	if row == 0 {
		return Cell{}, fmt.Errorf("cell %q: missing row", addr)
	}

	return Cell{Sheet: sheetName, Col: col, Row: row}, nil
}

// CellAddr formats a single-cell address for the given sheet.
func CellAddr(sheetName string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", sheetName, ColName(col), row)
}

// ColName converts a 1-based column index to its letter form (1 -> A).
func ColName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

func splitSheet(spec string) (sheetName, ref string, err error) {
	idx := strings.LastIndex(spec, "!")
	if idx <= 0 || idx == len(spec)-1 {
		return "", "", fmt.Errorf("spec %q: expected Sheet!Ref", spec)
	}
	sheetName = strings.Trim(spec[:idx], "'")
	return sheetName, spec[idx+1:], nil
}

// parseRef parses "A1" into (1, 1) and a bare column "J" into (10, 0).
func parseRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("ref %q: missing column", ref)
	}
	if i == len(ref) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row <= 0 {
		return 0, 0, fmt.Errorf("ref %q: bad row", ref)
	}
	return col, row, nil
}
