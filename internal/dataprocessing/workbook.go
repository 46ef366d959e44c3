package dataprocessing

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "scoreline/internal/errors"
)

// Workbook is the read-only view of a spreadsheet the parsers work on.
// Rows returns every row of a sheet as raw cell text; trailing empty cells
// may be missing from a row.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
}

// ExcelWorkbook adapts an excelize file to Workbook.
type ExcelWorkbook struct {
	file *excelize.File
}

// OpenWorkbook opens an .xlsx/.xlsm file. The caller must Close it.
func OpenWorkbook(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewReadError("failed to open workbook "+path, err)
	}
	return &ExcelWorkbook{file: f}, nil
}

// SheetNames returns the sheet names in workbook order.
func (w *ExcelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows returns the raw cell values of sheet. Numbers come back unformatted so
// that "85" stays "85" regardless of the cell's number format.
func (w *ExcelWorkbook) Rows(sheet string) ([][]string, error) {
	return w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
}

// Close releases the underlying file.
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

func hasSheet(wb Workbook, name string) bool {
	for _, s := range wb.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseScore coerces a cell to a number. Blank, non-numeric, NaN and
// infinite values are not scores.
func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// normalizeClass trims a class label and maps placeholder values to "".
func normalizeClass(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
