package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "scoreline/internal/errors"
	"scoreline/pkg/contracts/domain"
)

// Layout identifies how a school workbook arranges its subjects.
type Layout int

const (
	// LayoutMultiSheet has one sheet per subject with a grouping row above
	// the header.
	LayoutMultiSheet Layout = iota
	// LayoutWide has a single sheet: columns C/D/E hold class, name and
	// student ID, and each later numeric column is a subject.
	LayoutWide
)

func (l Layout) String() string {
	if l == LayoutWide {
		return "wide"
	}
	return "multi_sheet"
}

// Wide layout column positions (zero-based).
const (
	wideClassCol   = 2
	wideNameCol    = 3
	wideIDCol      = 4
	wideFirstScore = 5
)

// reservedSheets are never read as subjects in the multi-sheet layout.
var reservedSheets = map[string]struct{}{
	domain.ColumnTotal: {},
	"Total":            {},
}

// DetectLayout classifies wb by the first sheet's C/D/E header cells.
func DetectLayout(wb Workbook) Layout {
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return LayoutMultiSheet
	}
	rows, err := wb.Rows(sheets[0])
	if err != nil || len(rows) == 0 {
		return LayoutMultiSheet
	}
	if isWideHeader(rows[0]) {
		return LayoutWide
	}
	return LayoutMultiSheet
}

// uniqueHeader returns h, or h.1, h.2 and so on when h is already taken,
// and marks the result taken.
func uniqueHeader(taken map[string]bool, h string) string {
	name := h
	for n := 1; taken[name]; n++ {
		name = fmt.Sprintf("%s.%d", h, n)
	}
	taken[name] = true
	return name
}

func isWideHeader(header []string) bool {
	if len(header) < wideFirstScore {
		return false
	}
	return containsAny(header[wideClassCol], wideClassKeywords) &&
		containsAny(header[wideNameCol], wideNameKeywords) &&
		containsAny(header[wideIDCol], wideIDKeywords)
}

// ParseWide reads a wide-layout workbook. It fails when the first sheet does
// not have the wide header.
func ParseWide(wb Workbook, logger *slog.Logger) (*domain.SchoolData, error) {
	logger = loggerOrDefault(logger)
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 || !isWideHeader(rows[0]) {
		return nil, fmt.Errorf("sheet %s is not in the wide layout", sheets[0])
	}

	header, body := rows[0], rows[1:]
	data := domain.NewSchoolData()
	taken := make(map[string]bool)

	for col := wideFirstScore; col < len(header); col++ {
		subject := strings.TrimSpace(header[col])
		if isPlaceholderHeader(subject) {
			continue
		}
		if _, reserved := reservedHeaders[subject]; reserved {
			continue
		}
		if unique := uniqueHeader(taken, subject); unique != subject {
			logger.Warn("duplicate subject header renamed",
				slog.String("subject", subject),
				slog.String("renamed", unique))
			subject = unique
		}
		if !mostlyNumeric(body, col) {
			logger.Debug("skipping non-numeric column", slog.String("column", subject))
			continue
		}

		table := &domain.SubjectTable{Subject: subject, HasClass: true}
		for _, row := range body {
			name := cell(row, wideNameCol)
			if name == "" {
				continue
			}
			score, ok := parseScore(cell(row, col))
			if !ok {
				continue
			}
			table.Rows = append(table.Rows, domain.ScoreRow{
				Class: normalizeClass(cell(row, wideClassCol)),
				Name:  name,
				Score: score,
			})
		}

		if table.Len() == 0 {
			logger.Warn("subject has no valid rows", slog.String("subject", subject))
			continue
		}
		data.Add(table)
		logger.Info("subject read",
			slog.String("subject", subject),
			slog.String("layout", LayoutWide.String()),
			slog.Int("rows", table.Len()))
	}

	return data, nil
}

// mostlyNumeric reports whether at least half of the column's data cells
// parse as numbers.
func mostlyNumeric(body [][]string, col int) bool {
	if len(body) == 0 {
		return false
	}
	numeric := 0
	for _, row := range body {
		if _, ok := parseScore(cell(row, col)); ok {
			numeric++
		}
	}
	return numeric*2 >= len(body)
}

// ParseMultiSheet reads every non-reserved sheet as a subject whose header is
// the second row. Subjects that cannot be read are logged and omitted.
func ParseMultiSheet(wb Workbook, logger *slog.Logger) *domain.SchoolData {
	logger = loggerOrDefault(logger)
	data := domain.NewSchoolData()

	for _, sheet := range wb.SheetNames() {
		if _, reserved := reservedSheets[sheet]; reserved {
			continue
		}

		rows, err := wb.Rows(sheet)
		if err != nil {
			logger.Error("failed to read subject sheet", slog.String("subject", sheet), slog.String("error", err.Error()))
			continue
		}

		table, err := NormalizeSheet(sheet, rows, 1)
		if err != nil {
			logger.Warn("subject sheet skipped", slog.String("subject", sheet), slog.String("reason", err.Error()))
			continue
		}
		if table.Len() == 0 {
			logger.Warn("subject has no valid rows", slog.String("subject", sheet))
			continue
		}

		data.Add(table)
		logger.Info("subject read",
			slog.String("subject", sheet),
			slog.String("layout", LayoutMultiSheet.String()),
			slog.Int("rows", table.Len()))
	}

	return data
}

// DetectSchoolData parses wb with the strategy its layout calls for. A wide
// workbook that fails or yields no subjects is re-read as multi-sheet.
func DetectSchoolData(wb Workbook, logger *slog.Logger) *domain.SchoolData {
	logger = loggerOrDefault(logger)

	if DetectLayout(wb) == LayoutWide {
		data, err := ParseWide(wb, logger)
		if err == nil && data.Len() > 0 {
			return data
		}
		logger.Info("wide layout yielded no subjects, falling back to multi-sheet")
	}

	data := ParseMultiSheet(wb, logger)
	logger.Info("school data read", slog.Int("subjects", data.Len()), slog.Any("names", data.Subjects()))
	return data
}

// ReadSchoolData opens the school workbook at path and parses it.
func ReadSchoolData(path string, logger *slog.Logger) (*domain.SchoolData, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if len(wb.SheetNames()) == 0 {
		return nil, apperrors.NewReadError("school workbook has no sheets", nil)
	}

	return DetectSchoolData(wb, logger), nil
}
