package dataprocessing

import (
	"log/slog"
	"strings"

	apperrors "scoreline/internal/errors"
	"scoreline/pkg/contracts/domain"
)

// LeagueSheet is the sheet of a league workbook that holds the scores.
const LeagueSheet = "分数"

// leagueColumns are matched in this order against each header; the first
// exact or substring match names the column.
var leagueColumns = append([]string{
	domain.ColumnSchool,
	domain.ColumnName,
	domain.ColumnClass,
}, domain.SubjectOrder...)

// matchLeagueColumn returns the canonical column for a header, or "".
func matchLeagueColumn(header string) string {
	h := strings.TrimSpace(header)
	if h == "" {
		return ""
	}
	for _, col := range leagueColumns {
		if h == col || strings.Contains(h, col) {
			return col
		}
	}
	return ""
}

// ParseLeague reads the 分数 sheet into a LeagueTable. Columns outside the
// canonical set are ignored. A row is dropped only when every subject score
// is missing.
func ParseLeague(wb Workbook, logger *slog.Logger) (*domain.LeagueTable, error) {
	logger = loggerOrDefault(logger)

	if !hasSheet(wb, LeagueSheet) {
		return nil, apperrors.NewReadError("league workbook has no "+LeagueSheet+" sheet", nil)
	}
	rows, err := wb.Rows(LeagueSheet)
	if err != nil {
		return nil, apperrors.NewReadError("failed to read "+LeagueSheet+" sheet", err)
	}

	table := &domain.LeagueTable{}
	if len(rows) == 0 {
		return table, nil
	}

	// first column wins for each canonical name
	index := make(map[string]int)
	for i, h := range rows[0] {
		col := matchLeagueColumn(h)
		if col == "" {
			continue
		}
		if _, taken := index[col]; !taken {
			index[col] = i
		}
	}
	logger.Debug("league columns matched", slog.Any("header", rows[0]), slog.Int("matched", len(index)))

	schoolIdx, hasSchool := index[domain.ColumnSchool]
	nameIdx, hasName := index[domain.ColumnName]
	classIdx, hasClass := index[domain.ColumnClass]
	table.HasSchool, table.HasName, table.HasClass = hasSchool, hasName, hasClass
	if !hasSchool {
		schoolIdx = -1
	}
	if !hasName {
		nameIdx = -1
	}
	if !hasClass {
		classIdx = -1
	}

	for _, s := range domain.SubjectOrder {
		if _, ok := index[s]; ok {
			table.Subjects = append(table.Subjects, s)
		}
	}

	dropped := 0
	for _, row := range rows[1:] {
		lr := domain.LeagueRow{
			School: cell(row, schoolIdx),
			Name:   cell(row, nameIdx),
			Class:  normalizeClass(cell(row, classIdx)),
			Scores: make(map[string]float64, len(table.Subjects)),
		}
		for _, s := range table.Subjects {
			if v, ok := parseScore(cell(row, index[s])); ok {
				lr.Scores[s] = v
			}
		}
		if len(table.Subjects) > 0 && len(lr.Scores) == 0 {
			dropped++
			continue
		}
		table.Rows = append(table.Rows, lr)
	}

	logger.Info("league table read",
		slog.Int("rows", len(table.Rows)),
		slog.Int("dropped", dropped),
		slog.Any("subjects", table.Subjects))

	return table, nil
}

// ReadLeagueTable opens the league workbook at path and parses it.
func ReadLeagueTable(path string, logger *slog.Logger) (*domain.LeagueTable, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return ParseLeague(wb, logger)
}
