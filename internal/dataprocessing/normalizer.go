package dataprocessing

import (
	"fmt"

	"scoreline/pkg/contracts/domain"
)

// NormalizeSheet turns a raw subject sheet into a SubjectTable. The header is
// rows[headerRow]; every later row is data. Only the first column of each
// kind is used. Rows with a blank name or a non-numeric score are dropped.
//
// An error means the sheet lacks a name or score column. A sheet whose rows
// are all invalid yields an empty table, not an error.
func NormalizeSheet(subject string, rows [][]string, headerRow int) (*domain.SubjectTable, error) {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("sheet %s has no header row %d", subject, headerRow+1)
	}

	nameIdx, classIdx, scoreIdx := -1, -1, -1
	for i, h := range rows[headerRow] {
		switch ClassifyColumn(h) {
		case ColumnName:
			if nameIdx < 0 {
				nameIdx = i
			}
		case ColumnClass:
			if classIdx < 0 {
				classIdx = i
			}
		case ColumnScore:
			if scoreIdx < 0 {
				scoreIdx = i
			}
		}
	}

	if nameIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("sheet %s lacks a name or score column, header: %v", subject, rows[headerRow])
	}

	table := &domain.SubjectTable{Subject: subject, HasClass: classIdx >= 0}
	for _, row := range rows[headerRow+1:] {
		name := cell(row, nameIdx)
		if name == "" {
			continue
		}
		score, ok := parseScore(cell(row, scoreIdx))
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, domain.ScoreRow{
			Class: normalizeClass(cell(row, classIdx)),
			Name:  name,
			Score: score,
		})
	}

	return table, nil
}
