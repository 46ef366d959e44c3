package dataprocessing

import (
	"strings"

	apperrors "scoreline/internal/errors"
	"scoreline/pkg/contracts/domain"
)

// PreviewRows is how many rows a preview samples.
const PreviewRows = 10

// PreviewSchool summarises each subject table with its first rows.
func PreviewSchool(data *domain.SchoolData) map[string]domain.SubjectPreview {
	out := make(map[string]domain.SubjectPreview, data.Len())
	for _, t := range data.Tables() {
		cols := []string{domain.ColumnName}
		if t.HasClass {
			cols = append(cols, domain.ColumnClass)
		}
		cols = append(cols, domain.ColumnScore)

		n := min(PreviewRows, t.Len())
		sample := make([]domain.ScoreRow, n)
		copy(sample, t.Rows[:n])

		out[t.Subject] = domain.SubjectPreview{
			Columns:    cols,
			RowCount:   t.Len(),
			SampleData: sample,
		}
	}
	return out
}

// PreviewLeague summarises the league table with its first rows and the
// distinct schools.
func PreviewLeague(league *domain.LeagueTable) domain.LeaguePreview {
	n := min(PreviewRows, len(league.Rows))
	sample := make([]domain.LeagueRow, n)
	copy(sample, league.Rows[:n])

	schools := league.Schools()
	if schools == nil {
		schools = []string{}
	}

	return domain.LeaguePreview{
		Columns:    league.Columns(),
		RowCount:   len(league.Rows),
		SampleData: sample,
		Schools:    schools,
	}
}

// LeagueHeader is the header of an uploaded league workbook.
type LeagueHeader struct {
	Columns []string `json:"league_columns"`
	// Subjects are the whitelisted subject columns present, in canonical
	// order. When none match, every whitelisted subject is listed.
	Subjects []string `json:"subjects"`
}

// ReadLeagueHeader reads only the header row of the 分数 sheet.
func ReadLeagueHeader(wb Workbook) (*LeagueHeader, error) {
	if !hasSheet(wb, LeagueSheet) {
		return nil, apperrors.NewReadError("league workbook has no "+LeagueSheet+" sheet", nil)
	}
	rows, err := wb.Rows(LeagueSheet)
	if err != nil {
		return nil, apperrors.NewReadError("failed to read "+LeagueSheet+" sheet", err)
	}

	h := &LeagueHeader{Columns: []string{}}
	present := make(map[string]struct{})
	if len(rows) > 0 {
		for _, c := range rows[0] {
			c = strings.TrimSpace(c)
			h.Columns = append(h.Columns, c)
			present[c] = struct{}{}
		}
	}

	for _, s := range domain.SubjectColumns {
		if _, ok := present[s]; ok {
			h.Subjects = append(h.Subjects, s)
		}
	}
	if len(h.Subjects) == 0 {
		h.Subjects = append([]string(nil), domain.SubjectColumns...)
	}
	return h, nil
}
