package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "scoreline/internal/errors"
	"scoreline/pkg/contracts/domain"
)

// CleanSchoolNames trims names and drops blanks and duplicates, keeping the
// first occurrence's position. It returns nil when no name survives.
func CleanSchoolNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ExtractSchool builds one school's subject tables from the league table.
// A row belongs to the school when its school field equals any of names
// exactly. It fails with a not-found error when names is empty or no row
// matches; subjects without any score are omitted.
func ExtractSchool(league *domain.LeagueTable, names []string, logger *slog.Logger) (*domain.SchoolData, error) {
	logger = loggerOrDefault(logger)

	names = CleanSchoolNames(names)
	if len(names) == 0 {
		return nil, apperrors.NewNotFoundError("school names")
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	var matched []domain.LeagueRow
	if league != nil && league.HasSchool {
		for _, r := range league.Rows {
			if _, ok := wanted[r.School]; ok {
				matched = append(matched, r)
			}
		}
	}
	if len(matched) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("league rows for school %v", names)).
			WithContext("school_names", names)
	}

	data := domain.NewSchoolData()
	for _, subject := range league.Subjects {
		table := &domain.SubjectTable{Subject: subject, HasClass: league.HasClass}
		for _, r := range matched {
			score, ok := r.Scores[subject]
			if !ok {
				continue
			}
			table.Rows = append(table.Rows, domain.ScoreRow{Class: r.Class, Name: r.Name, Score: score})
		}
		if table.Len() == 0 {
			logger.Warn("subject has no scores for school", slog.String("subject", subject), slog.Any("school_names", names))
			continue
		}
		data.Add(table)
	}

	logger.Info("school extracted from league",
		slog.Any("school_names", names),
		slog.Int("rows", len(matched)),
		slog.Any("subjects", data.Subjects()))

	return data, nil
}
