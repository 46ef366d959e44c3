package services

import (
	"context"
	"log/slog"

	"scoreline/internal/dataprocessing"
	"scoreline/pkg/contracts/domain"
)

// WorkbookLoader reads the workbooks an analysis draws on.
type WorkbookLoader interface {
	LoadSchool(ctx context.Context, path string) (*domain.SchoolData, error)
	LoadLeague(ctx context.Context, path string) (*domain.LeagueTable, error)
	LoadLeagueHeader(ctx context.Context, path string) (*dataprocessing.LeagueHeader, error)
}

// ExcelLoader reads .xlsx workbooks from disk.
type ExcelLoader struct {
	logger *slog.Logger
}

// NewExcelLoader creates a loader that logs parse decisions to logger.
func NewExcelLoader(logger *slog.Logger) *ExcelLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelLoader{logger: logger.With(slog.String("component", "workbook_loader"))}
}

func (l *ExcelLoader) LoadSchool(ctx context.Context, path string) (*domain.SchoolData, error) {
	return dataprocessing.ReadSchoolData(path, l.logger.With(slog.String("path", path)))
}

func (l *ExcelLoader) LoadLeague(ctx context.Context, path string) (*domain.LeagueTable, error) {
	return dataprocessing.ReadLeagueTable(path, l.logger.With(slog.String("path", path)))
}

func (l *ExcelLoader) LoadLeagueHeader(ctx context.Context, path string) (*dataprocessing.LeagueHeader, error) {
	wb, err := dataprocessing.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return dataprocessing.ReadLeagueHeader(wb)
}
