package http

import (
	"context"
	"io"

	"scoreline/internal/dataprocessing"
	"scoreline/internal/exporter"
	"scoreline/internal/files"
	"scoreline/internal/services"
	"scoreline/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations the handlers call.
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, src services.Source, lines []float64) (*services.AnalyzeResult, error)
	AnalyzeLeague(ctx context.Context, q services.LeagueQuery) (*services.LeagueReport, error)
	Preview(ctx context.Context, fileType, path string) (any, error)
	LeagueHeader(ctx context.Context, path string) (*dataprocessing.LeagueHeader, error)
	SubjectsByClass(ctx context.Context, src services.Source) (map[string]domain.SubjectClassComparison, error)
	TotalScore(ctx context.Context, src services.Source, lines []float64) (map[string]domain.PassLineResult, error)
	ClassDetail(ctx context.Context, src services.Source, subject, class string) (domain.ClassDetail, error)
	SubjectLines(ctx context.Context, src services.Source, totalLine float64, subjectLines map[string]float64) (domain.SubjectLineReport, error)
	ClassSubjects(ctx context.Context, src services.Source, scoreLine float64, subjectLines map[string]float64) (domain.ClassSubjectMatrix, error)
	ClassAssessment(ctx context.Context, src services.Source, tekongLine, yiduanLine float64) (domain.AssessmentReport, error)
}

// UploadStore keeps uploaded workbooks and confines client paths to them.
type UploadStore interface {
	Save(kind files.Kind, name string, r io.Reader) (string, error)
	Resolve(path string) (string, error)
	Remove(path string) error
}

// WorkbookExporter renders results for download.
type WorkbookExporter interface {
	Write(out io.Writer, data exporter.ExportData) error
	Filename() string
}
