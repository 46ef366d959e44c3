package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"scoreline/internal/analytics"
	"scoreline/internal/dataprocessing"
	apperrors "scoreline/internal/errors"
	"scoreline/internal/infrastructure"
	"scoreline/pkg/contracts/domain"
)

// Source says where the school's data comes from. A standalone school
// workbook wins; otherwise the school is cut out of the league workbook by
// SchoolNames.
type Source struct {
	SchoolPath  string
	LeaguePath  string
	SchoolNames []string
}

// Names returns the cleaned school names.
func (s Source) Names() []string {
	return dataprocessing.CleanSchoolNames(s.SchoolNames)
}

// AnalyzeResult is the combined school and league analysis.
type AnalyzeResult struct {
	SchoolAnalysis map[string]domain.SubjectStats     `json:"school_analysis"`
	LeagueAnalysis map[string]domain.LeagueLineResult `json:"league_analysis"`
	SchoolPath     string                             `json:"school_path,omitempty"`
	LeaguePath     string                             `json:"league_path,omitempty"`
}

// LeagueQuery selects a league analysis.
type LeagueQuery struct {
	LeaguePath  string
	SchoolNames []string
	ScoreLines  []float64
	// SubjectLines maps a line name to per-subject thresholds, e.g.
	// {"特控线": {"语文": 100}}.
	SubjectLines map[string]map[string]float64
}

// AnalysisService runs analyses over uploaded workbooks.
type AnalysisService struct {
	loader  WorkbookLoader
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
	logger  *slog.Logger
}

// NewAnalysisService creates an analysis service. A nil telemetry disables
// tracing and metrics.
func NewAnalysisService(loader WorkbookLoader, tel *infrastructure.Telemetry, logger *slog.Logger) (*AnalysisService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &AnalysisService{
		loader: loader,
		tracer: noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		logger: logger.With(slog.String("component", "analysis_service")),
	}

	if tel != nil {
		metrics, err := infrastructure.NewAnalysisMetrics(tel.Meter)
		if err != nil {
			return nil, err
		}
		s.tracer = tel.Tracer
		s.metrics = metrics
	}

	return s, nil
}

// observe runs fn inside a span and records its outcome.
func (s *AnalysisService) observe(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "analysis."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.metrics.RecordAnalysis(ctx, op, elapsed, err)

	logger := infrastructure.LoggerWithContext(ctx, s.logger)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		logger.WarnContext(ctx, "analysis failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return err
	}

	logger.InfoContext(ctx, "analysis completed",
		slog.String("operation", op),
		slog.Duration("duration", elapsed))
	return nil
}

func invalid(err error) *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrTypeValidation, err.Error(), err)
}

func validateLines(lines []float64) error {
	if len(lines) == 0 {
		return invalid(ErrNoScoreLines)
	}
	for _, l := range lines {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return invalid(ErrInvalidScoreLine)
		}
	}
	return nil
}

// requireLine rejects a missing (zero) or non-finite single line.
func requireLine(name string, v float64) error {
	if v == 0 {
		return invalid(ErrNoScoreLines).WithContext("line", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(ErrInvalidScoreLine).WithContext("line", name)
	}
	return nil
}

func (s *AnalysisService) loadLeague(ctx context.Context, path string) (*domain.LeagueTable, error) {
	league, err := s.loader.LoadLeague(ctx, path)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordWorkbook(ctx, "league")
	infrastructure.AddSpanEvent(ctx, "league loaded",
		attribute.Int("rows", len(league.Rows)),
		attribute.Int("subjects", len(league.Subjects)))
	return league, nil
}

// schoolData resolves src to the school's subject tables. league, when not
// nil, is reused instead of reading LeaguePath again.
func (s *AnalysisService) schoolData(ctx context.Context, src Source, league *domain.LeagueTable) (*domain.SchoolData, error) {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	if src.SchoolPath != "" {
		data, err := s.loader.LoadSchool(ctx, src.SchoolPath)
		if err != nil {
			return nil, err
		}
		s.metrics.RecordWorkbook(ctx, "school")
		logger.InfoContext(ctx, "school data read from school workbook",
			slog.Int("subjects", data.Len()),
			slog.Any("names", data.Subjects()))
		return data, nil
	}

	if src.LeaguePath == "" {
		return nil, invalid(ErrNoSource)
	}

	names := src.Names()
	if len(names) == 0 {
		return nil, invalid(ErrNoSchoolNames)
	}

	if league == nil {
		var err error
		if league, err = s.loadLeague(ctx, src.LeaguePath); err != nil {
			return nil, err
		}
	}

	data, err := dataprocessing.ExtractSchool(league, names, logger)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "school data extracted from league workbook",
		slog.Any("school_names", names),
		slog.Int("subjects", data.Len()),
		slog.Any("names", data.Subjects()))
	return data, nil
}

// Analyze computes per-subject statistics for the school and, when school
// names are given, the league analysis at every line. Failing to resolve the
// school's data only leaves SchoolAnalysis empty.
func (s *AnalysisService) Analyze(ctx context.Context, src Source, lines []float64) (*AnalyzeResult, error) {
	var result *AnalyzeResult
	err := s.observe(ctx, "analyze", func(ctx context.Context) error {
		if src.LeaguePath == "" {
			return invalid(ErrNoLeague)
		}
		if err := validateLines(lines); err != nil {
			return err
		}

		league, err := s.loadLeague(ctx, src.LeaguePath)
		if err != nil {
			return err
		}

		result = &AnalyzeResult{
			SchoolAnalysis: map[string]domain.SubjectStats{},
			LeagueAnalysis: map[string]domain.LeagueLineResult{},
			SchoolPath:     src.SchoolPath,
			LeaguePath:     src.LeaguePath,
		}

		data, err := s.schoolData(ctx, src, league)
		switch {
		case err == nil:
			result.SchoolAnalysis = analytics.AnalyzePerSubject(data)
		case apperrors.IsNotFoundError(err) || apperrors.IsType(err, apperrors.ErrTypeValidation):
			infrastructure.LoggerWithContext(ctx, s.logger).WarnContext(ctx, "school data unavailable, skipping school analysis",
				slog.String("error", err.Error()))
		default:
			return err
		}

		if names := src.Names(); len(names) > 0 {
			result.LeagueAnalysis = analytics.AnalyzeLeague(league, names, lines, names[0])
		}
		return nil
	}, attribute.Int("score_lines", len(lines)))

	if err != nil {
		return nil, err
	}
	return result, nil
}

// LeagueReport is the league analysis keyed by line, plus optional
// per-subject rankings.
type LeagueReport struct {
	Lines               map[string]domain.LeagueLineResult
	SubjectLineRankings map[string]map[string]domain.LeagueSubjectLineResult
}

// MarshalJSON flattens the line results next to subject_line_rankings, the
// shape the web client reads.
func (r LeagueReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Lines)+1)
	for k, v := range r.Lines {
		out[k] = v
	}
	if len(r.SubjectLineRankings) > 0 {
		out["subject_line_rankings"] = r.SubjectLineRankings
	}
	return json.Marshal(out)
}

// AnalyzeLeague compares the schools of the league at every line. Subject
// rankings are computed only when both subject lines and school names are
// given.
func (s *AnalysisService) AnalyzeLeague(ctx context.Context, q LeagueQuery) (*LeagueReport, error) {
	var report *LeagueReport
	err := s.observe(ctx, "analyze_league", func(ctx context.Context) error {
		if q.LeaguePath == "" {
			return invalid(ErrNoLeague)
		}
		if err := validateLines(q.ScoreLines); err != nil {
			return err
		}

		league, err := s.loadLeague(ctx, q.LeaguePath)
		if err != nil {
			return err
		}

		names := dataprocessing.CleanSchoolNames(q.SchoolNames)
		var display string
		if len(names) > 0 {
			display = names[0]
		}

		report = &LeagueReport{Lines: analytics.AnalyzeLeague(league, names, q.ScoreLines, display)}
		if len(q.SubjectLines) > 0 && len(names) > 0 {
			if rankings := analytics.AnalyzeLeagueSubjectLines(league, names, q.SubjectLines); len(rankings) > 0 {
				report.SubjectLineRankings = rankings
			}
		}
		return nil
	}, attribute.Int("score_lines", len(q.ScoreLines)))

	if err != nil {
		return nil, err
	}
	return report, nil
}

// Preview returns a short look at a parsed workbook. fileType is "school"
// or "league".
func (s *AnalysisService) Preview(ctx context.Context, fileType, path string) (any, error) {
	var preview any
	err := s.observe(ctx, "preview", func(ctx context.Context) error {
		if path == "" {
			return invalid(ErrNoSource)
		}
		switch fileType {
		case "school":
			data, err := s.loader.LoadSchool(ctx, path)
			if err != nil {
				return err
			}
			s.metrics.RecordWorkbook(ctx, "school")
			preview = dataprocessing.PreviewSchool(data)
		case "league":
			league, err := s.loadLeague(ctx, path)
			if err != nil {
				return err
			}
			preview = dataprocessing.PreviewLeague(league)
		default:
			return invalid(ErrUnknownFileType).WithContext("file_type", fileType)
		}
		return nil
	}, attribute.String("file_type", fileType))

	if err != nil {
		return nil, err
	}
	return preview, nil
}

// LeagueHeader reads the header of an uploaded league workbook.
func (s *AnalysisService) LeagueHeader(ctx context.Context, path string) (*dataprocessing.LeagueHeader, error) {
	var header *dataprocessing.LeagueHeader
	err := s.observe(ctx, "league_header", func(ctx context.Context) error {
		var err error
		header, err = s.loader.LoadLeagueHeader(ctx, path)
		return err
	})
	return header, err
}

// SubjectsByClass compares the classes of every subject.
func (s *AnalysisService) SubjectsByClass(ctx context.Context, src Source) (map[string]domain.SubjectClassComparison, error) {
	var out map[string]domain.SubjectClassComparison
	err := s.observe(ctx, "subjects_by_class", func(ctx context.Context) error {
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out = analytics.AnalyzeSubjectsByClass(data)
		return nil
	})
	return out, err
}

// TotalScore analyses the school's student totals at every line.
func (s *AnalysisService) TotalScore(ctx context.Context, src Source, lines []float64) (map[string]domain.PassLineResult, error) {
	var out map[string]domain.PassLineResult
	err := s.observe(ctx, "total_score", func(ctx context.Context) error {
		if err := validateLines(lines); err != nil {
			return err
		}
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out = analytics.AnalyzeTotalScore(data, lines)
		return nil
	}, attribute.Int("score_lines", len(lines)))
	return out, err
}

// ClassDetail lists one class's students in a subject.
func (s *AnalysisService) ClassDetail(ctx context.Context, src Source, subject, class string) (domain.ClassDetail, error) {
	var out domain.ClassDetail
	err := s.observe(ctx, "class_detail", func(ctx context.Context) error {
		if subject == "" || class == "" {
			return invalid(ErrMissingParameters)
		}
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out, err = analytics.ClassDetail(data, subject, class)
		return err
	}, attribute.String("subject", subject), attribute.String("class", class))
	return out, err
}

// SubjectLines measures each subject against its own line.
func (s *AnalysisService) SubjectLines(ctx context.Context, src Source, totalLine float64, subjectLines map[string]float64) (domain.SubjectLineReport, error) {
	var out domain.SubjectLineReport
	err := s.observe(ctx, "subject_lines", func(ctx context.Context) error {
		if err := requireLine("total_score_line", totalLine); err != nil {
			return err
		}
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out = analytics.SubjectLineReport(data, totalLine, subjectLines)
		return nil
	})
	return out, err
}

// ClassSubjects builds the class × subject pass matrix.
func (s *AnalysisService) ClassSubjects(ctx context.Context, src Source, scoreLine float64, subjectLines map[string]float64) (domain.ClassSubjectMatrix, error) {
	var out domain.ClassSubjectMatrix
	err := s.observe(ctx, "class_subjects", func(ctx context.Context) error {
		if err := requireLine("score_line", scoreLine); err != nil {
			return err
		}
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out = analytics.AnalyzeClassSubjectMatrix(data, subjectLines)
		out.ScoreLine = scoreLine
		return nil
	})
	return out, err
}

// ClassAssessment ranks classes by the weighted 特控线/一段线 pass rates.
func (s *AnalysisService) ClassAssessment(ctx context.Context, src Source, tekongLine, yiduanLine float64) (domain.AssessmentReport, error) {
	var out domain.AssessmentReport
	err := s.observe(ctx, "class_assessment", func(ctx context.Context) error {
		if err := requireLine("tekong_line", tekongLine); err != nil {
			return err
		}
		if err := requireLine("yiduan_line", yiduanLine); err != nil {
			return err
		}
		data, err := s.schoolData(ctx, src, nil)
		if err != nil {
			return err
		}
		out = analytics.ScoreClassAssessment(data, tekongLine, yiduanLine)
		s.metrics.RecordExcluded(ctx, len(out.ExcludedStudents))
		return nil
	})
	return out, err
}
