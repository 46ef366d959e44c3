package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "scoreline/internal/errors"
	"scoreline/internal/exporter"
	"scoreline/internal/files"
	"scoreline/internal/middleware"
	"scoreline/internal/services"
	"scoreline/internal/validation"
)

// Multipart parts above this size spill to temporary files.
const uploadMemory = 32 << 20

// AnalysisHandler serves uploads, analyses and exports.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	store        UploadStore
	files        *validation.FileValidator
	exporter     WorkbookExporter
	validate     *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(
	service AnalysisServiceInterface,
	store UploadStore,
	fileValidator *validation.FileValidator,
	exp WorkbookExporter,
	validate *middleware.Validator,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		store:        store,
		files:        fileValidator,
		exporter:     exp,
		validate:     validate,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes, mounted under /api.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.AuditLog(h.logger, "upload")).Post("/upload", h.Upload)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/analyze", h.Analyze)
		r.Post("/analyze_league", h.AnalyzeLeague)
		r.Post("/preview", h.Preview)
		r.Post("/analyze_school_subjects", h.SchoolSubjects)
		r.Post("/analyze_school_total", h.SchoolTotal)
		r.Post("/class_detail", h.ClassDetail)
		r.Post("/analyze_subject_lines", h.SubjectLines)
		r.Post("/analyze_class_subjects", h.ClassSubjects)
		r.Post("/calculate_class_assessment", h.ClassAssessment)
	})

	r.With(
		middleware.ContentTypeValidator(h.errorHandler, "application/json"),
		middleware.AuditLog(h.logger, "export"),
	).Post("/export_excel", h.ExportExcel)

	return r
}

// Upload handles POST /api/upload. The league workbook is required, the
// school workbook optional. The response carries the saved paths and the
// league header so the client can offer the subjects it contains.
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	leaguePath, err := h.saveUpload(r, "league_file", files.KindLeague)
	if errors.Is(err, http.ErrMissingFile) {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingLeague)
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	header, err := h.service.LeagueHeader(ctx, leaguePath)
	if err != nil {
		h.discard(r, leaguePath)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := map[string]any{
		"success":        true,
		"message":        "files uploaded",
		"league_path":    leaguePath,
		"league_columns": header.Columns,
		"subjects":       header.Subjects,
	}

	schoolPath, err := h.saveUpload(r, "school_file", files.KindSchool)
	switch {
	case err == nil:
		resp["school_path"] = schoolPath
	case errors.Is(err, http.ErrMissingFile):
	default:
		h.discard(r, leaguePath)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "Workbooks uploaded",
		slog.String("league_path", leaguePath),
		slog.String("school_path", schoolPath),
		slog.Int("subjects", len(header.Subjects)))
	render.JSON(w, r, resp)
}

func (h *AnalysisHandler) saveUpload(r *http.Request, field string, kind files.Kind) (string, error) {
	file, fh, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := h.files.ValidateName(fh.Filename); err != nil {
		return "", uploadError(field, err)
	}
	if err := h.files.ValidateSize(fh.Size); err != nil {
		return "", uploadError(field, err)
	}
	if err := h.files.ValidateContent(file); err != nil {
		return "", uploadError(field, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apierrors.FileSystemError("upload", err)
	}

	path, err := h.store.Save(kind, fh.Filename, file)
	if err != nil {
		return "", apierrors.FileSystemError("upload", err)
	}
	return path, nil
}

func (h *AnalysisHandler) discard(r *http.Request, path string) {
	if err := h.store.Remove(path); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to remove rejected upload",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

func uploadError(field string, err error) error {
	detail := apierrors.ValidationError{Field: field, Message: err.Error()}
	switch {
	case errors.Is(err, validation.ErrTooLarge):
		return apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, apierrors.ErrPayloadTooLarge.ErrorCode, apierrors.ErrPayloadTooLarge.Message, detail)
	case errors.Is(err, validation.ErrUnsupportedExtension),
		errors.Is(err, validation.ErrTemporaryFile),
		errors.Is(err, validation.ErrNotWorkbook):
		return apierrors.NewWithDetails(http.StatusUnsupportedMediaType, apierrors.ErrUnsupportedFile.ErrorCode, apierrors.ErrUnsupportedFile.Message, detail)
	case errors.Is(err, validation.ErrEmptyFile):
		return apierrors.ErrValidation(field, err.Error())
	default:
		return err
	}
}

// Analyze handles POST /api/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), src, req.ScoreLines.floats())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := map[string]any{
		"school_analysis": result.SchoolAnalysis,
		"league_analysis": result.LeagueAnalysis,
	}
	if result.SchoolPath != "" {
		resp["school_path"] = result.SchoolPath
	}
	if result.LeaguePath != "" {
		resp["league_path"] = result.LeaguePath
	}
	respond(w, r, resp)
}

// AnalyzeLeague handles POST /api/analyze_league.
func (h *AnalysisHandler) AnalyzeLeague(w http.ResponseWriter, r *http.Request) {
	var req analyzeLeagueRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	report, err := h.service.AnalyzeLeague(r.Context(), services.LeagueQuery{
		LeaguePath:   src.LeaguePath,
		SchoolNames:  src.SchoolNames,
		ScoreLines:   req.ScoreLines.floats(),
		SubjectLines: req.subjectLines(),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"league_analysis": report})
}

// Preview handles POST /api/preview.
func (h *AnalysisHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decode(w, r, &req) {
		return
	}
	path, err := h.resolve("file_path", req.FilePath)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	preview, err := h.service.Preview(r.Context(), req.FileType, path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"preview": preview})
}

// SchoolSubjects handles POST /api/analyze_school_subjects.
func (h *AnalysisHandler) SchoolSubjects(w http.ResponseWriter, r *http.Request) {
	var req schoolRef
	src, ok := h.bind(w, r, &req, &req)
	if !ok {
		return
	}

	analysis, err := h.service.SubjectsByClass(r.Context(), src)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"analysis": analysis})
}

// SchoolTotal handles POST /api/analyze_school_total.
func (h *AnalysisHandler) SchoolTotal(w http.ResponseWriter, r *http.Request) {
	var req totalRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	analysis, err := h.service.TotalScore(r.Context(), src, req.ScoreLines.floats())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"analysis": analysis})
}

// ClassDetail handles POST /api/class_detail.
func (h *AnalysisHandler) ClassDetail(w http.ResponseWriter, r *http.Request) {
	var req classDetailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.SchoolPath == "" {
		req.SchoolPath = req.FilePath
	}
	src, err := h.source(req.schoolRef)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	detail, err := h.service.ClassDetail(r.Context(), src, strings.TrimSpace(req.Subject), strings.TrimSpace(req.ClassName))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{
		"subject":     detail.Subject,
		"class_name":  detail.ClassName,
		"total_count": detail.TotalCount,
		"students":    detail.Students,
	})
}

// SubjectLines handles POST /api/analyze_subject_lines.
func (h *AnalysisHandler) SubjectLines(w http.ResponseWriter, r *http.Request) {
	var req subjectLinesRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	analysis, err := h.service.SubjectLines(r.Context(), src, float64(req.TotalScoreLine), req.SubjectScoreLines.floats())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"analysis": analysis})
}

// ClassSubjects handles POST /api/analyze_class_subjects.
func (h *AnalysisHandler) ClassSubjects(w http.ResponseWriter, r *http.Request) {
	var req classSubjectsRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	analysis, err := h.service.ClassSubjects(r.Context(), src, float64(req.ScoreLine), req.SubjectScoreLines.floats())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"analysis": analysis})
}

// ClassAssessment handles POST /api/calculate_class_assessment.
func (h *AnalysisHandler) ClassAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	src, ok := h.bind(w, r, &req, &req.schoolRef)
	if !ok {
		return
	}

	report, err := h.service.ClassAssessment(r.Context(), src, float64(req.TekongLine), float64(req.YiduanLine))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, map[string]any{"results": report})
}

// ExportExcel handles POST /api/export_excel. The workbook is rendered in
// memory first so a failure still produces a problem response.
func (h *AnalysisHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !h.decode(w, r, &req) {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, req.ExportData); err != nil {
		if errors.Is(err, exporter.ErrNothingToExport) {
			err = apierrors.ErrValidation("export_data", err.Error())
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	name := h.exporter.Filename()
	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Export download interrupted",
			slog.String("file", name),
			slog.String("error", err.Error()))
	}
}

// bind decodes and validates the body into req, then resolves ref into a
// service source. It writes the error response itself and reports whether
// the handler should continue.
func (h *AnalysisHandler) bind(w http.ResponseWriter, r *http.Request, req any, ref *schoolRef) (services.Source, bool) {
	if !h.decode(w, r, req) {
		return services.Source{}, false
	}
	src, err := h.source(*ref)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return services.Source{}, false
	}
	return src, true
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, errLineFormat):
			err = apierrors.ErrValidation("score_lines", errLineFormat.Error())
		case errors.As(err, &maxErr):
			err = apierrors.ErrPayloadTooLarge
		default:
			err = apierrors.InvalidRequestWithError(err)
		}
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

func (h *AnalysisHandler) source(ref schoolRef) (services.Source, error) {
	schoolPath, err := h.resolve("school_path", ref.SchoolPath)
	if err != nil {
		return services.Source{}, err
	}
	leaguePath, err := h.resolve("league_path", ref.LeaguePath)
	if err != nil {
		return services.Source{}, err
	}
	return services.Source{
		SchoolPath:  schoolPath,
		LeaguePath:  leaguePath,
		SchoolNames: ref.names(),
	}, nil
}

// resolve confines a client path to the upload directory.
func (h *AnalysisHandler) resolve(field, path string) (string, error) {
	resolved, err := h.store.Resolve(strings.TrimSpace(path))
	if err != nil {
		return "", apierrors.ErrValidation(field, "path must point to an uploaded workbook")
	}
	return resolved, nil
}

func respond(w http.ResponseWriter, r *http.Request, payload map[string]any) {
	payload["success"] = true
	render.JSON(w, r, payload)
}
