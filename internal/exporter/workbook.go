package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"scoreline/pkg/contracts/domain"
)

// Line names used in sheet titles.
const (
	LineTekong = "特控线"
	LineYiduan = "一段线"
)

// Sheet names and the Excel limit on their length.
const (
	SheetAssessment = "班级考核结果"
	SheetExcluded   = "班级考核-未纳入学生"
	maxSheetName    = 31
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNothingToExport is returned when ExportData selects no section.
var ErrNothingToExport = errors.New("no analysis results to export")

// ExportData holds previously computed results. A nil field skips its
// section; an empty non-nil one still writes the sheet header.
type ExportData struct {
	ClassAssessment         []domain.ClassAssessmentResult `json:"class_assessment"`
	ClassAssessmentExcluded []domain.ExcludedStudent       `json:"class_assessment_excluded"`
	ClassSubjectsTekong     *domain.ClassSubjectMatrix     `json:"class_subjects_tekong"`
	ClassSubjectsYiduan     *domain.ClassSubjectMatrix     `json:"class_subjects_yiduan"`
	SubjectLinesTekong      *domain.SubjectLineReport      `json:"subject_lines_tekong"`
	SubjectLinesYiduan      *domain.SubjectLineReport      `json:"subject_lines_yiduan"`
	// LeagueSubjectSummary is keyed by line name, then subject.
	LeagueSubjectSummary map[string]map[string]domain.LeagueSubjectLineResult `json:"league_subject_summary"`
}

// WorkbookExporter renders analysis results into an .xlsx workbook.
type WorkbookExporter struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		logger: logger.With(slog.String("component", "workbook_exporter")),
		now:    time.Now,
	}
}

// Filename returns the download name for an export made now.
func (e *WorkbookExporter) Filename() string {
	return fmt.Sprintf("成绩分析结果_%s.xlsx", e.now().Format("20060102_150405"))
}

// sheetWriter appends sheets to one workbook.
type sheetWriter struct {
	f      *excelize.File
	header int
	used   map[string]bool
	logger *slog.Logger
}

func (w *sheetWriter) write(name string, header []string, rows [][]any) error {
	name = sheetName(name)
	if w.used[name] {
		w.logger.Warn("Duplicate sheet skipped", slog.String("sheet", name))
		return nil
	}

	if len(w.used) == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	w.used[name] = true

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := w.f.SetCellStyle(name, "A1", last, w.header); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", name, err)
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, name, err)
		}
	}
	return nil
}

// Write renders data as a workbook to out.
func (e *WorkbookExporter) Write(out io.Writer, data ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w := &sheetWriter{f: f, header: headerStyle, used: map[string]bool{}, logger: e.logger}

	if data.ClassAssessment != nil {
		if err := w.write(SheetAssessment, assessmentHeader, assessmentRows(data.ClassAssessment)); err != nil {
			return err
		}
	}
	if data.ClassAssessmentExcluded != nil {
		if err := w.write(SheetExcluded, []string{"班级", "姓名", "原因"}, excludedRows(data.ClassAssessmentExcluded)); err != nil {
			return err
		}
	}

	for _, m := range []struct {
		line   string
		matrix *domain.ClassSubjectMatrix
	}{
		{LineTekong, data.ClassSubjectsTekong},
		{LineYiduan, data.ClassSubjectsYiduan},
	} {
		if m.matrix == nil {
			continue
		}
		header, rows := matrixTable(m.matrix)
		if err := w.write(m.line+"-班级各科过线情况", header, rows); err != nil {
			return err
		}
	}

	for _, s := range []struct {
		line   string
		report *domain.SubjectLineReport
	}{
		{LineTekong, data.SubjectLinesTekong},
		{LineYiduan, data.SubjectLinesYiduan},
	} {
		if s.report == nil {
			continue
		}
		for _, subject := range domain.SortSubjects(slices.Sorted(maps.Keys(s.report.Subjects))) {
			stats := s.report.Subjects[subject].ClassStats
			if len(stats) == 0 {
				continue
			}
			if err := w.write(s.line+"-"+subject, []string{"班级", "总人数", "过线人数", "过线率(%)"}, subjectLineRows(stats)); err != nil {
				return err
			}
		}
	}

	lineNames := slices.Sorted(maps.Keys(data.LeagueSubjectSummary))
	for _, line := range lineNames {
		header, rows := leagueSummaryTable(data.LeagueSubjectSummary[line])
		if len(rows) == 0 {
			continue
		}
		if err := w.write(line+"-校际学科汇总", header, rows); err != nil {
			return err
		}
	}

	if len(w.used) == 0 {
		return ErrNothingToExport
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Workbook exported", slog.Int("sheets", len(w.used)))
	return nil
}

var assessmentHeader = []string{"排名", "班级", "总人数", "特控过线人数", "特控率(%)", "一段过线人数", "一段率(%)", "考核分"}

func assessmentRows(results []domain.ClassAssessmentResult) [][]any {
	rows := make([][]any, 0, len(results))
	for _, r := range results {
		rows = append(rows, []any{
			r.Rank, r.ClassName, r.TotalStudents,
			r.TekongPassed, r.TekongRate,
			r.YiduanPassed, r.YiduanRate,
			r.AssessmentScore,
		})
	}
	return rows
}

func excludedRows(students []domain.ExcludedStudent) [][]any {
	rows := make([][]any, 0, len(students))
	for _, s := range students {
		rows = append(rows, []any{s.Class, s.Name, s.Reason})
	}
	return rows
}

// matrixTable lays the matrix out with one row per class and a passed/rate
// column pair per subject. Missing cells read as zero.
func matrixTable(m *domain.ClassSubjectMatrix) ([]string, [][]any) {
	subjects := domain.SortSubjects(slices.Sorted(maps.Keys(m.SubjectLines)))
	classes := slices.Sorted(maps.Keys(m.Classes))

	header := []string{"班级"}
	for _, s := range subjects {
		header = append(header, s+"_过线人数", s+"_过线率(%)")
	}

	rows := make([][]any, 0, len(classes))
	for _, class := range classes {
		row := []any{class}
		for _, s := range subjects {
			cell := m.Classes[class][s]
			row = append(row, cell.PassedCount, cell.PassRate)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func subjectLineRows(stats []domain.ClassPassCount) [][]any {
	rows := make([][]any, 0, len(stats))
	for _, c := range stats {
		rows = append(rows, []any{c.ClassName, c.TotalStudents, c.PassedCount, c.PassRate})
	}
	return rows
}

// leagueSummaryTable has one row per school and one pass-rate column per
// subject. A school absent from a subject leaves the cell empty.
func leagueSummaryTable(subjects map[string]domain.LeagueSubjectLineResult) ([]string, [][]any) {
	ordered := domain.SortSubjects(slices.Sorted(maps.Keys(subjects)))

	rates := make(map[string]map[string]float64)
	for _, subject := range ordered {
		for _, s := range subjects[subject].SchoolStats {
			name := strings.TrimSpace(s.SchoolName)
			if name == "" {
				continue
			}
			if rates[name] == nil {
				rates[name] = map[string]float64{}
			}
			if _, seen := rates[name][subject]; !seen {
				rates[name][subject] = s.PassRate
			}
		}
	}

	schools := slices.Sorted(maps.Keys(rates))

	header := []string{"学校"}
	for _, s := range ordered {
		header = append(header, s+"_过线率(%)")
	}

	rows := make([][]any, 0, len(schools))
	for _, school := range schools {
		row := []any{school}
		for _, subject := range ordered {
			if rate, ok := rates[school][subject]; ok {
				row = append(row, rate)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

// sheetName strips characters Excel forbids and truncates to 31 runes.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
