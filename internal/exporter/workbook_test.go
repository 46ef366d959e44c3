package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scoreline/internal/shared/testutil"
	"scoreline/pkg/contracts/domain"
)

func newExporter(t *testing.T) *WorkbookExporter {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	e := NewWorkbookExporter(logger)
	e.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	return e
}

func render(t *testing.T, data ExportData) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newExporter(t).Write(&buf, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func fullExport() ExportData {
	rank := 1
	return ExportData{
		ClassAssessment: []domain.ClassAssessmentResult{
			{ClassName: "1", TotalStudents: 40, TekongPassed: 10, TekongRate: 25, YiduanPassed: 20, YiduanRate: 50, AssessmentScore: 137.5, Rank: 1},
			{ClassName: "2", TotalStudents: 38, TekongPassed: 5, TekongRate: 13.16, YiduanPassed: 12, YiduanRate: 31.58, AssessmentScore: 76.32, Rank: 2},
		},
		ClassAssessmentExcluded: []domain.ExcludedStudent{
			{Name: "Ann", Class: "2", Reason: domain.ReasonTotalMissing},
		},
		ClassSubjectsTekong: &domain.ClassSubjectMatrix{
			ScoreLine:    500,
			SubjectLines: map[string]float64{"数学": 100, "语文": 105},
			Classes: map[string]map[string]domain.MatrixCell{
				"1": {
					"语文": {TotalStudents: 40, PassedCount: 12, PassRate: 30},
					"数学": {TotalStudents: 40, PassedCount: 8, PassRate: 20},
				},
				"2": {
					"语文": {TotalStudents: 38, PassedCount: 6, PassRate: 15.79},
				},
			},
		},
		SubjectLinesYiduan: &domain.SubjectLineReport{
			TotalScoreLine: 450,
			SubjectLines:   map[string]float64{"语文": 95, "物理": 60},
			Subjects: map[string]domain.SubjectLineResult{
				"语文": {
					ScoreLine: 95, TotalStudents: 78, PassedCount: 30, PassRate: 38.46,
					ClassStats: []domain.ClassPassCount{
						{ClassName: "1", TotalStudents: 40, PassedCount: 18, PassRate: 45},
						{ClassName: "2", TotalStudents: 38, PassedCount: 12, PassRate: 31.58},
					},
				},
				"物理": {ScoreLine: 60},
			},
		},
		LeagueSubjectSummary: map[string]map[string]domain.LeagueSubjectLineResult{
			LineTekong: {
				"语文": {
					ScoreLine: 105,
					SchoolStats: []domain.SchoolSubjectStat{
						{SchoolName: "B校", TotalStudents: 50, PassedCount: 20, PassRate: 40},
						{SchoolName: "A校", TotalStudents: 60, PassedCount: 18, PassRate: 30},
					},
					SchoolRank: &rank,
				},
				"数学": {
					ScoreLine: 100,
					SchoolStats: []domain.SchoolSubjectStat{
						{SchoolName: "B校", TotalStudents: 50, PassedCount: 10, PassRate: 20},
					},
				},
			},
		},
	}
}

func TestWorkbookExporter_Write(t *testing.T) {
	f := render(t, fullExport())

	assert.Equal(t, []string{
		SheetAssessment,
		SheetExcluded,
		"特控线-班级各科过线情况",
		"一段线-语文",
		"特控线-校际学科汇总",
	}, f.GetSheetList(), "subjects without class stats get no sheet")

	t.Run("assessment", func(t *testing.T) {
		rows, err := f.GetRows(SheetAssessment)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, assessmentHeader, rows[0])
		assert.Equal(t, []string{"1", "1", "40", "10", "25", "20", "50", "137.5"}, rows[1])
		assert.Equal(t, "2", rows[2][1])
	})

	t.Run("excluded", func(t *testing.T) {
		rows, err := f.GetRows(SheetExcluded)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"班级", "姓名", "原因"}, rows[0])
		assert.Equal(t, []string{"2", "Ann", string(domain.ReasonTotalMissing)}, rows[1])
	})

	t.Run("matrix fills missing cells with zero", func(t *testing.T) {
		sheet := "特控线-班级各科过线情况"
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"班级", "语文_过线人数", "语文_过线率(%)", "数学_过线人数", "数学_过线率(%)"}, rows[0])
		assert.Equal(t, []string{"1", "12", "30", "8", "20"}, rows[1])
		assert.Equal(t, []string{"2", "6", "15.79", "0", "0"}, rows[2])
	})

	t.Run("subject line sheet", func(t *testing.T) {
		rows, err := f.GetRows("一段线-语文")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"班级", "总人数", "过线人数", "过线率(%)"}, rows[0])
		assert.Equal(t, []string{"1", "40", "18", "45"}, rows[1])
	})

	t.Run("league summary", func(t *testing.T) {
		sheet := "特控线-校际学科汇总"
		assert.Equal(t, "学校", cell(t, f, sheet, "A1"))
		assert.Equal(t, "语文_过线率(%)", cell(t, f, sheet, "B1"))
		assert.Equal(t, "数学_过线率(%)", cell(t, f, sheet, "C1"))

		assert.Equal(t, "A校", cell(t, f, sheet, "A2"))
		assert.Equal(t, "30", cell(t, f, sheet, "B2"))
		assert.Empty(t, cell(t, f, sheet, "C2"), "school absent from the subject")

		assert.Equal(t, "B校", cell(t, f, sheet, "A3"))
		assert.Equal(t, "40", cell(t, f, sheet, "B3"))
		assert.Equal(t, "20", cell(t, f, sheet, "C3"))
	})

	t.Run("header is bold", func(t *testing.T) {
		styleID, err := f.GetCellStyle(SheetAssessment, "A1")
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.Font)
		assert.True(t, style.Font.Bold)
	})
}

func TestWorkbookExporter_WriteEmptySections(t *testing.T) {
	f := render(t, ExportData{ClassAssessment: []domain.ClassAssessmentResult{}})

	assert.Equal(t, []string{SheetAssessment}, f.GetSheetList())
	rows, err := f.GetRows(SheetAssessment)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestWorkbookExporter_NothingToExport(t *testing.T) {
	var buf bytes.Buffer
	e := newExporter(t)

	assert.ErrorIs(t, e.Write(&buf, ExportData{}), ErrNothingToExport)
	assert.ErrorIs(t, e.Write(&buf, ExportData{
		SubjectLinesTekong: &domain.SubjectLineReport{Subjects: map[string]domain.SubjectLineResult{"语文": {}}},
	}), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestWorkbookExporter_Filename(t *testing.T) {
	assert.Equal(t, "成绩分析结果_20250601_083000.xlsx", newExporter(t).Filename())
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "特控线-语文", sheetName("特控线-语文"))
	assert.Equal(t, "a_b_c_d", sheetName("a/b:c?d"))

	long := sheetName("一段线-" + strings.Repeat("物", 40))
	assert.Len(t, []rune(long), maxSheetName)
	assert.True(t, strings.HasPrefix(long, "一段线-物"))
}
