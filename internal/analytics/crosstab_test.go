package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scoreline/pkg/contracts/domain"
)

func TestAnalyzeClassSubjectMatrix(t *testing.T) {
	data := school(
		subject("语文", true, sr("2", "Ann", 95), sr("1", "Bob", 80), sr("1", "Cid", 100)),
		subject("数学", true, sr("1", "Bob", 130)),
		subject("英语", true, sr("3", "Dee", 100)),
		subject("物理", false, sr("", "Ann", 70)),
	)
	lines := map[string]float64{"语文": 90, "数学": 120, "物理": 60}

	m := AnalyzeClassSubjectMatrix(data, lines)

	assert.Equal(t, lines, m.SubjectLines)
	assert.Equal(t, map[string]map[string]domain.MatrixCell{
		"1": {
			"语文": {TotalStudents: 2, PassedCount: 1, PassRate: 50},
			"数学": {TotalStudents: 1, PassedCount: 1, PassRate: 100},
		},
		"2": {
			"语文": {TotalStudents: 1, PassedCount: 1, PassRate: 100},
		},
		// 英语 has no line, so class 3 has a row but no cells
		"3": {},
	}, m.Classes)
}

func TestAnalyzeClassSubjectMatrix_NoLines(t *testing.T) {
	m := AnalyzeClassSubjectMatrix(school(subject("语文", true, sr("1", "Ann", 95))), nil)
	assert.NotNil(t, m.SubjectLines)
	assert.Equal(t, map[string]map[string]domain.MatrixCell{"1": {}}, m.Classes)
}

func TestClasses(t *testing.T) {
	data := school(
		subject("语文", true, sr("10", "Ann", 1), sr("2", "Bob", 1), sr("", "Cid", 1)),
		subject("数学", true, sr("2", "Bob", 1), sr("1", "Dee", 1)),
		subject("物理", false, sr("9", "Eve", 1)),
	)
	assert.Equal(t, []string{"1", "10", "2"}, Classes(data))
	assert.Empty(t, Classes(domain.NewSchoolData()))
}
