package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"scoreline/pkg/contracts"
	"scoreline/pkg/contracts/domain"
)

func TestPrinter_TotalScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.TotalScore(map[string]domain.PassLineResult{
		domain.LineKey(500): {
			ScoreLine:     500,
			TotalStudents: 4,
			PassedCount:   1,
			PassRate:      25,
			ClassStats: []domain.ClassLineStat{
				{ClassName: "1", TotalStudents: 2, PassedCount: 1, PassRate: 50, AverageScore: 480.5},
			},
		},
	}, []float64{500, 450})

	out := buf.String()
	assert.Contains(t, out, "Line 500  passed 1/4 (25%)")
	assert.Contains(t, out, "480.5")
	assert.NotContains(t, out, "Line 450")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_League(t *testing.T) {
	var buf bytes.Buffer
	rank := 2
	NewPrinter(&buf, true).League(map[string]domain.LeagueLineResult{
		domain.LineKey(500): {
			ScoreLine:         500,
			LeagueTotal:       10,
			LeaguePassedCount: 3,
			LeaguePassRate:    30,
			SchoolRank:        &rank,
			SchoolStats: []domain.SchoolLineStat{
				{SchoolName: "二中", TotalStudents: 5, PassedCount: 2, PassRate: 40},
				{SchoolName: "一中", TotalStudents: 5, PassedCount: 1, PassRate: 20},
			},
		},
	}, []float64{500})

	out := buf.String()
	assert.Contains(t, out, "school rank 2")
	assert.Less(t, strings.Index(out, "二中"), strings.Index(out, "一中"))
}

func TestPrinter_AssessmentExcluded(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Assessment(domain.AssessmentReport{
		ClassResults: []domain.ClassAssessmentResult{
			{ClassName: "3", TotalStudents: 40, TekongPassed: 4, TekongRate: 10, Rank: 1, AssessmentScore: 12.5},
		},
		ExcludedStudents: []domain.ExcludedStudent{
			{Name: "Ann", Class: "3", Reason: domain.ReasonMissingSubject},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "1 students excluded")
	assert.Contains(t, out, domain.ReasonMissingSubject)
}

func TestPrinter_Matrix(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Matrix(domain.ClassSubjectMatrix{
		ScoreLine:    500,
		SubjectLines: map[string]float64{"数学": 90, "语文": 100},
		Classes: map[string]map[string]domain.MatrixCell{
			"1": {"语文": {TotalStudents: 2, PassedCount: 1, PassRate: 50}},
		},
	})

	out := buf.String()
	assert.Less(t, strings.Index(out, "语文 (100)"), strings.Index(out, "数学 (90)"))
	assert.Contains(t, out, "1/2 50%")
	assert.Contains(t, out, "-")
}

func TestPrinter_Version(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Version(contracts.VersionInfo{Version: "1.2.3", OS: "linux", Arch: "amd64"})
	assert.Contains(t, buf.String(), "1.2.3")
	assert.Contains(t, buf.String(), "linux/amd64")
}
