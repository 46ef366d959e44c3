package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/pkg/contracts/domain"
)

func TestAnalyzeSubjectLines(t *testing.T) {
	data := school(
		subject("数学", true, sr("1", "Ann", 120), sr("1", "Bob", 80), sr("2", "Cid", 100), sr("2", "Dee", 110)),
		subject("物理", false, sr("", "Ann", 70), sr("", "Bob", 50)),
		subject("化学", true),
	)
	lines := map[string]float64{"数学": 100, "物理": 60, "化学": 50, "生物": 60}

	got := AnalyzeSubjectLines(data, lines)

	require.Len(t, got, 2, "empty and absent subjects are skipped")

	math := got["数学"]
	assert.Equal(t, 100.0, math.ScoreLine)
	assert.Equal(t, 4, math.TotalStudents)
	assert.Equal(t, 3, math.PassedCount)
	assert.Equal(t, 75.0, math.PassRate)
	assert.Equal(t, []domain.ClassPassCount{
		{ClassName: "2", TotalStudents: 2, PassedCount: 2, PassRate: 100},
		{ClassName: "1", TotalStudents: 2, PassedCount: 1, PassRate: 50},
	}, math.ClassStats)

	physics := got["物理"]
	assert.Equal(t, 50.0, physics.PassRate)
	assert.NotNil(t, physics.ClassStats)
	assert.Empty(t, physics.ClassStats)
}

func TestSubjectLineReport(t *testing.T) {
	data := school(subject("语文", true, sr("1", "Ann", 90)))

	rep := SubjectLineReport(data, 520, map[string]float64{"语文": 90})
	assert.Equal(t, 520.0, rep.TotalScoreLine)
	assert.Equal(t, map[string]float64{"语文": 90}, rep.SubjectLines)
	assert.Equal(t, 1, rep.Subjects["语文"].PassedCount)

	empty := SubjectLineReport(data, 0, nil)
	assert.NotNil(t, empty.SubjectLines)
	assert.Empty(t, empty.Subjects)
}
