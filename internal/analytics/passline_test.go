package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/pkg/contracts/domain"
)

func TestAnalyzePerSubject(t *testing.T) {
	data := school(
		subject("数学", true, sr("1", "Ann", 90), sr("1", "Bob", 80), sr("2", "Cid", 71), sr("", "Dee", 60)),
		subject("语文", false),
	)

	got := AnalyzePerSubject(data)
	require.Len(t, got, 2)

	math := got["数学"]
	assert.Equal(t, 4, math.TotalStudents)
	assert.Equal(t, 75.25, math.AverageScore)
	assert.Equal(t, 90.0, math.MaxScore)
	assert.Equal(t, 60.0, math.MinScore)
	assert.Equal(t, 75.5, math.MedianScore)
	assert.Equal(t, map[string]domain.ClassScoreStat{
		"1": {Count: 2, Average: 85, Max: 90, Min: 80},
		"2": {Count: 1, Average: 71, Max: 71, Min: 71},
	}, math.ClassStats, "blank classes are not reported")

	// an empty subject keeps its key with zero statistics
	assert.Equal(t, domain.SubjectStats{ClassStats: map[string]domain.ClassScoreStat{}}, got["语文"])
}

func TestAnalyzeSubjectsByClass(t *testing.T) {
	data := school(subject("英语", true,
		sr("1", "Ann", 60), sr("2", "Bob", 90), sr("2", "Cid", 80), sr("3", "Dee", 70),
	))

	got := AnalyzeSubjectsByClass(data)["英语"]
	require.Len(t, got.ClassStats, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{
		got.ClassStats[0].ClassName, got.ClassStats[1].ClassName, got.ClassStats[2].ClassName,
	})
	assert.Equal(t, 85.0, got.ClassStats[0].MedianScore)
	assert.Equal(t, 75.0, got.AverageScore)
}

func TestAnalyzeTotalScore_SingleSubject(t *testing.T) {
	data := school(subject("math", true, sr("1", "Bob", 80), sr("1", "Ann", 90)))

	got := AnalyzeTotalScore(data, []float64{85})
	res, ok := got["line_85.0"]
	require.True(t, ok)

	assert.Equal(t, 85.0, res.ScoreLine)
	assert.Equal(t, 2, res.TotalStudents)
	assert.Equal(t, 1, res.PassedCount)
	assert.Equal(t, 50.0, res.PassRate)
	assert.Equal(t, 90.0, res.PassedAvgScore)
	assert.Equal(t, 1, res.NotPassedCount)
	assert.Equal(t, 80.0, res.NotPassedAvgScore)
	require.Len(t, res.ClassStats, 1)
	assert.Equal(t, domain.ClassLineStat{
		ClassName: "1", TotalStudents: 2, PassedCount: 1, PassRate: 50, AverageScore: 85, PassedAvgScore: 90,
	}, res.ClassStats[0])
	assert.Equal(t, map[string]int{"1": 1}, res.ClassDistribution)
}

func TestAnalyzeTotalScore_ClassOrderAndDistribution(t *testing.T) {
	data := school(
		subject("语文", true, sr("1", "Ann", 300), sr("2", "Bob", 200), sr("2", "Cid", 250), sr("", "Dee", 400)),
		subject("数学", true, sr("1", "Ann", 100), sr("2", "Bob", 100), sr("2", "Cid", 100), sr("", "Dee", 100)),
	)

	res := AnalyzeTotalScore(data, []float64{350})["line_350.0"]

	assert.Equal(t, 4, res.TotalStudents)
	assert.Equal(t, 3, res.PassedCount)
	assert.Equal(t, 75.0, res.PassRate)
	assert.Equal(t, "1", res.ClassStats[0].ClassName, "sorted by pass rate")
	assert.Equal(t, 100.0, res.ClassStats[0].PassRate)
	assert.Equal(t, 50.0, res.ClassStats[1].PassRate)
	assert.Equal(t, map[string]int{"1": 1, "2": 1}, res.ClassDistribution, "blank classes are not counted")
}

func TestAnalyzeTotalScore_NoStudents(t *testing.T) {
	got := AnalyzeTotalScore(domain.NewSchoolData(), []float64{500, 450.5})

	require.Len(t, got, 2)
	res := got["line_450.5"]
	assert.Equal(t, 450.5, res.ScoreLine)
	assert.Zero(t, res.TotalStudents)
	assert.Zero(t, res.PassRate)
	assert.Zero(t, res.PassedAvgScore)
	assert.Empty(t, res.ClassStats)
	assert.NotNil(t, res.ClassStats)
	assert.NotNil(t, res.ClassDistribution)
}

func TestAnalyzeTotals_Properties(t *testing.T) {
	totals := []domain.StudentTotal{
		{Class: "1", Total: 512}, {Class: "1", Total: 430}, {Class: "2", Total: 601},
		{Class: "2", Total: 499.5}, {Class: "3", Total: 377}, {Class: "3", Total: 540},
	}
	lines := []float64{300, 400, 450, 499.5, 500, 550, 700}

	got := AnalyzeTotals(totals, lines)

	prev := 101.0
	for _, line := range lines {
		res := got[domain.LineKey(line)]
		assert.Equal(t, res.TotalStudents, res.PassedCount+res.NotPassedCount, "line %v", line)
		assert.LessOrEqual(t, res.PassRate, prev, "pass rate must not grow with the line")
		prev = res.PassRate

		sum := 0
		for _, n := range res.ClassDistribution {
			sum += n
		}
		assert.Equal(t, res.PassedCount, sum)
	}
}
