package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/pkg/contracts/domain"
)

func leagueRow(school, class string, scores map[string]float64) domain.LeagueRow {
	return domain.LeagueRow{School: school, Name: school + class, Class: class, Scores: scores}
}

func scenarioLeague() *domain.LeagueTable {
	return &domain.LeagueTable{
		Subjects:  []string{"语文", "数学"},
		HasSchool: true, HasName: true, HasClass: true,
		Rows: []domain.LeagueRow{
			leagueRow("A", "1", map[string]float64{"语文": 60, "数学": 40}),
			leagueRow("A", "2", map[string]float64{"语文": 120, "数学": 80}),
			leagueRow("B", "1", map[string]float64{"语文": 150}),
			leagueRow("C", "1", map[string]float64{"语文": 0}),
		},
	}
}

func TestAnalyzeLeague(t *testing.T) {
	got := AnalyzeLeague(scenarioLeague(), []string{"A"}, []float64{120}, "")
	res, ok := got["line_120.0"]
	require.True(t, ok)

	// C's only student has a zero total and is left out of the league
	assert.Equal(t, 3, res.LeagueTotal)
	assert.Equal(t, 2, res.LeaguePassedCount)
	assert.Equal(t, 66.67, res.LeaguePassRate)

	require.Len(t, res.SchoolStats, 2)
	assert.Equal(t, domain.SchoolLineStat{SchoolName: "B", TotalStudents: 1, PassedCount: 1, PassRate: 100, AverageScore: 150}, res.SchoolStats[0])
	assert.Equal(t, domain.SchoolLineStat{SchoolName: "A", TotalStudents: 2, PassedCount: 1, PassRate: 50, AverageScore: 150}, res.SchoolStats[1])

	assert.Equal(t, "A", res.DisplayName)
	assert.Equal(t, 2, res.SchoolTotal)
	assert.Equal(t, 1, res.SchoolPassedCount)
	assert.Equal(t, 50.0, res.SchoolPassRate)
	require.NotNil(t, res.SchoolRank)
	assert.Equal(t, 2, *res.SchoolRank)
	assert.Equal(t, 150.0, res.SchoolAverageScore)
	assert.Equal(t, map[string]int{"2": 1}, res.SchoolClassDistribution)
	assert.Equal(t, []domain.ClassPassStat{
		{ClassName: "2", TotalStudents: 1, PassedCount: 1, PassRate: 100, AverageScore: 200},
		{ClassName: "1", TotalStudents: 1, PassedCount: 0, PassRate: 0, AverageScore: 100},
	}, res.SchoolClassPassStats)
}

func TestAnalyzeLeague_SchoolAliases(t *testing.T) {
	league := scenarioLeague()
	league.Rows = append(league.Rows, leagueRow("A校", "3", map[string]float64{"语文": 130}))

	res := AnalyzeLeague(league, []string{"A", "A校"}, []float64{120}, "一中")["line_120.0"]

	assert.Equal(t, "一中", res.DisplayName)
	assert.Equal(t, 3, res.SchoolTotal)
	assert.Equal(t, 2, res.SchoolPassedCount)
	require.NotNil(t, res.SchoolRank)
	// A校 ties B at 100% and keeps its later position; the best alias counts
	assert.Equal(t, 2, *res.SchoolRank)
}

func TestAnalyzeLeague_AbsentSchool(t *testing.T) {
	res := AnalyzeLeague(scenarioLeague(), []string{"Z"}, []float64{100}, "")["line_100.0"]

	assert.Nil(t, res.SchoolRank)
	assert.Zero(t, res.SchoolTotal)
	assert.Zero(t, res.SchoolPassRate)
	assert.Zero(t, res.SchoolAverageScore)
	assert.Empty(t, res.SchoolClassPassStats)
	assert.Len(t, res.SchoolStats, 2)
}

func TestAnalyzeLeague_PassRateMonotonic(t *testing.T) {
	lines := []float64{50, 100, 120, 150, 151, 400}
	got := AnalyzeLeague(scenarioLeague(), []string{"A"}, lines, "")

	prev := 101.0
	for _, line := range lines {
		res := got[domain.LineKey(line)]
		assert.LessOrEqual(t, res.LeaguePassRate, prev)
		prev = res.LeaguePassRate
	}
}

func TestAnalyzeLeagueSubjectLines(t *testing.T) {
	lines := map[string]map[string]float64{
		"特控线": {"语文": 100, "物理": 60},
		"一段线": {"化学": 50},
	}

	got := AnalyzeLeagueSubjectLines(scenarioLeague(), []string{"A"}, lines)

	require.Contains(t, got, "特控线")
	assert.NotContains(t, got, "一段线", "a line with no carried subject is dropped")
	assert.NotContains(t, got["特控线"], "物理")

	chinese := got["特控线"]["语文"]
	assert.Equal(t, 100.0, chinese.ScoreLine)
	assert.Equal(t, []domain.SchoolSubjectStat{
		{SchoolName: "B", TotalStudents: 1, PassedCount: 1, PassRate: 100},
		{SchoolName: "A", TotalStudents: 2, PassedCount: 1, PassRate: 50},
		{SchoolName: "C", TotalStudents: 1, PassedCount: 0, PassRate: 0},
	}, chinese.SchoolStats)
	require.NotNil(t, chinese.SchoolRank)
	assert.Equal(t, 2, *chinese.SchoolRank)
	assert.Equal(t, 50.0, chinese.SchoolPassRate)
	assert.Equal(t, 2, chinese.SchoolTotal)
	assert.Equal(t, 1, chinese.SchoolPassed)
}
