package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scoreline/internal/errors"
	"scoreline/internal/shared/testutil"
	"scoreline/pkg/contracts/domain"
)

func leagueWorkbook() *memWorkbook {
	return newMemWorkbook().sheet(LeagueSheet,
		row("考号", "学校名称", "姓名", "班级", "语文", "数学(满分150)", "数学2", "7选3", "联盟排名"),
		row("k1", "A", "Ann", "1", "90", "100", "1", "物化生", "3"),
		row("k2", "A", "Bob", "2", "", "110", "", "", ""),
		row("k3", "B", "Cid", "nan", "缺考", "", "", "", ""),
		row("k4", "B", "Dee", "1", "80", "x"),
	)
}

func TestParseLeague(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	league, err := ParseLeague(leagueWorkbook(), logger)
	require.NoError(t, err)

	assert.True(t, league.HasSchool)
	assert.True(t, league.HasName)
	assert.True(t, league.HasClass)
	assert.Equal(t, []string{"语文", "数学"}, league.Subjects)
	assert.Equal(t, []string{"学校", "姓名", "班级", "语文", "数学"}, league.Columns())

	// Cid has no score at all; Bob and Dee keep their partial scores.
	require.Len(t, league.Rows, 3)
	assert.Equal(t, domain.LeagueRow{
		School: "A", Name: "Ann", Class: "1",
		Scores: map[string]float64{"语文": 90, "数学": 100},
	}, league.Rows[0])
	assert.Equal(t, map[string]float64{"数学": 110}, league.Rows[1].Scores, "the first 数学 column wins")
	assert.Equal(t, map[string]float64{"语文": 80}, league.Rows[2].Scores)

	assert.Equal(t, []string{"A", "B"}, league.Schools())
}

func TestParseLeague_MissingSheet(t *testing.T) {
	_, err := ParseLeague(newMemWorkbook().sheet("Sheet1", row("学校")), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsReadError(err))
}

func TestParseLeague_EmptySheet(t *testing.T) {
	league, err := ParseLeague(newMemWorkbook().sheet(LeagueSheet), nil)
	require.NoError(t, err)
	assert.Empty(t, league.Rows)
	assert.Empty(t, league.Subjects)
}

func TestReadLeagueTable_File(t *testing.T) {
	path := testutil.WriteWorkbook(t, "league.xlsx",
		testutil.Sheet{Name: "说明", Rows: [][]any{{"readme"}}},
		testutil.LeagueSheet(
			[]any{"学校", "姓名", "班级", "英语", "地理", "门数"},
			[]any{"一中", "Ann", 1, 120.5, 80, 6},
			[]any{"二中", "Bob", 2, nil, nil, 6},
		),
	)

	league, err := ReadLeagueTable(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"英语", "地理"}, league.Subjects)
	require.Len(t, league.Rows, 1)
	assert.Equal(t, "一中", league.Rows[0].School)
	assert.Equal(t, 120.5, league.Rows[0].Scores["英语"])
}

func TestReadLeagueTable_MissingSheet(t *testing.T) {
	path := testutil.WriteWorkbook(t, "bad.xlsx", testutil.Sheet{Name: "Sheet1", Rows: [][]any{{"学校"}}})

	_, err := ReadLeagueTable(path, nil)
	assert.True(t, apperrors.IsReadError(err))
}

func TestReadLeagueHeader(t *testing.T) {
	h, err := ReadLeagueHeader(leagueWorkbook())
	require.NoError(t, err)
	assert.Equal(t, "数学(满分150)", h.Columns[5])
	assert.Equal(t, []string{"语文"}, h.Subjects, "only exact whitelist headers count")

	h, err = ReadLeagueHeader(newMemWorkbook().sheet(LeagueSheet, row("学校", "考号")))
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectColumns, h.Subjects)
}
