package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/pkg/contracts/domain"
)

func TestClassifyColumn(t *testing.T) {
	tests := []struct {
		header string
		want   ColumnKind
	}{
		{"姓名", ColumnName},
		{" 学生名字 ", ColumnName},
		{"Student Name", ColumnName},
		{"班级", ColumnClass},
		{"CLASS", ColumnClass},
		{"得分", ColumnScore},
		{"数学分数", ColumnScore},
		{"成绩", ColumnScore},
		{"Score", ColumnScore},
		{"学号", ColumnUnknown},
		{"", ColumnUnknown},
		// name keywords are checked before class keywords
		{"class name", ColumnName},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyColumn(tt.header))
		})
	}
}

func TestNormalizeSheet(t *testing.T) {
	rows := [][]string{
		row("数学成绩"),
		row("学号", "姓名", "班级", "得分", "备注分数"),
		row("1", "Ann", "1", "90", "x"),
		row("2", "Bob", "nan", "80.5"),
		row("3", "", "1", "70"),
		row("4", "Cid", "2", "缺考"),
		row("5", "Dee", " 2 ", ""),
		row("6", "Eve"),
	}

	table, err := NormalizeSheet("数学", rows, 1)
	require.NoError(t, err)

	assert.Equal(t, "数学", table.Subject)
	assert.True(t, table.HasClass)
	assert.Equal(t, []domain.ScoreRow{
		{Class: "1", Name: "Ann", Score: 90},
		{Class: "", Name: "Bob", Score: 80.5},
	}, table.Rows)
}

func TestNormalizeSheet_WithoutClassColumn(t *testing.T) {
	rows := [][]string{
		row("语文"),
		row("姓名", "成绩"),
		row("Ann", "88"),
	}

	table, err := NormalizeSheet("语文", rows, 1)
	require.NoError(t, err)
	assert.False(t, table.HasClass)
	assert.Equal(t, []domain.ScoreRow{{Name: "Ann", Score: 88}}, table.Rows)
}

func TestNormalizeSheet_MissingColumns(t *testing.T) {
	_, err := NormalizeSheet("英语", [][]string{row("x"), row("班级", "得分")}, 1)
	assert.Error(t, err)

	_, err = NormalizeSheet("英语", [][]string{row("only one row")}, 1)
	assert.Error(t, err)
}

func TestNormalizeSheet_AllRowsInvalid(t *testing.T) {
	table, err := NormalizeSheet("物理", [][]string{row(""), row("姓名", "得分"), row("Ann", "-")}, 1)
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"85", 85, true},
		{" 85.5 ", 85.5, true},
		{"-3", -3, true},
		{"1e2", 100, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseScore(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeClass(t *testing.T) {
	for in, want := range map[string]string{"nan": "", "None": "", "": "", " 3 ": "3", "高一(2)": "高一(2)"} {
		assert.Equal(t, want, normalizeClass(in), in)
	}
}
