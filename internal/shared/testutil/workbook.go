package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet describes one worksheet to write. Rows hold raw cell values; nil
// leaves the cell empty.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves sheets, in order, to a new .xlsx file in t.TempDir()
// and returns its path.
func WriteWorkbook(t *testing.T, filename string, sheets ...Sheet) string {
	t.Helper()
	require.NotEmpty(t, sheets, "a workbook needs at least one sheet")

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sh.Name))
		} else {
			_, err := f.NewSheet(sh.Name)
			require.NoError(t, err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sh.Name, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, f.SaveAs(path))
	return path
}

// SubjectSheet builds a sheet in the multi-sheet school layout: a grouping
// row, then a 姓名/班级/得分 header, then one row per student.
func SubjectSheet(subject string, rows ...[]any) Sheet {
	all := [][]any{
		{subject + "成绩"},
		{"姓名", "班级", "得分"},
	}
	return Sheet{Name: subject, Rows: append(all, rows...)}
}

// LeagueSheet builds the 分数 sheet of a league workbook from a header and
// data rows.
func LeagueSheet(header []any, rows ...[]any) Sheet {
	return Sheet{Name: "分数", Rows: append([][]any{header}, rows...)}
}
