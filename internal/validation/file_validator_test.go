package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/internal/shared/testutil"
)

func newValidator(t *testing.T) *FileValidator {
	logger, _ := testutil.NewTestLogger(t)
	return NewFileValidator([]string{".xlsx", "XLSM", " "}, 1024, logger)
}

func TestFileValidator_ValidateName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{"xlsx", "联盟成绩.xlsx", nil},
		{"upper case extension", "scores.XLSX", nil},
		{"extension without dot in config", "scores.xlsm", nil},
		{"legacy xls", "scores.xls", ErrUnsupportedExtension},
		{"csv", "scores.csv", ErrUnsupportedExtension},
		{"no extension", "scores", ErrUnsupportedExtension},
		{"lock file", "~$scores.xlsx", ErrTemporaryFile},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileValidator_ValidateSize(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.ValidateSize(1024))
	assert.ErrorIs(t, v.ValidateSize(1025), ErrTooLarge)
	assert.ErrorIs(t, v.ValidateSize(0), ErrEmptyFile)

	unlimited := NewFileValidator([]string{".xlsx"}, 0, nil)
	assert.NoError(t, unlimited.ValidateSize(1<<40))
}

func TestFileValidator_ValidateContent(t *testing.T) {
	v := newValidator(t)

	path := testutil.WriteWorkbook(t, "ok.xlsx", testutil.SubjectSheet("语文", []any{"Ann", "1", 90}))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NoError(t, v.ValidateContent(f))

	assert.ErrorIs(t, v.ValidateContent(strings.NewReader("姓名,班级,得分\nAnn,1,90\n")), ErrNotWorkbook)
}

func TestFileValidator_ValidateFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator([]string{".xlsx"}, 10<<20, logger)

	t.Run("valid workbook", func(t *testing.T) {
		path := testutil.WriteWorkbook(t, "ok.xlsx", testutil.SubjectSheet("数学", []any{"Ann", "1", 90}))
		assert.NoError(t, v.ValidateFile(path))
	})

	t.Run("missing", func(t *testing.T) {
		err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.xlsx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dir.xlsx")
		require.NoError(t, os.Mkdir(dir, 0755))
		err := v.ValidateFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("renamed text file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fake.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))
		assert.ErrorIs(t, v.ValidateFile(path), ErrNotWorkbook)
	})
}
