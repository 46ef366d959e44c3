package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/internal/shared/testutil"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	m, err := NewManager(filepath.Join(t.TempDir(), "uploads"), logger)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	return m
}

func TestManager_Save(t *testing.T) {
	m := newManager(t)

	path, err := m.Save(KindLeague, "联盟 成绩.xlsx", strings.NewReader("payload"))
	require.NoError(t, err)

	assert.Equal(t, m.Dir(), filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "league_20250601_083000_"), base)
	assert.True(t, strings.HasSuffix(base, "_联盟_成绩.xlsx"), base)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	again, err := m.Save(KindLeague, "联盟 成绩.xlsx", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, path, again, "uploads in the same second do not collide")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestManager_SaveRemovesPartialFile(t *testing.T) {
	m := newManager(t)

	_, err := m.Save(KindSchool, "a.xlsx", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManager_Resolve(t *testing.T) {
	m := newManager(t)
	inside := filepath.Join(m.Dir(), "league_x.xlsx")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"absolute inside", inside, inside, false},
		{"bare name", "league_x.xlsx", inside, false},
		{"empty", "", "", false},
		{"parent escape", "../secret.xlsx", "", true},
		{"absolute outside", filepath.Join(filepath.Dir(m.Dir()), "x.xlsx"), "", true},
		{"directory itself", m.Dir(), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideUploadDir)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_Exists(t *testing.T) {
	m := newManager(t)
	path, err := m.Save(KindSchool, "s.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	assert.True(t, m.Exists(path))
	assert.False(t, m.Exists(filepath.Join(m.Dir(), "nope.xlsx")))
	assert.False(t, m.Exists(m.Dir()))
}

func TestManager_Remove(t *testing.T) {
	m := newManager(t)
	path, err := m.Save(KindLeague, "l.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, m.Remove(path))
	assert.False(t, m.Exists(path))
	assert.NoError(t, m.Remove(path), "removing twice is not an error")
	assert.ErrorIs(t, m.Remove("../outside.xlsx"), ErrOutsideUploadDir)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"scores.xlsx":            "scores.xlsx",
		"../../etc/passwd":       "passwd",
		`C:\Users\a\高三 一模.xlsx`: "高三_一模.xlsx",
		"...":                    "upload.xlsx",
		"a b&c.xlsm":             "a_b_c.xlsm",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}
