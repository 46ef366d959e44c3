package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Kind tags an uploaded workbook.
type Kind string

const (
	KindLeague Kind = "league"
	KindSchool Kind = "school"
)

// ErrOutsideUploadDir is returned for paths that escape the upload directory.
var ErrOutsideUploadDir = errors.New("path is outside the upload directory")

// Manager stores uploaded workbooks under one directory.
type Manager struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// NewManager creates a manager rooted at uploadDir, creating it if needed.
func NewManager(uploadDir string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Manager{
		dir:    abs,
		now:    time.Now,
		logger: logger.With(slog.String("component", "upload_store")),
	}, nil
}

// Dir returns the absolute upload directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Save writes r to a new file named <kind>_<timestamp>_<id>_<name> and
// returns its absolute path. A failed write leaves no partial file.
func (m *Manager) Save(kind Kind, name string, r io.Reader) (string, error) {
	filename := fmt.Sprintf("%s_%s_%s_%s",
		kind,
		m.now().Format("20060102_150405"),
		uuid.NewString()[:8],
		SanitizeName(name))
	path := filepath.Join(m.dir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	m.logger.Info("Upload saved",
		slog.String("kind", string(kind)),
		slog.String("path", path),
		slog.Int64("size_bytes", n))
	return path, nil
}

// Resolve maps a client-supplied path to an absolute path inside the upload
// directory. Bare file names are taken relative to the directory.
func (m *Manager) Resolve(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(m.dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		m.logger.Warn("Rejected path outside upload directory", slog.String("path", path))
		return "", fmt.Errorf("%s: %w", path, ErrOutsideUploadDir)
	}
	return path, nil
}

// Remove deletes an upload. Paths outside the upload directory are refused.
func (m *Manager) Remove(path string) error {
	resolved, err := m.Resolve(path)
	if err != nil {
		return err
	}
	if resolved == "" {
		return nil
	}
	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	m.logger.Info("Upload removed", slog.String("path", resolved))
	return nil
}

// Exists reports whether path is an existing regular file.
func (m *Manager) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SanitizeName keeps the base name's letters, digits, dots, dashes and
// underscores, replacing everything else with an underscore. CJK names
// survive.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "upload.xlsx"
	}
	return out
}
