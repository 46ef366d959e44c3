package validation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Upload rejections.
var (
	ErrUnsupportedExtension = errors.New("unsupported workbook extension")
	ErrTooLarge             = errors.New("workbook exceeds the upload size limit")
	ErrEmptyFile            = errors.New("workbook is empty")
	ErrNotWorkbook          = errors.New("file content is not an OOXML workbook")
	ErrTemporaryFile        = errors.New("file is an Excel lock file")
)

// Excel OOXML workbooks are zip containers; mimetype reports the precise
// spreadsheet type when the first entries give it away, plain zip otherwise.
var workbookMIMEs = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/zip",
}

// FileValidator checks uploaded and on-disk workbooks.
type FileValidator struct {
	allowed  []string
	maxBytes int64
	logger   *slog.Logger
}

// NewFileValidator creates a validator accepting the given extensions (with
// leading dot, case-insensitive) up to maxBytes.
func NewFileValidator(allowed []string, maxBytes int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	normalized := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			normalized = append(normalized, ext)
		}
	}
	return &FileValidator{
		allowed:  normalized,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ValidateName checks the client-supplied file name.
func (v *FileValidator) ValidateName(name string) error {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejected temporary Excel file", slog.String("file", name))
		return fmt.Errorf("%s: %w", base, ErrTemporaryFile)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !slices.Contains(v.allowed, ext) {
		v.logger.Warn("Rejected workbook extension",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("%s (extension %q): %w", base, ext, ErrUnsupportedExtension)
	}
	return nil
}

// ValidateSize checks an upload's declared size.
func (v *FileValidator) ValidateSize(size int64) error {
	if size == 0 {
		return ErrEmptyFile
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return fmt.Errorf("%d bytes > %d: %w", size, v.maxBytes, ErrTooLarge)
	}
	return nil
}

// ValidateContent sniffs r and rejects anything that is not a zip-based
// workbook.
func (v *FileValidator) ValidateContent(r io.Reader) error {
	mime, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("failed to detect content type: %w", err)
	}
	for m := mime; m != nil; m = m.Parent() {
		if slices.ContainsFunc(workbookMIMEs, m.Is) {
			return nil
		}
	}
	v.logger.Warn("Rejected workbook content", slog.String("mime", mime.String()))
	return fmt.Errorf("detected %s: %w", mime.String(), ErrNotWorkbook)
}

// ValidateFile checks that path is an existing, readable workbook with an
// accepted extension.
func (v *FileValidator) ValidateFile(path string) error {
	if err := v.ValidateName(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if err := v.ValidateSize(info.Size()); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	defer file.Close()

	if err := v.ValidateContent(file); err != nil {
		return err
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
