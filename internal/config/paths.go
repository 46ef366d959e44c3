package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// BaseDir anchors relative paths. Empty means the working directory.
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	UploadDir string `yaml:"upload_dir" envconfig:"UPLOAD_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	// StaticDir, when set, holds a web client served at /.
	StaticDir string `yaml:"static_dir" envconfig:"STATIC_DIR"`
}

// Resolve returns p with every directory made absolute.
func (p PathsConfig) Resolve() (PathsConfig, error) {
	base := p.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return p, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	abs := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	return PathsConfig{
		BaseDir:   base,
		UploadDir: abs(p.UploadDir),
		LogsDir:   abs(p.LogsDir),
		StaticDir: abs(p.StaticDir),
	}, nil
}

// EnsureDirectories creates the upload and log directories if they don't exist
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.UploadDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
