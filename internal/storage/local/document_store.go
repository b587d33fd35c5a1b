// Package local stores downloaded bid documents on the local filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the local document store.
type Config struct {
	// BaseDir is the directory downloaded documents land in.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// DocumentStore writes documents to the local filesystem.
type DocumentStore struct {
	baseDir string
}

// New creates the store, creating its directory when absent and verifying
// it is writable.
func New(cfg Config) (*DocumentStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("base directory path is not a directory")
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create base directory: %w", mkErr)
		}
	default:
		return nil, fmt.Errorf("stat base directory: %w", err)
	}

	probe := filepath.Join(cfg.BaseDir, ".writable_probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("remove probe file: %w", err)
	}

	return &DocumentStore{baseDir: cfg.BaseDir}, nil
}

// SaveDocument writes data under the store's directory and returns the
// full path, which callers can hand straight to the extraction engine.
// The filename must be a bare name without separators.
func (s *DocumentStore) SaveDocument(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("filename is required")
	}
	if filename != filepath.Base(filename) {
		return "", fmt.Errorf("filename %q must not contain separators", filename)
	}

	fullPath := filepath.Join(s.baseDir, filename)
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write document %s: %w", fullPath, err)
	}
	return fullPath, nil
}
