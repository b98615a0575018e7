package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StagingManager handles the temp directory that holds in-flight report
// files (CSV, PNG, HTML, PDF) before distribution.
type StagingManager struct {
	Dir string
}

// NewStagingManager creates a staging manager rooted at dir.
func NewStagingManager(dir string) *StagingManager {
	return &StagingManager{Dir: dir}
}

// Ensure creates the staging directory if it does not exist.
func (sm *StagingManager) Ensure() error {
	if err := os.MkdirAll(sm.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	return nil
}

// TempPath returns a fresh randomly-named path in the staging directory
// with the given extension, e.g. TempPath("csv").
func (sm *StagingManager) TempPath(ext string) string {
	return filepath.Join(sm.Dir, fmt.Sprintf("%s.%s", uuid.New().String(), ext))
}

// CopyFile copies src to dst, overwriting dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// EnsureDir creates dir (and parents) if absent.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
