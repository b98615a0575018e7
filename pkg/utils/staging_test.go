package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "tmp")
	sm := NewStagingManager(dir)

	if err := sm.Ensure(); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("staging dir not created: %v", err)
	}
	// Idempotent on an existing directory.
	if err := sm.Ensure(); err != nil {
		t.Errorf("Ensure() failed on existing dir: %v", err)
	}
}

func TestTempPath(t *testing.T) {
	sm := NewStagingManager(t.TempDir())

	a := sm.TempPath("csv")
	b := sm.TempPath("csv")
	if a == b {
		t.Errorf("TempPath returned the same path twice: %s", a)
	}
	if !strings.HasSuffix(a, ".csv") {
		t.Errorf("TempPath(%q) = %s, want .csv suffix", "csv", a)
	}
	if filepath.Dir(a) != sm.Dir {
		t.Errorf("TempPath outside staging dir: %s", a)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("report contents"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "report contents" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("old contents, longer"), 0644)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("dst = %q, want overwritten", data)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "out")); err == nil {
		t.Errorf("CopyFile() should fail for a missing source")
	}
}
