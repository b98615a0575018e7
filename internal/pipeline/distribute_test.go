package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stageDistributables(t *testing.T) (pdfPath, csvPath string) {
	t.Helper()
	dir := t.TempDir()
	pdfPath = filepath.Join(dir, "report.pdf")
	csvPath = filepath.Join(dir, "report.csv")
	if err := os.WriteFile(pdfPath, []byte("pdf-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("csv-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return pdfPath, csvPath
}

func TestVerifyTargetsCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	targets := []string{
		filepath.Join(base, "dropbox", "Tracking"),
		filepath.Join(base, "drive", "Tracking"),
	}
	d := NewDistributor(targets)

	if err := d.VerifyTargets(); err != nil {
		t.Fatalf("VerifyTargets() failed: %v", err)
	}
	for _, target := range targets {
		info, err := os.Stat(filepath.Join(target, "csv"))
		if err != nil || !info.IsDir() {
			t.Errorf("csv subdirectory missing under %s", target)
		}
	}
}

func TestDistributeCopiesToAllTargets(t *testing.T) {
	pdfPath, csvPath := stageDistributables(t)

	base := t.TempDir()
	targets := []string{filepath.Join(base, "a"), filepath.Join(base, "b")}
	d := NewDistributor(targets)
	if err := d.VerifyTargets(); err != nil {
		t.Fatal(err)
	}

	date := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := d.Distribute(date, pdfPath, csvPath); err != nil {
		t.Fatalf("Distribute() failed: %v", err)
	}

	for _, target := range targets {
		for _, name := range []string{"Jun 01.pdf", LatestPDFName} {
			data, err := os.ReadFile(filepath.Join(target, name))
			if err != nil {
				t.Errorf("missing %s in %s: %v", name, target, err)
			} else if string(data) != "pdf-bytes" {
				t.Errorf("wrong content for %s in %s", name, target)
			}
		}
		data, err := os.ReadFile(filepath.Join(target, "csv", "jun_01.csv"))
		if err != nil {
			t.Errorf("missing csv copy in %s: %v", target, err)
		} else if string(data) != "csv-bytes" {
			t.Errorf("wrong csv content in %s", target)
		}
	}

	if _, err := os.Stat(pdfPath); !os.IsNotExist(err) {
		t.Errorf("staging PDF not removed")
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Errorf("staging CSV not removed")
	}
}

func TestDistributeFailureKeepsStagingFiles(t *testing.T) {
	pdfPath, csvPath := stageDistributables(t)

	good := filepath.Join(t.TempDir(), "good")
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	d := NewDistributor([]string{good, missing})
	// Only the first target exists; VerifyTargets is deliberately skipped
	// for the second so the copy into it fails.
	if err := NewDistributor([]string{good}).VerifyTargets(); err != nil {
		t.Fatal(err)
	}

	date := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := d.Distribute(date, pdfPath, csvPath); err == nil {
		t.Fatal("Distribute() should fail when a target is missing")
	}

	if _, err := os.Stat(pdfPath); err != nil {
		t.Errorf("staging PDF removed despite failure")
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("staging CSV removed despite failure")
	}
	if _, err := os.Stat(filepath.Join(good, "Jun 01.pdf")); err != nil {
		t.Errorf("copy into first target missing: %v", err)
	}
}

func TestDatedNames(t *testing.T) {
	date := time.Date(2023, 12, 9, 0, 0, 0, 0, time.UTC)
	if got := DatedPDFName(date); got != "Dec 09.pdf" {
		t.Errorf("DatedPDFName = %q", got)
	}
	if got := DatedCSVName(date); got != "dec_09.csv" {
		t.Errorf("DatedCSVName = %q", got)
	}
}
