package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-track-report/pkg/utils"
)

// ------------------- Distributor -------------------

// LatestPDFName is the fixed "latest snapshot" copy, always overwritten.
const LatestPDFName = "~Today.pdf"

// Distributor copies the finished report into each destination directory.
type Distributor struct {
	targets []string
}

// NewDistributor creates a distributor for the given destination paths.
func NewDistributor(targets []string) *Distributor {
	return &Distributor{targets: targets}
}

// VerifyTargets creates each destination directory and its csv
// subdirectory if absent.
func (d *Distributor) VerifyTargets() error {
	for _, target := range d.targets {
		if err := utils.EnsureDir(target); err != nil {
			return fmt.Errorf("failed to create target %s: %w", target, err)
		}
		if err := utils.EnsureDir(filepath.Join(target, "csv")); err != nil {
			return fmt.Errorf("failed to create csv directory under %s: %w", target, err)
		}
	}
	return nil
}

// Distribute copies the PDF under its dated name and the fixed latest name,
// and the CSV into each target's csv subdirectory, then deletes the staging
// files. Copies are not atomic across targets: a failure partway leaves
// earlier targets populated and the staging files in place for inspection.
func (d *Distributor) Distribute(date time.Time, pdfPath, csvPath string) error {
	pdfName := DatedPDFName(date)
	csvName := DatedCSVName(date)

	for _, target := range d.targets {
		if err := utils.CopyFile(pdfPath, filepath.Join(target, pdfName)); err != nil {
			return err
		}
		if err := utils.CopyFile(pdfPath, filepath.Join(target, LatestPDFName)); err != nil {
			return err
		}
		if err := utils.CopyFile(csvPath, filepath.Join(target, "csv", csvName)); err != nil {
			return err
		}
	}

	if err := os.Remove(pdfPath); err != nil {
		return fmt.Errorf("failed to remove staging PDF: %w", err)
	}
	if err := os.Remove(csvPath); err != nil {
		return fmt.Errorf("failed to remove staging CSV: %w", err)
	}
	return nil
}

// DatedPDFName returns the dated report name, e.g. "Jun 01.pdf".
func DatedPDFName(date time.Time) string {
	return date.Format("Jan 02") + ".pdf"
}

// DatedCSVName returns the dated CSV name, e.g. "jun_01.csv".
func DatedCSVName(date time.Time) string {
	return strings.ToLower(date.Format("Jan_02")) + ".csv"
}
