// =============================================================================
// Sales Summary Report - File Management Utilities
// =============================================================================
//
// This module handles the files the tool writes:
//   - the zip archive holding one "<site_id>.txt" entry per report
//   - the batch summary printed (and optionally saved) after a run
//
// ARCHIVE NAMING:
//   The archive is "<archive_name>.zip" in the output directory. When that
//   name is taken the first free "<archive_name>1.zip", "<archive_name>2.zip",
//   ... is used. An existing archive is never overwritten.
//
// All file access goes through an afero.Fs so tests can run in memory.
//
// =============================================================================

package utils

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/spf13/afero"
)

// maxArchiveAttempts bounds the collision counter.
const maxArchiveAttempts = 10000

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes report archives into an output directory.
type FileManager struct {
	// OutputDir is the directory archives are written to.
	OutputDir string

	// ArchiveName is the archive base name, without ".zip".
	ArchiveName string

	fs  afero.Fs
	now func() time.Time
}

// NewFileManager creates a new FileManager instance.
func NewFileManager(fs afero.Fs, outputDir, archiveName string) *FileManager {
	return &FileManager{
		OutputDir:   outputDir,
		ArchiveName: archiveName,
		fs:          fs,
		now:         time.Now,
	}
}

// EnsureDirectories creates the output directory if it does not exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := fm.fs.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// ArchiveCandidate returns the n-th archive path: n == 0 is the plain name,
// n > 0 appends the counter.
func (fm *FileManager) ArchiveCandidate(n int) string {
	name := fm.ArchiveName
	if n > 0 {
		name = fmt.Sprintf("%s%d", fm.ArchiveName, n)
	}
	return filepath.Join(fm.OutputDir, name+".zip")
}

// WriteBundle writes the successful reports of bundle as a zip archive and
// returns its path. Entries are named "<site_id>.txt" and sorted by site id.
func (fm *FileManager) WriteBundle(bundle *types.ReportBundle) (string, error) {
	if len(bundle.Reports) == 0 {
		return "", types.ErrNoSuccessfulSites
	}

	data, err := fm.buildArchive(bundle)
	if err != nil {
		return "", err
	}

	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	for n := 0; n < maxArchiveAttempts; n++ {
		path := fm.ArchiveCandidate(n)

		file, err := fm.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create archive %s: %w", path, err)
		}

		if _, err := file.Write(data); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to write archive %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to close archive %s: %w", path, err)
		}
		return path, nil
	}

	return "", fmt.Errorf("no free archive name for %s in %s", fm.ArchiveName, fm.OutputDir)
}

// buildArchive encodes the reports as a deflated zip.
func (fm *FileManager) buildArchive(bundle *types.ReportBundle) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	modified := fm.now()
	for _, siteID := range bundle.ReportSiteIDs() {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     siteID + ".txt",
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", siteID, err)
		}
		if _, err := w.Write([]byte(bundle.Reports[siteID])); err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", siteID, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// BATCH SUMMARY
// =============================================================================

// BatchSummary contains summary information about a batch run.
type BatchSummary struct {
	RunID       string
	StartTime   time.Time
	EndTime     time.Time
	TotalSites  int
	Successful  int
	Failed      int
	ArchivePath string

	// Failures maps site id to error message.
	Failures map[string]string
}

// NewBatchSummary builds the summary of a finished batch.
func NewBatchSummary(bundle *types.ReportBundle, start, end time.Time, archivePath string) BatchSummary {
	return BatchSummary{
		RunID:       bundle.RunID,
		StartTime:   start,
		EndTime:     end,
		TotalSites:  bundle.Len(),
		Successful:  len(bundle.Reports),
		Failed:      len(bundle.Failures),
		ArchivePath: archivePath,
		Failures:    bundle.Failures,
	}
}

// FormatSummary renders the summary shown once at the end of a batch.
// Failed sites are listed sorted by site id.
func FormatSummary(summary BatchSummary) string {
	var b strings.Builder

	b.WriteString("=== Report Generation Complete ===\n")
	fmt.Fprintf(&b, "Run ID:          %s\n", summary.RunID)
	fmt.Fprintf(&b, "Total sites:     %d\n", summary.TotalSites)
	fmt.Fprintf(&b, "Successful:      %d\n", summary.Successful)
	fmt.Fprintf(&b, "Failed:          %d\n", summary.Failed)
	fmt.Fprintf(&b, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
	if summary.ArchivePath != "" {
		fmt.Fprintf(&b, "Archive:         %s\n", summary.ArchivePath)
	}

	if len(summary.Failures) > 0 {
		b.WriteString("\nFailed Sites:\n")
		bundle := types.ReportBundle{Failures: summary.Failures}
		for _, siteID := range bundle.FailedSiteIDs() {
			fmt.Fprintf(&b, "%s: %s\n", siteID, summary.Failures[siteID])
		}
	}

	return b.String()
}

// WriteSummaryLog saves the summary next to the archive as
// "processing_summary_<timestamp>.txt" and returns its path.
func (fm *FileManager) WriteSummaryLog(summary BatchSummary) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("processing_summary_%s.txt", summary.EndTime.Format("20060102_150405"))
	path := filepath.Join(fm.OutputDir, name)

	if err := afero.WriteFile(fm.fs, path, []byte(FormatSummary(summary)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	return path, nil
}
