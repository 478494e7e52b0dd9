package utils_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/ginjaninja78/sales-summary-report/pkg/utils"
	"github.com/spf13/afero"
)

func sampleBundle() *types.ReportBundle {
	b := types.NewReportBundle("run-1")
	b.Add(types.Success("20107", "report 20107"))
	b.Add(types.Success("13100", "report 13100"))
	b.Add(types.Failure("13105", errors.New("could not connect")))
	return b
}

func fileExists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}

func readArchive(t *testing.T, fs afero.Fs, path string) map[string]string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	entries := map[string]string{}
	var order []string
	for _, f := range zr.File {
		if f.Method != zip.Deflate {
			t.Errorf("%s: want deflate, got method %d", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		entries[f.Name] = string(body)
		order = append(order, f.Name)
	}
	entries["#order"] = strings.Join(order, ",")
	return entries
}

func TestWriteBundle(t *testing.T) {
	fs := afero.NewMemMapFs()
	fm := utils.NewFileManager(fs, "/home/user/Downloads", "SiteReports")

	path, err := fm.WriteBundle(sampleBundle())
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	if path != "/home/user/Downloads/SiteReports.zip" {
		t.Errorf("path: got %q", path)
	}

	entries := readArchive(t, fs, path)
	if entries["#order"] != "13100.txt,20107.txt" {
		t.Errorf("entries: want 13100.txt,20107.txt, got %s", entries["#order"])
	}
	if entries["13100.txt"] != "report 13100" {
		t.Errorf("13100.txt: got %q", entries["13100.txt"])
	}
}

func TestWriteBundle_CollisionCounter(t *testing.T) {
	fs := afero.NewMemMapFs()
	fm := utils.NewFileManager(fs, "/out", "SiteReports")
	if err := afero.WriteFile(fs, "/out/SiteReports.zip", []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var paths []string
	for i := 0; i < 3; i++ {
		path, err := fm.WriteBundle(sampleBundle())
		if err != nil {
			t.Fatalf("WriteBundle #%d: %v", i, err)
		}
		paths = append(paths, path)
	}

	want := "/out/SiteReports1.zip,/out/SiteReports2.zip,/out/SiteReports3.zip"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("paths: want %s, got %s", want, got)
	}

	old, _ := afero.ReadFile(fs, "/out/SiteReports.zip")
	if string(old) != "old" {
		t.Errorf("existing archive was overwritten")
	}
}

func TestWriteBundle_NoReports(t *testing.T) {
	fs := afero.NewMemMapFs()
	fm := utils.NewFileManager(fs, "/out", "SiteReports")

	b := types.NewReportBundle("run-2")
	b.Add(types.Failure("13100", errors.New("boom")))

	if _, err := fm.WriteBundle(b); !errors.Is(err, types.ErrNoSuccessfulSites) {
		t.Fatalf("want ErrNoSuccessfulSites, got %v", err)
	}
	if fileExists(fs, "/out/SiteReports.zip") {
		t.Errorf("no archive should be written")
	}
}

func TestFormatSummary(t *testing.T) {
	start := time.Date(2024, 2, 5, 14, 7, 0, 0, time.UTC)
	summary := utils.NewBatchSummary(sampleBundle(), start, start.Add(1500*time.Millisecond), "/out/SiteReports.zip")

	got := utils.FormatSummary(summary)
	for _, want := range []string{
		"Run ID:          run-1\n",
		"Total sites:     3\n",
		"Successful:      2\n",
		"Failed:          1\n",
		"Time elapsed:    1.5s\n",
		"Archive:         /out/SiteReports.zip\n",
		"\nFailed Sites:\n13105: could not connect\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary is missing %q:\n%s", want, got)
		}
	}
}

func TestWriteSummaryLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	fm := utils.NewFileManager(fs, "/out", "SiteReports")
	start := time.Date(2024, 2, 5, 14, 7, 0, 0, time.UTC)

	path, err := fm.WriteSummaryLog(utils.NewBatchSummary(sampleBundle(), start, start.Add(time.Second), ""))
	if err != nil {
		t.Fatalf("WriteSummaryLog: %v", err)
	}
	if path != "/out/processing_summary_20240205_140701.txt" {
		t.Errorf("path: got %q", path)
	}
	if !fileExists(fs, path) {
		t.Errorf("summary file missing")
	}
}
