package sitelist_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-summary-report/internal/sitelist"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s): %v", cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "sites.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestRead_Workbook(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "Region", "B1": "SiteID",
		"A2": "South", "B2": 13100,
		"A3": "South", "B3": " 13105 ",
		"A4": "North",
		"A5": "North", "B5": "20107",
		"A6": "North", "B6": 13100,
	})

	got, err := sitelist.Read(afero.NewOsFs(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := []string{"13100", "13105", "20107"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Read: want %v, got %v", want, got)
	}
}

func TestRead_WorkbookFromMemory(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetCellValue("Sheet1", "A1", "siteid")
	_ = f.SetCellValue("Sheet1", "A2", "13100")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/Sites.XLSX", buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := sitelist.Read(fs, "/in/Sites.XLSX")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := []string{"13100"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Read: want %v, got %v", want, got)
	}
}

func TestRead_WorkbookWithoutSiteIDColumn(t *testing.T) {
	path := writeWorkbook(t, map[string]any{"A1": "store", "A2": 13100})

	_, err := sitelist.Read(afero.NewOsFs(), path)
	if err == nil || !strings.Contains(err.Error(), "column named 'siteid'") {
		t.Fatalf("want missing column error, got %v", err)
	}
}

func TestRead_Text(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"comma separated", "13100, 13105,20107", []string{"13100", "13105", "20107"}},
		{"one per line", "13100\n13105\r\n\n20107\n", []string{"13100", "13105", "20107"}},
		{"mixed", "13100,13105\n20107,", []string{"13100", "13105", "20107"}},
		{"duplicates", "13100\n13105\n13100", []string{"13100", "13105"}},
		{"byte order mark", "\xef\xbb\xbf13100,13105", []string{"13100", "13105"}},
	}
	for _, tt := range tests {
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, "/sites.txt", []byte(tt.content), 0o644); err != nil {
			t.Fatalf("%s: write: %v", tt.name, err)
		}
		got, err := sitelist.Read(fs, "/sites.txt")
		if err != nil {
			t.Errorf("%s: Read: %v", tt.name, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestRead_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/blank.csv", []byte(" \n , \n"), 0o644)

	if _, err := sitelist.Read(fs, "/blank.csv"); err == nil {
		t.Errorf("blank file: want error")
	}
	if _, err := sitelist.Read(fs, "/missing.txt"); err == nil {
		t.Errorf("missing file: want error")
	}
}

func TestNormalize(t *testing.T) {
	got := sitelist.Normalize([]string{" 13100", "", "13100 ", "  ", "20107"})
	if want := []string{"13100", "20107"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize: want %v, got %v", want, got)
	}
}
