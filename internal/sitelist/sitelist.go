// =============================================================================
// Sales Summary Report - Site List Reader
// =============================================================================
//
// This package reads the list of site ids a batch runs over.
//
// SUPPORTED FILES:
//   - .xlsx : the first sheet must have a header row with a "siteid" column
//             (any case); every non-empty cell below it is a site id
//   - other : plain text where commas and line breaks both separate ids
//
// Ids are trimmed, blanks are skipped and duplicates are dropped keeping the
// first occurrence, so the result can key a ReportBundle directly.
//
// =============================================================================

package sitelist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SiteIDColumn is the header of the site id column in workbooks.
const SiteIDColumn = "siteid"

// Read returns the site ids listed in the file at path.
func Read(fs afero.Fs, path string) ([]string, error) {
	var (
		ids []string
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		ids, err = readWorkbook(fs, path)
	default:
		ids, err = readText(fs, path)
	}
	if err != nil {
		return nil, err
	}

	ids = Normalize(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no site ids found in %s", path)
	}
	return ids, nil
}

// Normalize trims every id, drops blanks and removes duplicates keeping the
// first occurrence.
func Normalize(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
