package sitelist

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// readWorkbook reads the siteid column of the first sheet.
func readWorkbook(fs afero.Fs, path string) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site list: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s is empty", path)
	}

	column := -1
	for i, header := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(header), SiteIDColumn) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("file must contain a column named '%s'", SiteIDColumn)
	}

	var ids []string
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells, so short rows have no value
		if column < len(row) {
			ids = append(ids, row[column])
		}
	}
	return ids, nil
}
