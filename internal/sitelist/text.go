package sitelist

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/spf13/afero"
)

// readText reads ids separated by commas and line breaks.
func readText(fs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site list: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse site list %s: %w", path, err)
	}

	var ids []string
	for _, record := range records {
		ids = append(ids, record...)
	}
	return ids, nil
}
