package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// Required CSV manifest columns; every other header column is carried
// through as task metadata
const (
	colURL  = "url"
	colPath = "path"
)

// LoadCSV parses a CSV manifest. The header row must contain "url" and
// "path"; remaining columns become metadata in header order.
func LoadCSV(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	return ParseCSV(file)
}

// ParseCSV parses CSV manifest content from r
func ParseCSV(r io.Reader) (*Manifest, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("manifest is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	urlIdx, pathIdx := -1, -1
	var metaColumns []string
	var metaIdx []int
	for i, name := range header {
		switch name {
		case colURL:
			urlIdx = i
		case colPath:
			pathIdx = i
		default:
			metaColumns = append(metaColumns, name)
			metaIdx = append(metaIdx, i)
		}
	}
	if urlIdx < 0 || pathIdx < 0 {
		return nil, fmt.Errorf("manifest header must contain %q and %q columns", colURL, colPath)
	}

	m := &Manifest{MetaColumns: metaColumns}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest row: %w", err)
		}
		line++

		if urlIdx >= len(row) || pathIdx >= len(row) {
			return nil, fmt.Errorf("manifest line %d: missing url or path", line)
		}

		meta := make(map[string]string, len(metaColumns))
		for j, idx := range metaIdx {
			if idx < len(row) {
				meta[metaColumns[j]] = row[idx]
			}
		}

		m.Tasks = append(m.Tasks, models.NewSyncTask(row[urlIdx], row[pathIdx], meta))
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
