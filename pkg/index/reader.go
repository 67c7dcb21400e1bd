package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Record is one row read back from the index
type Record struct {
	Filename string
	Digest   string
	URL      string
	Metadata map[string]string
}

// Read loads all index records from r. The header row names the
// metadata columns; the filename, sha256 and url columns are fixed.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colFilename, colDigest, colURL} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("index missing required column %q", required)
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read index row: %w", err)
		}

		rec := Record{Metadata: make(map[string]string)}
		for name, i := range cols {
			if i >= len(row) {
				continue
			}
			switch name {
			case colFilename:
				rec.Filename = row[i]
			case colDigest:
				rec.Digest = row[i]
			case colURL:
				rec.URL = row[i]
			default:
				rec.Metadata[name] = row[i]
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadFile loads all index records from the file at path
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer file.Close()

	return Read(file)
}
