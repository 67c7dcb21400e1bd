package index

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// Fixed index columns surrounding the metadata columns
const (
	colFilename = "filename"
	colDigest   = "sha256"
	colURL      = "url"
)

// Writer appends mirror outcomes to a CSV index.
// Only outcomes that wrote to disk (downloaded or updated) are recorded:
// the index describes what changed, not what was checked.
type Writer struct {
	metaColumns []string
}

// NewWriter creates an index writer. metaColumns fixes the order of the
// metadata columns between the filename and url columns.
func NewWriter(metaColumns []string) *Writer {
	return &Writer{metaColumns: metaColumns}
}

// Header returns the full CSV header row
func (w *Writer) Header() []string {
	header := make([]string, 0, len(w.metaColumns)+3)
	header = append(header, colFilename)
	header = append(header, w.metaColumns...)
	header = append(header, colDigest, colURL)
	return header
}

// Append writes one row per changed outcome to sink.
// The whole batch is rendered in memory first and flushed with a single
// write, so a crash mid-batch never leaves a partial set of rows.
func (w *Writer) Append(outcomes []models.Outcome, sink io.Writer) error {
	buf, err := w.render(outcomes, false)
	if err != nil {
		return err
	}
	if buf.Len() == 0 {
		return nil
	}

	if _, err := sink.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// AppendFile appends changed outcomes to the index file at path,
// writing the header only when the file is created
func (w *Writer) AppendFile(outcomes []models.Outcome, path string) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	buf, err := w.render(outcomes, writeHeader)
	if err != nil {
		return err
	}
	if buf.Len() == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open index file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// render builds the full CSV payload for the batch in memory
func (w *Writer) render(outcomes []models.Outcome, withHeader bool) (*bytes.Buffer, error) {
	var rows [][]string
	for _, o := range outcomes {
		if !o.Changed() {
			continue
		}
		rows = append(rows, w.row(o))
	}
	if len(rows) == 0 && !withHeader {
		return &bytes.Buffer{}, nil
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if withHeader {
		if err := cw.Write(w.Header()); err != nil {
			return nil, fmt.Errorf("failed to render index header: %w", err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("failed to render index row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	return &buf, nil
}

// row renders one outcome in header order
func (w *Writer) row(o models.Outcome) []string {
	row := make([]string, 0, len(w.metaColumns)+3)
	row = append(row, filepath.ToSlash(o.Task.LocalPath))
	for _, col := range w.metaColumns {
		row = append(row, o.Task.Meta(col))
	}
	row = append(row, o.Digest, o.Task.URL)
	return row
}
