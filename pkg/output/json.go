package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// JSONFormatter emits a single machine-readable report at the end of the run
type JSONFormatter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonReport is the serialized shape of a mirror report
type jsonReport struct {
	RunID        string        `json:"run_id"`
	ManifestPath string        `json:"manifest_path,omitempty"`
	OutputRoot   string        `json:"output_root,omitempty"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	DurationMs   int64         `json:"duration_ms"`
	Status       string        `json:"status"`
	Stats        jsonStats     `json:"stats"`
	Outcomes     []jsonOutcome `json:"outcomes"`
}

type jsonStats struct {
	TasksTotal   int   `json:"tasks_total"`
	Excluded     int   `json:"excluded"`
	Downloaded   int   `json:"downloaded"`
	Updated      int   `json:"updated"`
	Skipped      int   `json:"skipped"`
	Failed       int   `json:"failed"`
	BytesFetched int64 `json:"bytes_fetched"`
	BytesWritten int64 `json:"bytes_written"`
}

type jsonOutcome struct {
	URL        string            `json:"url"`
	Path       string            `json:"path"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Status     string            `json:"status"`
	Digest     string            `json:"digest,omitempty"`
	Bytes      int64             `json:"bytes"`
	Error      string            `json:"error,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}

// Start initializes the formatter for a new run
func (f *JSONFormatter) Start(writer io.Writer, totalTasks int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writer = writer
	return nil
}

// Progress is a no-op; JSON output is emitted once at completion
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the full report as indented JSON
func (f *JSONFormatter) Complete(report *models.MirrorReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := jsonReport{
		RunID:        report.RunID,
		ManifestPath: report.ManifestPath,
		OutputRoot:   report.OutputRoot,
		StartTime:    report.StartTime,
		EndTime:      report.EndTime,
		DurationMs:   report.Duration.Milliseconds(),
		Status:       string(report.Status),
		Stats: jsonStats{
			TasksTotal:   report.Stats.TasksTotal,
			Excluded:     report.Stats.Excluded,
			Downloaded:   report.Stats.Downloaded,
			Updated:      report.Stats.Updated,
			Skipped:      report.Stats.Skipped,
			Failed:       report.Stats.Failed,
			BytesFetched: report.Stats.BytesFetched,
			BytesWritten: report.Stats.BytesWritten,
		},
		Outcomes: make([]jsonOutcome, 0, len(report.Outcomes)),
	}

	for _, o := range report.Outcomes {
		out.Outcomes = append(out.Outcomes, jsonOutcome{
			URL:        o.Task.URL,
			Path:       o.Task.LocalPath,
			Metadata:   o.Task.Metadata,
			Status:     string(o.Status),
			Digest:     o.Digest,
			Bytes:      o.Bytes,
			Error:      o.ErrString(),
			DurationMs: o.Duration.Milliseconds(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = f.writer.Write(append(data, '\n'))
	return err
}

// Error writes a run-level error as a JSON object
func (f *JSONFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	if jsonErr != nil {
		return jsonErr
	}
	_, writeErr := f.writer.Write(append(data, '\n'))
	return writeErr
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
