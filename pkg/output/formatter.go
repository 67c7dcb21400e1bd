package output

import (
	"io"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// Progress event types
const (
	EventTaskStart = "task_start"
	EventTaskDone  = "task_done"
	EventTaskError = "task_error"
)

// ProgressUpdate represents a progress notification during a mirror run
type ProgressUpdate struct {
	Type   string // task_start, task_done, task_error
	Path   string
	URL    string
	Status models.Status
	Index  int
	Total  int
	Error  error
}

// Formatter defines the interface for run output.
// Implementations include human-readable, JSON and progress-bar formatters.
type Formatter interface {
	// Start initializes the formatter for a new run
	Start(writer io.Writer, totalTasks int) error

	// Progress reports progress during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the run summary
	Complete(report *models.MirrorReport) error

	// Error reports a run-level error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
