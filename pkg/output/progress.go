package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// progressTemplate keeps the bar on one line: counters, bar, percentage, elapsed
const progressTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{etime . }}`

// ProgressFormatter renders a single progress bar for the whole run.
// Per-task failures are collected and replayed under the summary so
// they are not lost in the bar redraws.
type ProgressFormatter struct {
	mu       sync.Mutex
	writer   io.Writer
	bar      *pb.ProgressBar
	failures []string
}

// NewProgressFormatter creates a progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the progress bar
func (f *ProgressFormatter) Start(writer io.Writer, totalTasks int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writer = writer
	f.bar = pb.New(totalTasks)
	f.bar.SetWriter(writer)
	f.bar.SetTemplateString(progressTemplate)
	f.bar.Start()
	return nil
}

// Progress advances the bar as tasks finish
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case EventTaskDone:
		f.bar.Increment()
	case EventTaskError:
		f.bar.Increment()
		f.failures = append(f.failures, fmt.Sprintf("%s: %v", update.URL, update.Error))
	}
	return nil
}

// Complete finishes the bar and prints the summary plus collected failures
func (f *ProgressFormatter) Complete(report *models.MirrorReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bar.Finish()
	writeSummary(f.writer, report)

	if len(f.failures) > 0 {
		fmt.Fprintf(f.writer, "\nFailures:\n")
		for _, line := range f.failures {
			fmt.Fprintf(f.writer, "  %s\n", line)
		}
	}
	return nil
}

// Error reports a run-level error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.writer, "error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
