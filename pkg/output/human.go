package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// HumanFormatter prints one line per processed asset plus a final summary
type HumanFormatter struct {
	mu     sync.Mutex
	writer io.Writer
	quiet  bool
}

// NewHumanFormatter creates a human-readable formatter.
// In quiet mode only failures and the summary are printed.
func NewHumanFormatter(quiet bool) *HumanFormatter {
	return &HumanFormatter{quiet: quiet}
}

// Start initializes the formatter for a new run
func (f *HumanFormatter) Start(writer io.Writer, totalTasks int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writer = writer
	if !f.quiet {
		fmt.Fprintf(f.writer, "Mirroring %d assets...\n", totalTasks)
	}
	return nil
}

// Progress prints the per-task result lines
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case EventTaskDone:
		if f.quiet {
			return nil
		}
		switch update.Status {
		case models.StatusSkipped:
			fmt.Fprintf(f.writer, "skipped    %s (unchanged)\n", update.Path)
		default:
			fmt.Fprintf(f.writer, "%-10s %s\n", update.Status, update.Path)
		}
	case EventTaskError:
		fmt.Fprintf(f.writer, "failed     %s: %v\n", update.URL, update.Error)
	}
	return nil
}

// Complete prints the run summary
func (f *HumanFormatter) Complete(report *models.MirrorReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeSummary(f.writer, report)
	return nil
}

// Error reports a run-level error
func (f *HumanFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.writer, "error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the shared end-of-run summary block
func writeSummary(w io.Writer, report *models.MirrorReport) {
	fmt.Fprintf(w, "\nRun %s (%s)\n", report.RunID, report.Status)
	fmt.Fprintf(w, "  Downloaded: %d\n", report.Stats.Downloaded)
	fmt.Fprintf(w, "  Updated:    %d\n", report.Stats.Updated)
	fmt.Fprintf(w, "  Skipped:    %d\n", report.Stats.Skipped)
	fmt.Fprintf(w, "  Failed:     %d\n", report.Stats.Failed)
	if report.Stats.Excluded > 0 {
		fmt.Fprintf(w, "  Excluded:   %d\n", report.Stats.Excluded)
	}
	fmt.Fprintf(w, "  Fetched:    %s\n", formatBytes(report.Stats.BytesFetched))
	fmt.Fprintf(w, "  Written:    %s\n", formatBytes(report.Stats.BytesWritten))
	fmt.Fprintf(w, "  Duration:   %s\n", report.Duration.Round(10*time.Millisecond))
}

// formatBytes renders a byte count in human units
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
