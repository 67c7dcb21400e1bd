package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ndelcroix/wikimirror/pkg/fetch"
	"github.com/ndelcroix/wikimirror/pkg/index"
	"github.com/ndelcroix/wikimirror/pkg/logging"
	"github.com/ndelcroix/wikimirror/pkg/models"
	"github.com/ndelcroix/wikimirror/pkg/output"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// Options configures a mirror run
type Options struct {
	// RunID identifies the run in the report; generated when empty
	RunID string
	// ManifestPath and OutputRoot are carried into the report for auditing
	ManifestPath string
	OutputRoot   string
	// MaxWorkers bounds concurrent downloads
	MaxWorkers int
	// Exclude patterns filter tasks out before they run
	Exclude []string
	// IndexPath is the CSV index file; empty disables the index
	IndexPath string
	// MetaColumns fixes the metadata column order in the index
	MetaColumns []string
	// Out receives formatter output; defaults to stdout
	Out io.Writer
}

// Engine orchestrates one mirror run: filter, download, index, report
type Engine struct {
	fetcher   fetch.Fetcher
	dest      storage.Backend
	formatter output.Formatter
	logger    logging.Logger
	opts      Options
}

// NewEngine creates a mirror engine
func NewEngine(fetcher fetch.Fetcher, dest storage.Backend, formatter output.Formatter, logger logging.Logger, opts Options) *Engine {
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		fetcher:   fetcher,
		dest:      dest,
		formatter: formatter,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes the pipeline for the given tasks. The run is
// best-effort: per-task failures are collected, not fatal. An index
// write failure is fatal to the index step only; everything already
// downloaded stays on disk, and the report is still returned.
func (e *Engine) Run(ctx context.Context, tasks []models.SyncTask) (*models.MirrorReport, error) {
	report := &models.MirrorReport{
		RunID:        e.opts.RunID,
		ManifestPath: e.opts.ManifestPath,
		OutputRoot:   e.opts.OutputRoot,
		StartTime:    time.Now(),
	}

	kept := make([]models.SyncTask, 0, len(tasks))
	for _, task := range tasks {
		if Excluded(task.LocalPath, e.opts.Exclude) {
			continue
		}
		kept = append(kept, task)
	}
	report.Stats.TasksTotal = len(tasks)
	report.Stats.Excluded = len(tasks) - len(kept)

	e.logger.Info(ctx, "mirror run started", logging.Fields{
		"run_id": report.RunID,
		"tasks":  len(kept),
	})

	if e.formatter != nil {
		e.formatter.Start(e.opts.Out, len(kept))
	}

	pool := NewPool(e.fetcher, e.dest, e.opts.MaxWorkers, e.logger, e.formatter)
	report.Outcomes = pool.Run(ctx, kept)

	report.Finalize()
	if ctx.Err() != nil {
		report.Status = models.RunCancelled
	}

	if e.opts.IndexPath != "" {
		writer := index.NewWriter(e.opts.MetaColumns)
		if err := writer.AppendFile(report.Outcomes, e.opts.IndexPath); err != nil {
			e.logger.Error(ctx, "index write failed", err, logging.Fields{"index": e.opts.IndexPath})
			if e.formatter != nil {
				e.formatter.Error(err)
			}
			return report, fmt.Errorf("failed to write index: %w", err)
		}
	}

	e.logger.Info(ctx, "mirror run finished", logging.Fields{
		"run_id":     report.RunID,
		"status":     string(report.Status),
		"downloaded": report.Stats.Downloaded,
		"updated":    report.Stats.Updated,
		"skipped":    report.Stats.Skipped,
		"failed":     report.Stats.Failed,
	})

	if e.formatter != nil {
		e.formatter.Complete(report)
	}

	return report, nil
}
