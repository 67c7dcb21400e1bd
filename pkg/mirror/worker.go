package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/ndelcroix/wikimirror/pkg/fetch"
	"github.com/ndelcroix/wikimirror/pkg/logging"
	"github.com/ndelcroix/wikimirror/pkg/models"
	"github.com/ndelcroix/wikimirror/pkg/output"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// Pool runs sync tasks concurrently, bounded by a maximum number of
// in-flight workers. Tasks are independent; one failure never affects
// another.
type Pool struct {
	fetcher   fetch.Fetcher
	dest      storage.Backend
	logger    logging.Logger
	formatter output.Formatter
	semaphore chan struct{}
}

// NewPool creates a worker pool. A nil logger disables logging and a
// nil formatter disables progress reporting.
func NewPool(fetcher fetch.Fetcher, dest storage.Backend, maxWorkers int, logger logging.Logger, formatter output.Formatter) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Pool{
		fetcher:   fetcher,
		dest:      dest,
		logger:    logger,
		formatter: formatter,
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Run processes every task and returns exactly one outcome per task,
// in input order. Each outcome is written to its own slot, so no shared
// mutable aggregation is needed across workers. Cancellation is honored
// only between tasks: a worker that started never has its write
// interrupted.
func (p *Pool) Run(ctx context.Context, tasks []models.SyncTask) []models.Outcome {
	outcomes := make([]models.Outcome, len(tasks))
	total := len(tasks)
	var wg sync.WaitGroup

	for i := range tasks {
		task := tasks[i]

		if ctx.Err() != nil {
			outcomes[i] = models.Outcome{
				Task:   task,
				Status: models.StatusFailed,
				Err:    ctx.Err(),
			}
			continue
		}

		p.semaphore <- struct{}{}
		wg.Add(1)

		go func(idx int, task models.SyncTask) {
			defer wg.Done()
			defer func() { <-p.semaphore }()
			outcomes[idx] = p.runTask(ctx, task, idx+1, total)
		}(i, task)
	}

	wg.Wait()
	return outcomes
}

// runTask executes the fetch-hash-compare-write sequence for one task
func (p *Pool) runTask(ctx context.Context, task models.SyncTask, num, total int) models.Outcome {
	start := time.Now()
	p.notify(output.ProgressUpdate{
		Type:  output.EventTaskStart,
		Path:  task.LocalPath,
		URL:   task.URL,
		Index: num,
		Total: total,
	})

	decision, err := Decide(ctx, p.fetcher, p.dest, task)

	outcome := models.Outcome{
		Task:   task,
		Status: decision.Status,
		Digest: string(decision.Digest),
		Bytes:  int64(len(decision.Bytes)),
	}

	if err == nil && decision.ShouldWrite {
		err = p.dest.Write(ctx, task.LocalPath, decision.Bytes)
	}

	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Status = models.StatusFailed
		outcome.Err = err
		p.logger.Error(ctx, "download failed", err, logging.Fields{
			"url":  task.URL,
			"path": task.LocalPath,
		})
		p.notify(output.ProgressUpdate{
			Type:  output.EventTaskError,
			Path:  task.LocalPath,
			URL:   task.URL,
			Index: num,
			Total: total,
			Error: err,
		})
		return outcome
	}

	p.notify(output.ProgressUpdate{
		Type:   output.EventTaskDone,
		Path:   task.LocalPath,
		URL:    task.URL,
		Status: outcome.Status,
		Index:  num,
		Total:  total,
	})
	return outcome
}

// notify forwards a progress update when a formatter is attached
func (p *Pool) notify(update output.ProgressUpdate) {
	if p.formatter != nil {
		p.formatter.Progress(update)
	}
}
