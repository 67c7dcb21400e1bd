package models

import (
	"time"
)

// MirrorReport represents the results of one mirror run
type MirrorReport struct {
	// Run details
	RunID        string
	ManifestPath string
	OutputRoot   string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Outcomes, one per submitted task, in submission order
	Outcomes []Outcome

	// Overall status
	Status RunStatus
}

// Statistics holds mirror run metrics
type Statistics struct {
	TasksTotal int
	Excluded   int // tasks filtered out by exclude patterns, never run

	Downloaded int
	Updated    int
	Skipped    int
	Failed     int

	// BytesFetched counts all payloads pulled from the remote,
	// including ones that turned out to be unchanged
	BytesFetched int64
	// BytesWritten counts only payloads that reached the disk
	BytesWritten int64
}

// RunStatus represents the overall result of a run
type RunStatus string

const (
	// RunSuccess indicates every task completed without failure
	RunSuccess RunStatus = "success"
	// RunPartial indicates some tasks failed
	RunPartial RunStatus = "partial"
	// RunFailed indicates every task failed
	RunFailed RunStatus = "failed"
	// RunCancelled indicates the run was cancelled
	RunCancelled RunStatus = "cancelled"
)

// ExitCode returns the process exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunSuccess:
		return 0
	case RunPartial:
		return 1
	case RunFailed:
		return 2
	case RunCancelled:
		return 3
	default:
		return 2
	}
}

// Finalize fills the aggregate fields from the collected outcomes
func (r *MirrorReport) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusDownloaded:
			r.Stats.Downloaded++
		case StatusUpdated:
			r.Stats.Updated++
		case StatusSkipped:
			r.Stats.Skipped++
		case StatusFailed:
			r.Stats.Failed++
		}
		r.Stats.BytesFetched += o.Bytes
		if o.Changed() {
			r.Stats.BytesWritten += o.Bytes
		}
	}

	switch {
	case len(r.Outcomes) > 0 && r.Stats.Failed == len(r.Outcomes):
		r.Status = RunFailed
	case r.Stats.Failed > 0:
		r.Status = RunPartial
	default:
		r.Status = RunSuccess
	}
}
