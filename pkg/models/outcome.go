package models

import (
	"time"
)

// Status represents the terminal result of processing one SyncTask
type Status string

const (
	// StatusDownloaded indicates the file did not exist locally and was written
	StatusDownloaded Status = "downloaded"
	// StatusUpdated indicates the local file existed with different content and was overwritten
	StatusUpdated Status = "updated"
	// StatusSkipped indicates the local file already matched the remote content
	StatusSkipped Status = "skipped"
	// StatusFailed indicates the task failed; the local file was not touched
	StatusFailed Status = "failed"
)

// Outcome is created exactly once per task by the pipeline
type Outcome struct {
	// Task is the task this outcome belongs to
	Task SyncTask

	// Status indicates what happened to the file
	Status Status

	// Digest is the hex SHA-256 of the fetched content
	// (empty when the fetch failed)
	Digest string

	// Bytes is the size of the fetched payload
	Bytes int64

	// Err holds the failure cause when Status is StatusFailed
	Err error

	// Duration tracks how long the task took end to end
	Duration time.Duration
}

// Changed reports whether the outcome resulted in a filesystem write
func (o Outcome) Changed() bool {
	return o.Status == StatusDownloaded || o.Status == StatusUpdated
}

// ErrString returns the error message, or empty string when the task succeeded
func (o Outcome) ErrString() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
