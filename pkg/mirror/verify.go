package mirror

import (
	"context"

	"github.com/ndelcroix/wikimirror/pkg/index"
	"github.com/ndelcroix/wikimirror/pkg/models"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// Issue describes one index record whose local file is wrong
type Issue struct {
	Filename string
	URL      string
	Reason   string
}

// Verify checks every index record against the destination tree:
// the file must exist and its digest must equal the digest recorded
// when it was written. The next mirror run repairs anything reported
// here, so no separate folder-repair pass is ever needed.
func Verify(ctx context.Context, dest storage.Backend, records []index.Record) ([]Issue, error) {
	var issues []Issue

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return issues, err
		}

		exists, err := dest.Exists(ctx, rec.Filename)
		if err != nil {
			return issues, err
		}
		if !exists {
			issues = append(issues, Issue{Filename: rec.Filename, URL: rec.URL, Reason: "missing"})
			continue
		}

		digest, err := digestOfLocal(ctx, dest, rec.Filename)
		if err != nil {
			issues = append(issues, Issue{Filename: rec.Filename, URL: rec.URL, Reason: "unreadable: " + err.Error()})
			continue
		}
		if string(digest) != rec.Digest {
			issues = append(issues, Issue{Filename: rec.Filename, URL: rec.URL, Reason: "digest mismatch"})
		}
	}

	return issues, nil
}

// RepairTasks converts verify issues back into sync tasks so the
// standard pipeline can re-download exactly the broken subset
func RepairTasks(issues []Issue) []models.SyncTask {
	tasks := make([]models.SyncTask, 0, len(issues))
	for _, issue := range issues {
		tasks = append(tasks, models.NewSyncTask(issue.URL, issue.Filename, nil))
	}
	return tasks
}
