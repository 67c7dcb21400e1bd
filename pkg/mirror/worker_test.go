package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// makeTasks configures count distinct (url, path) pairs on the fetcher
func makeTasks(fetcher *fakeFetcher, count int) []models.SyncTask {
	tasks := make([]models.SyncTask, 0, count)
	for i := 0; i < count; i++ {
		url := fmt.Sprintf("http://x/asset-%d.png", i)
		fetcher.serve(url, []byte(fmt.Sprintf("content of asset %d", i)))
		tasks = append(tasks, models.NewSyncTask(url, fmt.Sprintf("out/asset-%d.png", i), nil))
	}
	return tasks
}

func TestPoolRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Bijection", func(t *testing.T) {
		const k = 12
		for _, workers := range []int{1, k, k * 10} {
			t.Run(fmt.Sprintf("MaxWorkers%d", workers), func(t *testing.T) {
				dest := newTestBackend(t)
				fetcher := newFakeFetcher()
				tasks := makeTasks(fetcher, k)

				pool := NewPool(fetcher, dest, workers, nil, nil)
				outcomes := pool.Run(ctx, tasks)

				if len(outcomes) != k {
					t.Fatalf("got %d outcomes, want %d", len(outcomes), k)
				}
				for i, o := range outcomes {
					if o.Task.URL != tasks[i].URL {
						t.Errorf("outcome %d belongs to %s, want %s", i, o.Task.URL, tasks[i].URL)
					}
					if o.Status != models.StatusDownloaded {
						t.Errorf("outcome %d status = %s, want %s", i, o.Status, models.StatusDownloaded)
					}
				}
			})
		}
	})

	t.Run("ConcurrencyBound", func(t *testing.T) {
		const maxWorkers = 3
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		tasks := makeTasks(fetcher, 30)

		pool := NewPool(fetcher, dest, maxWorkers, nil, nil)
		pool.Run(ctx, tasks)

		if max := atomic.LoadInt32(&fetcher.maxInFlight); max > maxWorkers {
			t.Errorf("observed %d simultaneous fetches, bound is %d", max, maxWorkers)
		}
	})

	t.Run("Idempotence", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		tasks := makeTasks(fetcher, 5)

		pool := NewPool(fetcher, dest, 4, nil, nil)

		first := pool.Run(ctx, tasks)
		for i, o := range first {
			if o.Status != models.StatusDownloaded {
				t.Errorf("first run outcome %d = %s, want %s", i, o.Status, models.StatusDownloaded)
			}
		}

		second := pool.Run(ctx, tasks)
		for i, o := range second {
			if o.Status != models.StatusSkipped {
				t.Errorf("second run outcome %d = %s, want %s", i, o.Status, models.StatusSkipped)
			}
		}

		// File bytes must match the remote content after both runs
		for i, task := range tasks {
			got, err := os.ReadFile(filepath.Join(dest.Root(), filepath.FromSlash(task.LocalPath)))
			if err != nil {
				t.Fatalf("failed to read file for task %d: %v", i, err)
			}
			want := fmt.Sprintf("content of asset %d", i)
			if string(got) != want {
				t.Errorf("task %d file = %q, want %q", i, got, want)
			}
		}
	})

	t.Run("ChangeDetection", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		fetcher.serve("http://x/a.png", []byte("B1"))
		tasks := []models.SyncTask{models.NewSyncTask("http://x/a.png", "a.png", nil)}

		pool := NewPool(fetcher, dest, 1, nil, nil)
		pool.Run(ctx, tasks)

		// Remote now serves different content
		fetcher.serve("http://x/a.png", []byte("B2 is different"))
		outcomes := pool.Run(ctx, tasks)

		if outcomes[0].Status != models.StatusUpdated {
			t.Errorf("status = %s, want %s", outcomes[0].Status, models.StatusUpdated)
		}
		got, err := os.ReadFile(filepath.Join(dest.Root(), "a.png"))
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(got) != "B2 is different" {
			t.Errorf("file = %q, want %q", got, "B2 is different")
		}
	})

	t.Run("FailureIsolation", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		tasks := makeTasks(fetcher, 6)
		fetcher.fail(tasks[2].URL, errors.New("boom"))

		pool := NewPool(fetcher, dest, 3, nil, nil)
		outcomes := pool.Run(ctx, tasks)

		for i, o := range outcomes {
			if i == 2 {
				if o.Status != models.StatusFailed {
					t.Errorf("outcome 2 = %s, want %s", o.Status, models.StatusFailed)
				}
				if o.Err == nil {
					t.Error("outcome 2 has no error")
				}
				continue
			}
			if o.Status != models.StatusDownloaded {
				t.Errorf("outcome %d = %s, want %s", i, o.Status, models.StatusDownloaded)
			}
		}
	})

	t.Run("FailedTaskWritesNothing", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		fetcher.fail("http://x/broken.png", errors.New("truncated"))
		tasks := []models.SyncTask{models.NewSyncTask("http://x/broken.png", "broken.png", nil)}

		pool := NewPool(fetcher, dest, 1, nil, nil)
		outcomes := pool.Run(ctx, tasks)

		if outcomes[0].Status != models.StatusFailed {
			t.Fatalf("status = %s, want %s", outcomes[0].Status, models.StatusFailed)
		}
		if _, err := os.Stat(filepath.Join(dest.Root(), "broken.png")); !os.IsNotExist(err) {
			t.Error("failed task left a file behind")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		tasks := makeTasks(fetcher, 4)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pool := NewPool(fetcher, dest, 2, nil, nil)
		outcomes := pool.Run(ctx, tasks)

		if len(outcomes) != len(tasks) {
			t.Fatalf("got %d outcomes, want %d", len(outcomes), len(tasks))
		}
		for i, o := range outcomes {
			if o.Status != models.StatusFailed {
				t.Errorf("outcome %d = %s, want %s", i, o.Status, models.StatusFailed)
			}
		}
	})
}
