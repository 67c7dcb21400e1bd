package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ndelcroix/wikimirror/pkg/hashing"
	"github.com/ndelcroix/wikimirror/pkg/models"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// fakeFetcher serves canned responses per URL and counts in-flight
// fetches so tests can check the concurrency bound
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	errs      map[string]error

	inFlight    int32
	maxInFlight int32
	calls       int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
	}
}

func (f *fakeFetcher) serve(url string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = data
	delete(f.errs, url)
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	atomic.AddInt32(&f.calls, 1)

	// Track the high-water mark of simultaneous fetches
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, current) {
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if data, ok := f.responses[url]; ok {
		return data, nil
	}
	return nil, errors.New("no response configured for " + url)
}

func newTestBackend(t *testing.T) *storage.Local {
	t.Helper()
	dest, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return dest
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("NewFile", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		data := []byte("fresh content")
		fetcher.serve("http://x/a.png", data)

		task := models.NewSyncTask("http://x/a.png", "champ/a.png", nil)
		decision, err := Decide(ctx, fetcher, dest, task)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if decision.Status != models.StatusDownloaded {
			t.Errorf("Status = %s, want %s", decision.Status, models.StatusDownloaded)
		}
		if !decision.ShouldWrite {
			t.Error("ShouldWrite = false, want true")
		}
		if decision.Digest != hashing.Sum(data) {
			t.Errorf("Digest = %s, want %s", decision.Digest, hashing.Sum(data))
		}
	})

	t.Run("UnchangedFile", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		data := []byte("identical content")
		fetcher.serve("http://x/a.png", data)

		if err := dest.Write(ctx, "champ/a.png", data); err != nil {
			t.Fatalf("failed to seed local file: %v", err)
		}

		task := models.NewSyncTask("http://x/a.png", "champ/a.png", nil)
		decision, err := Decide(ctx, fetcher, dest, task)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if decision.Status != models.StatusSkipped {
			t.Errorf("Status = %s, want %s", decision.Status, models.StatusSkipped)
		}
		if decision.ShouldWrite {
			t.Error("ShouldWrite = true, want false")
		}
	})

	t.Run("ChangedFile", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		fetcher.serve("http://x/a.png", []byte("version two"))

		if err := dest.Write(ctx, "champ/a.png", []byte("version one")); err != nil {
			t.Fatalf("failed to seed local file: %v", err)
		}

		task := models.NewSyncTask("http://x/a.png", "champ/a.png", nil)
		decision, err := Decide(ctx, fetcher, dest, task)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if decision.Status != models.StatusUpdated {
			t.Errorf("Status = %s, want %s", decision.Status, models.StatusUpdated)
		}
		if !decision.ShouldWrite {
			t.Error("ShouldWrite = false, want true")
		}
	})

	t.Run("FetchFailure", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		fetcher.fail("http://x/a.png", errors.New("connection reset"))

		task := models.NewSyncTask("http://x/a.png", "champ/a.png", nil)
		decision, err := Decide(ctx, fetcher, dest, task)
		if err == nil {
			t.Fatal("Decide() should propagate the fetch error")
		}
		if decision.Status != models.StatusFailed {
			t.Errorf("Status = %s, want %s", decision.Status, models.StatusFailed)
		}
		if decision.ShouldWrite {
			t.Error("ShouldWrite = true, want false")
		}
	})

	t.Run("FetchFailureLeavesLocalFileAlone", func(t *testing.T) {
		dest := newTestBackend(t)
		fetcher := newFakeFetcher()
		fetcher.fail("http://x/a.png", errors.New("timeout"))

		original := []byte("good local copy")
		if err := dest.Write(ctx, "champ/a.png", original); err != nil {
			t.Fatalf("failed to seed local file: %v", err)
		}

		task := models.NewSyncTask("http://x/a.png", "champ/a.png", nil)
		if _, err := Decide(ctx, fetcher, dest, task); err == nil {
			t.Fatal("Decide() should fail")
		}

		got, err := os.ReadFile(filepath.Join(dest.Root(), "champ", "a.png"))
		if err != nil {
			t.Fatalf("failed to read local file: %v", err)
		}
		if string(got) != string(original) {
			t.Errorf("local file changed: %q, want %q", got, original)
		}
	})
}
