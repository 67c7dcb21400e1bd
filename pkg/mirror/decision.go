package mirror

import (
	"context"
	"fmt"

	"github.com/ndelcroix/wikimirror/pkg/fetch"
	"github.com/ndelcroix/wikimirror/pkg/hashing"
	"github.com/ndelcroix/wikimirror/pkg/models"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// Decision is the outcome of comparing a task's remote content against
// its local file. It carries the fetched bytes so the caller can write
// them without a second fetch.
type Decision struct {
	Status      models.Status
	ShouldWrite bool
	Bytes       []byte
	Digest      hashing.Digest
}

// Decide fetches the remote content and determines whether the local
// file needs writing. The full payload is fetched and hashed before any
// filesystem access, so a failed or truncated fetch can never clobber a
// good local file. Decide itself never writes; writing is the caller's
// job, done only when ShouldWrite is true.
func Decide(ctx context.Context, fetcher fetch.Fetcher, dest storage.Backend, task models.SyncTask) (Decision, error) {
	data, err := fetcher.Fetch(ctx, task.URL)
	if err != nil {
		return Decision{Status: models.StatusFailed}, err
	}

	remoteDigest := hashing.Sum(data)

	exists, err := dest.Exists(ctx, task.LocalPath)
	if err != nil {
		return Decision{Status: models.StatusFailed}, err
	}

	if !exists {
		return Decision{
			Status:      models.StatusDownloaded,
			ShouldWrite: true,
			Bytes:       data,
			Digest:      remoteDigest,
		}, nil
	}

	localDigest, err := digestOfLocal(ctx, dest, task.LocalPath)
	if err != nil {
		return Decision{Status: models.StatusFailed}, err
	}

	if localDigest == remoteDigest {
		return Decision{
			Status: models.StatusSkipped,
			Bytes:  data,
			Digest: remoteDigest,
		}, nil
	}

	return Decision{
		Status:      models.StatusUpdated,
		ShouldWrite: true,
		Bytes:       data,
		Digest:      remoteDigest,
	}, nil
}

// digestOfLocal hashes an existing file on the destination backend
func digestOfLocal(ctx context.Context, dest storage.Backend, path string) (hashing.Digest, error) {
	reader, err := dest.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to read local file: %w", err)
	}
	defer reader.Close()

	return hashing.SumReader(reader)
}
