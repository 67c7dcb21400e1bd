package models

// SyncTask pairs a remote resource with a local destination path.
// Metadata carries arbitrary descriptive fields through to the index.
// A task is immutable once created.
type SyncTask struct {
	// URL is the remote locator of the asset
	URL string

	// LocalPath is the destination path, relative to the output root
	LocalPath string

	// Metadata holds descriptive fields (e.g. champion, skin, category)
	// that are written alongside the asset in the index
	Metadata map[string]string
}

// NewSyncTask creates a task with a defensive copy of the metadata map
func NewSyncTask(url, localPath string, metadata map[string]string) SyncTask {
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return SyncTask{
		URL:       url,
		LocalPath: localPath,
		Metadata:  meta,
	}
}

// Meta returns the metadata value for key, or empty string if absent
func (t SyncTask) Meta(key string) string {
	return t.Metadata[key]
}

// Validate checks that the task is well-formed
func (t SyncTask) Validate() error {
	if t.URL == "" {
		return &ValidationError{Field: "URL", Message: "remote locator is required"}
	}
	if t.LocalPath == "" {
		return &ValidationError{Field: "LocalPath", Message: "local path is required"}
	}
	return nil
}
