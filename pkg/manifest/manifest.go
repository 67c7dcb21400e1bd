package manifest

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ndelcroix/wikimirror/internal/platform"
	"github.com/ndelcroix/wikimirror/pkg/models"
)

// Manifest is the parsed task list handed to the mirror engine
type Manifest struct {
	// Tasks in file order
	Tasks []models.SyncTask
	// MetaColumns is the metadata column order carried into the index
	MetaColumns []string
}

// Load parses a manifest file, dispatching on the file extension
// (.csv, .yaml, .yml)
func Load(path string) (*Manifest, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", filepath.Ext(path))
	}
}

// validate enforces the task contract: well-formed tasks, absolute
// http(s) locators, platform-valid paths, and no duplicate local paths
// (two tasks writing the same file concurrently race undefined)
func (m *Manifest) validate() error {
	seen := make(map[string]int, len(m.Tasks))

	for i, task := range m.Tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}

		u, err := url.Parse(task.URL)
		if err != nil {
			return fmt.Errorf("task %d: invalid url %q: %w", i+1, task.URL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("task %d: unsupported url scheme %q", i+1, u.Scheme)
		}

		if filepath.IsAbs(task.LocalPath) {
			return fmt.Errorf("task %d: path %q must be relative to the output root", i+1, task.LocalPath)
		}
		if err := platform.ValidatePath(task.LocalPath); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}

		key := filepath.ToSlash(task.LocalPath)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("task %d: duplicate local path %q (first used by task %d)", i+1, task.LocalPath, prev)
		}
		seen[key] = i + 1
	}

	return nil
}

// metaColumnsFromTasks returns the sorted union of metadata keys,
// used when the manifest format has no inherent column order
func metaColumnsFromTasks(tasks []models.SyncTask) []string {
	set := make(map[string]struct{})
	for _, task := range tasks {
		for k := range task.Metadata {
			set[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
