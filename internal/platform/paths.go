package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// DefaultDataDir returns the default mirror output directory
func DefaultDataDir() string {
	return "data"
}

// ValidatePath checks if a destination path is valid for the current
// platform. Wiki titles can contain characters that are legal in URLs
// but not in Windows filenames; manifests carrying such paths are
// rejected up front instead of failing halfway through a run.
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if strings.Contains(filepath.ToSlash(path), "../") {
		return &PathError{Path: path, Message: "path escapes the output root"}
	}

	if runtime.GOOS == "windows" {
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(path, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
