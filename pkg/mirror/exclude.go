package mirror

import (
	"path/filepath"
	"strings"
)

// Excluded checks if a destination path matches any exclude pattern.
// Patterns support:
//   - basename globs: *.ogg, *.webp
//   - directory patterns: audio/, Loading/
//   - path globs: Ahri/skins/*
func Excluded(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory pattern: matches the path anywhere below that directory
		if strings.HasSuffix(normalizedPattern, "/") {
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			if normalizedPath == dirPattern ||
				strings.HasPrefix(normalizedPath, dirPattern+"/") ||
				strings.Contains(normalizedPath, "/"+dirPattern+"/") {
				return true
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			// Pattern applies to the full path
			if matched, _ := filepath.Match(normalizedPattern, normalizedPath); matched {
				return true
			}
			if strings.HasSuffix(normalizedPath, "/"+normalizedPattern) {
				return true
			}
		} else {
			// Pattern applies to the basename only
			if matched, _ := filepath.Match(normalizedPattern, baseName); matched {
				return true
			}
		}
	}

	return false
}
