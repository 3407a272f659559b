// Package globset expands doublestar glob patterns against a filesystem
// root, used by the batch command to resolve a manifest job's `glob`
// field into a concrete file list.
package globset

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand walks root and returns every regular file whose path relative
// to root matches pattern. Invalid patterns are reported immediately;
// per-file walk errors are skipped, matching the permissive behavior the
// rest of the codebase uses for exclusion-pattern matching.
func Expand(root, pattern string) ([]string, error) {
	if _, err := doublestar.Match(pattern, "probe"); err != nil {
		return nil, err
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		ok, err := doublestar.Match(pattern, rel)
		if err != nil || !ok {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
