// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"sort"
	"strings"
)

// FindStemsByExtension searches the given directory (non-recursively) for all
// files ending with the specified extension and returns their base names with
// the extension stripped, sorted lexicographically.
func FindStemsByExtension(dir string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var stems []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		stems = append(stems, strings.TrimSuffix(e.Name(), extension))
	}
	sort.Strings(stems)
	return stems, nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates the directory and all missing parents. It is idempotent
// and safe under concurrent creation of sibling directories.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
