// Package fsutil provides file system utility functions shared by the
// pipeline stages.
package fsutil

import (
	"fmt"
	"os"
)

// Exists reports whether a path is present on disk. Only genuine I/O
// failures are returned as errors; a missing path is (false, nil).
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// ClearDirs recursively removes each of the given directory trees. A path
// that does not exist is not an error; any other failure aborts immediately.
func ClearDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("clearing %s: %w", p, err)
		}
	}
	return nil
}
