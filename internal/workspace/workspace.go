// Package workspace manages the scratch directory used to stage
// intermediate records during an anonymized run.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the staging directory under the output location.
const DirName = "temp"

// ErrIO is returned when the staging directory cannot be created or removed.
var ErrIO = errors.New("workspace I/O failure")

// Path returns the staging directory for base without touching the disk.
func Path(base string) string {
	return filepath.Join(base, DirName)
}

// Create makes sure base/temp exists and returns its path. It is a no-op
// when the directory is already present.
func Create(base string) (string, error) {
	path := Path(base)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("%w: could not create %s: %v", ErrIO, path, err)
	}
	return path, nil
}

// Destroy removes the staging directory and everything in it.
func Destroy(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: could not remove %s: %v", ErrIO, path, err)
	}
	return nil
}
