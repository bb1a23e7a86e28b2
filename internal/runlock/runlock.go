// Package runlock serializes fetch runs against an output tree.
//
// Two concurrent runs writing the same tree would race each other's
// existence checks, so the fetch command takes a flock-based lock file at
// the output root and refuses to start while another run holds it.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".boxart.lock"

// Lock is a held run lock. Release it when the run finishes.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the run lock for the given output directory, creating the
// directory if needed. It fails immediately (rather than blocking) when
// another process holds the lock.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another boxart run is writing to %s (lock held at %s)", dir, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}
