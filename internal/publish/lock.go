package publish

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another build holds the output directory.
var ErrLocked = errors.New("another build is publishing to this output directory")

// Lock is an advisory file lock guarding one output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath is the lock file used for output: ".<name>.lock" beside it.
func LockPath(output string) string {
	return filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+".lock")
}

// NewLock returns an unlocked lock for output.
func NewLock(output string) *Lock {
	path := LockPath(output)
	return &Lock{path: path, lock: flock.New(path)}
}

// Path is the lock file location.
func (l *Lock) Path() string { return l.path }

// TryLock acquires the lock without waiting. It returns ErrLocked when
// another process holds it.
func (l *Lock) TryLock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	return l.lock.Unlock()
}
