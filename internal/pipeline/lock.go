package pipeline

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"github.com/hkteamnoob/naeonm/internal/planner"
)

// ErrBusy is returned when another operation already holds the input's lock.
var ErrBusy = errors.New("another operation is editing this file")

// LockPath is the advisory lock file guarding input and its temp output.
func LockPath(input string) string {
	return planner.TempPath(input) + ".lock"
}

// lockInput takes the per-input lock without waiting. Operations on the same
// input share one temp path, so two of them must never overlap.
func lockInput(input string) (*flock.Flock, error) {
	fl := flock.New(LockPath(input))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", input, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, input)
	}
	return fl, nil
}

// unlockInput releases the lock. The lock file stays on disk: deleting it
// would let a waiter hold a lock on an unlinked inode while a newcomer
// locks a fresh file at the same path.
func unlockInput(fl *flock.Flock) {
	if fl == nil {
		return
	}
	_ = fl.Unlock()
}
