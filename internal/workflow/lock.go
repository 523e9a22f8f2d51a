package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"moviefmt/internal/services"
)

const lockFileName = ".moviefmt.lock"

// acquireLock takes the single-writer lock in dir. The returned release
// function unlocks and removes the lock file.
func acquireLock(dir string) (func() error, error) {
	path := filepath.Join(dir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, "workflow", "acquire lock",
			fmt.Sprintf("another moviefmt run is writing to %s", dir), nil)
	}
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("release lock %s: %w", path, err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock %s: %w", path, err)
		}
		return nil
	}, nil
}
