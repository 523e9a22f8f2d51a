package organizer

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ConflictError reports a destination that already holds a different file.
type ConflictError struct {
	Source      string
	Destination string
}

func (e *ConflictError) Error() string {
	if e == nil {
		return "destination conflict"
	}
	if e.Source == "" {
		return fmt.Sprintf("%s already exists and is not a directory", e.Destination)
	}
	return fmt.Sprintf("%s already exists; will not overwrite with %s", e.Destination, e.Source)
}

// IsConflict reports whether err carries a ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// outputUnavailableErrors indicate the output filesystem is gone rather than
// a problem with one file.
var outputUnavailableErrors = []error{
	syscall.ENODEV,
	syscall.ENOTCONN,
	syscall.EHOSTDOWN,
	syscall.EHOSTUNREACH,
	syscall.ETIMEDOUT,
	syscall.EIO,
	syscall.ESTALE,
}

func isOutputUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	for _, target := range outputUnavailableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
