package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse         = errors.New("parse error")
	ErrUpstream      = errors.New("upstream error")
	ErrRateLimited   = errors.New("rate limited")
	ErrConflict      = errors.New("destination conflict")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Disposition tells the workflow runner what to do with a folder that failed.
type Disposition int

const (
	// DispositionSkip logs the failure and continues with the next folder.
	DispositionSkip Disposition = iota
	// DispositionAbort stops the whole run.
	DispositionAbort
)

func (d Disposition) String() string {
	if d == DispositionSkip {
		return "skip"
	}
	return "abort"
}

// FolderDisposition maps a per-folder error to the runner's reaction. Parse and
// validation failures never stop a run; cancellation always does. Everything
// else aborts unless continueOnError is set.
func FolderDisposition(err error, continueOnError bool) Disposition {
	switch {
	case err == nil:
		return DispositionSkip
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return DispositionAbort
	case errors.Is(err, ErrParse), errors.Is(err, ErrValidation):
		return DispositionSkip
	case continueOnError:
		return DispositionSkip
	default:
		return DispositionAbort
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
