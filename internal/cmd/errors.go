package cmd

import (
	"context"
	"errors"

	"github.com/hironow/transync"
)

// Process exit codes other than the generic 1.
const (
	ExitInvalidCatalog = 2   // a catalog failed validation
	ExitInterrupted    = 130 // SIGINT / SIGTERM
)

// ExitError wraps an error with a specific process exit code.
// Use errors.As to extract it from an error chain.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// catalogExit attaches the exit code matching a sync or prune failure.
func catalogExit(err error) error {
	if err == nil {
		return nil
	}
	var sv *transync.SchemaViolation
	if errors.As(err, &sv) {
		return &ExitError{Code: ExitInvalidCatalog, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ExitError{Code: ExitInterrupted, Err: err}
	}
	return err
}
