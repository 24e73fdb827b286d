package pipeline

import "fmt"

// EnvironmentError reports a fatal toolchain setup failure.
type EnvironmentError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment stage failed: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *EnvironmentError) Unwrap() error { return e.Err }

// BuildError reports a fatal packaging failure, including the case where
// the packaging tool exited 0 but left no artifact behind.
type BuildError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build stage failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("build stage failed: %s", e.Reason)
}

// Unwrap exposes the underlying cause.
func (e *BuildError) Unwrap() error { return e.Err }

// SigningError is advisory: it is recorded on the stage result and logged,
// never returned up the fatal path.
type SigningError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *SigningError) Unwrap() error { return e.Err }

// PublishError is advisory: publishing is a side effect independent of the
// artifact's usability, so it never blocks the rest of the run.
type PublishError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing failed: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PublishError) Unwrap() error { return e.Err }

// InvocationExitError carries the built artifact's own non-zero exit status
// so the orchestrator can propagate it verbatim as its final exit code.
type InvocationExitError struct {
	Code int
}

// Error implements the error interface.
func (e *InvocationExitError) Error() string {
	return fmt.Sprintf("built artifact exited with code %d", e.Code)
}
