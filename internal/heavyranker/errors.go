package heavyranker

import (
	"errors"
	"fmt"
)

// ProcessError covers every way the heavy-scorer subprocess can fail to
// run: spawn failure, non-zero exit, timeout. Always recoverable by the
// local fallback.
type ProcessError struct {
	Reason string // "spawn", "exit", "timeout"
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("heavyranker: %s failure: %v (stderr: %s)", e.Reason, e.Err, e.Stderr)
	}
	return fmt.Sprintf("heavyranker: %s failure: %v", e.Reason, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// MalformedResponseError means the process exited cleanly but its stdout
// did not satisfy the response schema. Also recoverable via fallback.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("heavyranker: malformed response: %s", e.Reason)
}

// Recoverable reports whether err is a primary-path failure the
// orchestrator may absorb by falling back to local scoring.
func Recoverable(err error) bool {
	var pe *ProcessError
	var me *MalformedResponseError
	return errors.As(err, &pe) || errors.As(err, &me)
}
