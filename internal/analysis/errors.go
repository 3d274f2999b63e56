package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyInput rejects blank text before it enters the pipeline.
var ErrEmptyInput = errors.New("analysis: input text is empty")

// LocalScoringError wraps a failure of the local scoring path. There is no
// further fallback behind it, so callers see it as fatal.
type LocalScoringError struct {
	Err error
}

func (e *LocalScoringError) Error() string {
	return fmt.Sprintf("analysis: local scoring failed: %v", e.Err)
}

func (e *LocalScoringError) Unwrap() error { return e.Err }
