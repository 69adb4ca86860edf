package composer

import (
	"errors"
	"fmt"

	"github.com/kalambet/coldreach/internal/profile"
)

var (
	// ErrGeneration is matched by every *GenerationError.
	ErrGeneration = errors.New("message generation failed")
	// ErrTimeout is matched by a *GenerationError caused by the per-call
	// deadline.
	ErrTimeout = errors.New("message generation timed out")

	errMalformed = errors.New("malformed completion")
)

// GenerationError reports a failed compose for one channel: the generator
// returned an error, exceeded its deadline, or produced output that could
// not be parsed after the retry.
type GenerationError struct {
	Channel  profile.Channel
	Attempts int
	Err      error
	timeout  bool
}

func (e *GenerationError) Error() string {
	if e.timeout {
		return fmt.Sprintf("generating %s message: timed out after %d attempt(s): %v", e.Channel, e.Attempts, e.Err)
	}
	return fmt.Sprintf("generating %s message: %v", e.Channel, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration || (e.timeout && target == ErrTimeout)
}

// Timeout reports whether the failure was a deadline.
func (e *GenerationError) Timeout() bool { return e.timeout }
