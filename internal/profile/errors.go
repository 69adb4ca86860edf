package profile

import (
	"errors"
	"fmt"
)

// ErrNormalization is matched by every *NormalizationError via errors.Is.
var ErrNormalization = errors.New("profile normalization failed")

// NormalizationError reports input that cannot be turned into a Profile.
type NormalizationError struct {
	Input  string
	Reason string
}

func (e *NormalizationError) Error() string {
	in := e.Input
	if len(in) > 40 {
		in = in[:40] + "..."
	}
	return fmt.Sprintf("normalizing %q: %s", in, e.Reason)
}

func (e *NormalizationError) Is(target error) bool { return target == ErrNormalization }
