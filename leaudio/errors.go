package leaudio

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedMetadata is matched by every metadata parse failure.
var ErrMalformedMetadata = errors.New("leaudio: malformed metadata")

// MalformedError wraps the reason a metadata buffer was rejected. errors.Is matches both
// ErrMalformedMetadata and the underlying cause (ltv.ErrTruncated and friends).
type MalformedError struct {
	What string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("leaudio: malformed %v: %v", e.What, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedMetadata
}

func malformed(what string, err error) error {
	return errors.WithStack(&MalformedError{What: what, Err: err})
}
