package bqr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTruncatedBuffer is matched when a buffer is too short for the record at the
	// requested offset.
	ErrTruncatedBuffer = errors.New("bqr: truncated buffer")

	// ErrUnknownReportID is returned for quality report ids without a known payload.
	ErrUnknownReportID = errors.New("bqr: unknown quality report id")
)

// TruncatedError carries the sizes involved in a short read.
type TruncatedError struct {
	Offset int
	Want   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("bqr: truncated buffer at offset %v: want %v bytes, have %v", e.Offset, e.Want, e.Have)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncatedBuffer
}
