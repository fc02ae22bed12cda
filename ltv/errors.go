package ltv

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is matched when a length byte claims more bytes than remain.
	ErrTruncated = errors.New("ltv: truncated record")

	// ErrNoEntriesParsed is matched when a buffer with a non-zero leading length byte
	// produced no entries at all.
	ErrNoEntriesParsed = errors.New("ltv: no entries parsed")

	// ErrValueTooLarge is returned by Encode for values that overflow the length byte.
	ErrValueTooLarge = errors.New("ltv: value too large")
)

// DecodeError describes a truncated record.
type DecodeError struct {
	// Offset of the length byte of the bad record.
	Offset int
	// Want is the record length claimed by the length byte.
	Want int
	// Have is the number of bytes actually left after the length byte.
	Have int
	// First is set when the bad record is the first one in the buffer, so nothing was
	// decoded.
	First bool
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("ltv: truncated record at offset %v: want %v bytes, have %v", e.Offset, e.Want, e.Have)
	if e.First {
		msg += " (no entries parsed)"
	}
	return msg
}

func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrTruncated:
		return true
	case ErrNoEntriesParsed:
		return e.First
	}
	return false
}

// EncodeError reports the entry that could not be encoded.
type EncodeError struct {
	Type byte
	Len  int
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("ltv: value too large for type 0x%02x: %v bytes, max %v", e.Type, e.Len, MaxValueLen)
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrValueTooLarge
}
