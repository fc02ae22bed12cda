package h4

import (
	"encoding/binary"
	"time"

	"github.com/rigado/btcodec/hci/evt"
)

const (
	headerLengthEvent = 3
	headerLengthACL   = 5

	DefaultFrameTimeout = 500 * time.Millisecond
)

// Assembler splits an H4 byte stream into whole event and ACL frames. Bytes ahead of a packet
// indicator are dropped and a partial frame older than the timeout is discarded.
type Assembler struct {
	b        []byte
	deadline time.Time
	timeout  time.Duration
	emit     func([]byte)
	now      func() time.Time
}

// NewAssembler returns an Assembler passing each complete frame to emit. The frame is a
// fresh copy owned by the callee.
func NewAssembler(timeout time.Duration, emit func([]byte)) *Assembler {
	if timeout <= 0 {
		timeout = DefaultFrameTimeout
	}

	a := &Assembler{
		timeout: timeout,
		emit:    emit,
		now:     time.Now,
	}
	a.reset()
	return a
}

func (a *Assembler) Assemble(b []byte) {
	if len(b) == 0 {
		// nothing to look at
		return
	}

	if !a.deadline.IsZero() && a.now().After(a.deadline) {
		// stale partial frame
		a.reset()
	}
	a.b = append(a.b, b...)

	for len(a.b) > 0 {
		if a.deadline.IsZero() {
			i := startIndex(a.b)
			if i < 0 {
				a.reset()
				return
			}
			a.b = a.b[i:]
			a.deadline = a.now().Add(a.timeout)
		}

		n, ok := frameLength(a.b)
		if !ok || len(a.b) < n {
			return
		}

		out := make([]byte, n)
		copy(out, a.b[:n])
		rem := a.b[n:]
		a.reset()
		a.b = append(a.b, rem...)
		a.emit(out)
	}
}

// Pending reports how many bytes of a partial frame are buffered.
func (a *Assembler) Pending() int {
	return len(a.b)
}

func (a *Assembler) reset() {
	a.b = make([]byte, 0, 256)
	a.deadline = time.Time{}
}

func startIndex(b []byte) int {
	for i, v := range b {
		switch v {
		case evt.IndicatorEvent, evt.IndicatorACL:
			return i
		}
	}
	return -1
}

func frameLength(b []byte) (int, bool) {
	switch b[0] {
	case evt.IndicatorEvent:
		if len(b) < headerLengthEvent {
			return 0, false
		}
		return int(b[2]) + headerLengthEvent, true

	case evt.IndicatorACL:
		if len(b) < headerLengthACL {
			return 0, false
		}
		return int(binary.LittleEndian.Uint16(b[3:5])) + headerLengthACL, true

	default:
		return 0, false
	}
}
