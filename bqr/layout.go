package bqr

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

// field binds one wire field to the struct member that holds it. The pointer type decides
// the width: *uint8 and *int8 take one byte, *uint16 two, *uint32 four and *btcodec.Addr six.
// All integers are little-endian.
type field struct {
	name string
	ptr  interface{}
}

// layout is the ordered wire description of a record, used for both decode and encode.
type layout []field

func fieldWidth(f field) int {
	switch f.ptr.(type) {
	case *uint8, *int8:
		return 1
	case *uint16:
		return 2
	case *uint32:
		return 4
	case *btcodec.Addr:
		return 6
	default:
		panic(fmt.Sprintf("bqr: unsupported field type %T for %v", f.ptr, f.name))
	}
}

func (l layout) size() int {
	n := 0
	for _, f := range l {
		n += fieldWidth(f)
	}
	return n
}

func (l layout) decode(b []byte, offset int) error {
	sz := l.size()
	if offset < 0 || offset > len(b) || len(b)-offset < sz {
		return errors.WithStack(&TruncatedError{Offset: offset, Want: sz, Have: len(b) - offset})
	}

	i := offset
	for _, f := range l {
		switch p := f.ptr.(type) {
		case *uint8:
			*p = b[i]
		case *int8:
			*p = int8(b[i])
		case *uint16:
			*p = binary.LittleEndian.Uint16(b[i:])
		case *uint32:
			*p = binary.LittleEndian.Uint32(b[i:])
		case *btcodec.Addr:
			*p = btcodec.AddrFromWire(b[i : i+6])
		}
		i += fieldWidth(f)
	}
	return nil
}

func (l layout) encode() []byte {
	b := make([]byte, 0, l.size())
	for _, f := range l {
		switch p := f.ptr.(type) {
		case *uint8:
			b = append(b, *p)
		case *int8:
			b = append(b, byte(*p))
		case *uint16:
			b = append(b, byte(*p), byte(*p>>8))
		case *uint32:
			b = append(b, byte(*p), byte(*p>>8), byte(*p>>16), byte(*p>>24))
		case *btcodec.Addr:
			b = append(b, p.Wire()...)
		default:
			// panics
			fieldWidth(f)
		}
	}
	return b
}
