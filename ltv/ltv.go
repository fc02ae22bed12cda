// Package ltv encodes and decodes the length-type-value structures used by Bluetooth
// Generic Audio metadata (codec specific configuration, content metadata).
//
// Each record is laid out as
//
//	[length][type][value ...]
//
// where length counts the type byte plus the value bytes. A length byte of zero ends the
// record list; anything after it is ignored.
package ltv

import (
	"fmt"
)

// MaxValueLen is the largest value that fits behind a one byte length field.
const MaxValueLen = 0xff - 1

// Entry is a single type/value record.
type Entry struct {
	Type  byte
	Value []byte
}

// Len returns the number of bytes the entry occupies once encoded.
func (e Entry) Len() int {
	return 2 + len(e.Value)
}

func (e Entry) String() string {
	return fmt.Sprintf("{type: 0x%02x, value: [% x]}", e.Type, e.Value)
}

// Decode parses buf into its entries, in buffer order. An empty buffer yields no entries and
// no error.
func Decode(buf []byte) (Entries, error) {
	var out Entries

	for i := 0; i < len(buf); {
		//length @ offset 0
		//type @ offset 1
		//data @ 2 - (length)
		length := int(buf[i])
		if length == 0 {
			break
		}

		//do we have the type byte and all the bytes for the payload?
		if i+length >= len(buf) {
			return nil, &DecodeError{
				Offset: i,
				Want:   length,
				Have:   len(buf) - i - 1,
				First:  len(out) == 0,
			}
		}

		start := i + 2
		end := i + 1 + length
		v := make([]byte, end-start)
		copy(v, buf[start:end])
		out = append(out, Entry{Type: buf[i+1], Value: v})

		i = end
	}

	return out, nil
}

// Encode serializes entries in order. It fails with ErrValueTooLarge, and returns no bytes,
// if any value is longer than MaxValueLen.
func Encode(entries Entries) ([]byte, error) {
	n := 0
	for _, e := range entries {
		if len(e.Value) > MaxValueLen {
			return nil, &EncodeError{Type: e.Type, Len: len(e.Value)}
		}
		n += e.Len()
	}

	b := make([]byte, 0, n)
	for _, e := range entries {
		b = append(b, byte(len(e.Value)+1), e.Type)
		b = append(b, e.Value...)
	}
	return b, nil
}

// MustEncode is like Encode but panics on error. It is meant for fixed, known good entries.
func MustEncode(entries Entries) []byte {
	b, err := Encode(entries)
	if err != nil {
		panic(err)
	}
	return b
}
