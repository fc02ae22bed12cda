package ltv

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

type testPdu struct {
	b []byte
}

func (t *testPdu) addBad(recTyp byte, badRecLen byte, recBytes []byte) {
	t.b = append(t.b, badRecLen, recTyp)
	t.b = append(t.b, recBytes...)
}

func (t *testPdu) add(recTyp byte, recBytes []byte) {
	lb := byte(len(recBytes) + 1)
	t.b = append(t.b, lb, recTyp)
	t.b = append(t.b, recBytes...)
}

func (t *testPdu) bytes() []byte {
	return t.b
}

func TestDecodeProgramInfo(t *testing.T) {
	es, err := Decode([]byte{0x02, 0x03, 0x41})
	if err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}

	exp := Entries{{Type: 0x03, Value: []byte{0x41}}}
	if !reflect.DeepEqual(es, exp) {
		t.Fatalf("expected %v, got %v", exp, es)
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, b := range [][]byte{nil, {}} {
		es, err := Decode(b)
		if err != nil {
			t.Fatalf("expected nil error but got %s instead", err)
		}
		if len(es) != 0 {
			t.Fatalf("expected no entries, got %v", es)
		}
	}
}

func TestDecodeMultiple(t *testing.T) {
	p := testPdu{}
	p.add(0x03, []byte("A"))
	p.add(0x04, []byte("eng"))
	p.add(0x03, []byte("second"))
	p.add(0x7f, nil)

	es, err := Decode(p.bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(es) != 4 {
		t.Fatalf("expected 4 entries, got %v", len(es))
	}

	// scan order is kept, duplicates included
	types := []byte{0x03, 0x04, 0x03, 0x7f}
	for i, e := range es {
		if e.Type != types[i] {
			t.Fatalf("entry %v: expected type %x, got %x", i, types[i], e.Type)
		}
	}

	first, ok := es.First(0x03)
	if !ok || string(first.Value) != "A" {
		t.Fatalf("expected first program info A, got %v %v", first, ok)
	}
	if len(es[3].Value) != 0 {
		t.Fatalf("expected empty value, got %x", es[3].Value)
	}
}

func TestDecodeZeroLengthTerminates(t *testing.T) {
	p := testPdu{}
	p.add(0x03, []byte("A"))
	p.b = append(p.b, 0x00, 0xde, 0xad, 0xbe, 0xef)

	es, err := Decode(p.bytes())
	if err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}
	if len(es) != 1 {
		t.Fatalf("expected 1 entry before terminator, got %v", es)
	}

	// a leading zero is not malformed, just empty
	es, err = Decode([]byte{0x00, 0x05, 0x01})
	if err != nil || len(es) != 0 {
		t.Fatalf("expected no entries and no error, got %v, %v", es, err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	tcs := []struct {
		name      string
		b         []byte
		noEntries bool
	}{
		{"length only", []byte{0x01}, true},
		{"missing value", []byte{0x04, 0x04, 0x65}, true},
		{"length 255", append([]byte{0xff, 0x03}, make([]byte, 10)...), true},
		{"second record", []byte{0x02, 0x03, 0x41, 0x05, 0x04, 0x65}, false},
		{"trailing length", []byte{0x02, 0x03, 0x41, 0x02}, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			es, err := Decode(tc.b)
			if err == nil {
				t.Fatalf("expected error, got entries %v", es)
			}
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("expected ErrTruncated, got %s", err)
			}
			if errors.Is(err, ErrNoEntriesParsed) != tc.noEntries {
				t.Fatalf("ErrNoEntriesParsed match: expected %v, err %s", tc.noEntries, err)
			}
			if es != nil {
				t.Fatalf("expected no partial entries, got %v", es)
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecodeCorruptLength(t *testing.T) {
	b := []byte{0x10, 0x20, 0x30}

	p := testPdu{}
	p.addBad(0x03, byte(len(b)+32), b)
	if _, err := Decode(p.bytes()); !errors.Is(err, ErrTruncated) {
		t.Fatalf("corrupt length +32: expected ErrTruncated, got %v", err)
	}

	p = testPdu{}
	p.addBad(0x03, 255, b)
	if _, err := Decode(p.bytes()); !errors.Is(err, ErrTruncated) {
		t.Fatalf("corrupt length 255: expected ErrTruncated, got %v", err)
	}
}

// Every prefix of a valid buffer must either decode or fail cleanly.
func TestDecodePrefixesNeverPanic(t *testing.T) {
	p := testPdu{}
	p.add(0x01, []byte{0x08})
	p.add(0x02, []byte{0x01})
	p.add(0x03, []byte{0x01, 0x00, 0x00, 0x00})
	p.add(0x04, []byte{0x28, 0x00})

	b := p.bytes()
	for i := 0; i <= len(b); i++ {
		_, err := Decode(b[:i])
		if err != nil && !errors.Is(err, ErrTruncated) {
			t.Fatalf("prefix %v: unexpected error %s", i, err)
		}
	}
}

func TestEncode(t *testing.T) {
	b, err := Encode(Entries{
		{Type: 0x04, Value: []byte("eng")},
		{Type: 0x03, Value: []byte("A")},
	})
	if err != nil {
		t.Fatal(err)
	}

	exp := []byte{0x04, 0x04, 0x65, 0x6e, 0x67, 0x02, 0x03, 0x41}
	if !bytes.Equal(b, exp) {
		t.Fatalf("expected [% x], got [% x]", exp, b)
	}

	b, err = Encode(nil)
	if err != nil || len(b) != 0 {
		t.Fatalf("expected empty encoding, got [% x], %v", b, err)
	}
}

func TestEncodeValueTooLarge(t *testing.T) {
	ok := Entries{{Type: 0x01, Value: make([]byte, MaxValueLen)}}
	b, err := Encode(ok)
	if err != nil {
		t.Fatalf("max length value: %s", err)
	}
	if b[0] != 0xff {
		t.Fatalf("expected length byte 0xff, got %x", b[0])
	}

	bad := Entries{{Type: 0x02, Value: []byte{1}}, {Type: 0x01, Value: make([]byte, MaxValueLen+1)}}
	b, err = Encode(bad)
	if !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected ErrValueTooLarge, got %v", err)
	}
	if b != nil {
		t.Fatalf("expected no bytes, got %v", len(b))
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for n := 0; n < 200; n++ {
		var es Entries
		count := r.Intn(8) + 1
		for i := 0; i < count; i++ {
			v := make([]byte, r.Intn(MaxValueLen+1))
			r.Read(v)
			es = append(es, Entry{Type: byte(r.Intn(256)), Value: v})
		}

		b, err := Encode(es)
		if err != nil {
			t.Fatal(err)
		}
		dec, err := Decode(b)
		if err != nil {
			t.Fatalf("decode of encoded entries: %s", err)
		}
		if !reflect.DeepEqual(es, dec) {
			t.Fatalf("round trip mismatch:\n%v\n%v", es, dec)
		}

		// re-encoding is bit identical
		b2, err := Encode(dec)
		if err != nil || !bytes.Equal(b, b2) {
			t.Fatalf("re-encode mismatch: %v", err)
		}
	}
}

func TestDecodeCopiesValues(t *testing.T) {
	b := []byte{0x02, 0x03, 0x41}
	es, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	b[2] = 0x42
	if es[0].Value[0] != 0x41 {
		t.Fatalf("decoded value aliases the input buffer")
	}
}
