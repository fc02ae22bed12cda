package btcodec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ZeroAddr is substituted for remote addresses that fail validation.
const ZeroAddr = "00:00:00:00:00:00"

// Addr is a BD_ADDR held in display order: Addr[0] is the most significant octet,
// the first one printed.
type Addr [6]byte

// AddrFromWire builds an Addr from the little-endian byte order used on the HCI wire.
func AddrFromWire(b []byte) Addr {
	var a Addr
	for i := 0; i < len(a) && i < len(b); i++ {
		a[len(a)-1-i] = b[i]
	}
	return a
}

// Wire returns the address in HCI (little-endian) byte order.
func (a Addr) Wire() []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[len(a)-1-i] = a[i]
	}
	return out
}

// String renders the address as XX:XX:XX:XX:XX:XX, upper case.
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Addr) UnmarshalText(b []byte) error {
	v, err := ParseAddr(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAddr parses XX:XX:XX:XX:XX:XX in either case.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	if !CheckAddr(s) {
		return a, fmt.Errorf("invalid address %q", s)
	}

	b, err := hex.DecodeString(strings.Replace(s, ":", "", -1))
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

// CheckAddr reports whether s is a well formed BD_ADDR string. Lower case hex digits are
// accepted.
func CheckAddr(s string) bool {
	if len(s) != 17 {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if i%3 == 2 {
			if c != ':' {
				return false
			}
			continue
		}

		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'F':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
