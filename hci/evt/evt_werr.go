package evt

import (
	"github.com/pkg/errors"
)

var ErrIndex = errors.New("index error")

func (p Packet) IndicatorWErr() (uint8, error) {
	return getByte(p, 0, 0)
}

func (p Packet) CodeWErr() (uint8, error) {
	return getByte(p, 1, 0)
}

func (p Packet) ParametersWErr() ([]byte, error) {
	l, err := getByte(p, 2, 0)
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return []byte{}, nil
	}
	return getBytes(p, 3, int(l))
}

func (p Packet) VendorSpecificWErr() (VendorSpecific, error) {
	ind, err := p.IndicatorWErr()
	if err != nil {
		return nil, err
	}
	if ind != IndicatorEvent {
		return nil, errors.Errorf("not an event packet: indicator 0x%02x", ind)
	}

	c, err := p.CodeWErr()
	if err != nil {
		return nil, err
	}
	if c != VendorSpecificCode {
		return nil, errors.Errorf("not a vendor specific event: code 0x%02x", c)
	}

	b, err := p.ParametersWErr()
	if err != nil {
		return nil, err
	}
	return VendorSpecific(b), nil
}

func (e VendorSpecific) SubeventCodeWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e VendorSpecific) DataWErr() ([]byte, error) {
	if len(e) == 1 {
		return []byte{}, nil
	}
	return getBytes(e, 1, -1)
}

func (e VendorSpecific) BQRWErr() ([]byte, error) {
	se, err := e.SubeventCodeWErr()
	if err != nil {
		return nil, err
	}
	if se != BQRSubevent {
		return nil, errors.Errorf("not a quality report: subevent 0x%02x", se)
	}
	return e.DataWErr()
}

//get or default
func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if bytes == nil || start >= len(bytes) {
		return nil, errors.WithStack(ErrIndex)
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(bytes) {
		return nil, errors.WithStack(ErrIndex)
	}

	return bytes[start:end], nil
}
