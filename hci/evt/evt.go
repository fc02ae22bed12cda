// Package evt provides views over raw HCI event bytes. Each getter has a WErr form that
// reports out of range reads; the plain form returns a default instead.
package evt

// H4 packet indicators.
const (
	IndicatorCommand = 0x01
	IndicatorACL     = 0x02
	IndicatorEvent   = 0x04
)

const (
	VendorSpecificCode = 0xff

	// BQRSubevent marks a vendor specific event carrying a quality report.
	BQRSubevent = 0x58
)

// Packet is an H4 event frame: [indicator][code][length][parameters].
type Packet []byte

// VendorSpecific holds the parameters of a vendor specific event: [subevent][data].
type VendorSpecific []byte

func (p Packet) Indicator() uint8 {
	v, _ := p.IndicatorWErr()
	return v
}

func (p Packet) Code() uint8 {
	v, _ := p.CodeWErr()
	return v
}

func (p Packet) Parameters() []byte {
	v, _ := p.ParametersWErr()
	return v
}

func (p Packet) VendorSpecific() (VendorSpecific, bool) {
	v, err := p.VendorSpecificWErr()
	return v, err == nil
}

func (e VendorSpecific) SubeventCode() uint8 {
	v, _ := e.SubeventCodeWErr()
	return v
}

func (e VendorSpecific) Data() []byte {
	v, _ := e.DataWErr()
	return v
}

// BQR returns the quality report bytes, nil if this is some other vendor event.
func (e VendorSpecific) BQR() []byte {
	v, _ := e.BQRWErr()
	return v
}
