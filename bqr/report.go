// Package bqr decodes Bluetooth Quality Report events raised by the controller firmware.
//
// A report is a 55 byte common header followed by a vendor specific payload chosen by the
// header's quality report id. Monitor reports carry no payload.
package bqr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

// Report is a decoded quality report together with the identity of the remote device it
// describes.
type Report struct {
	RemoteAddress  string
	LmpVersion     int
	LmpSubVersion  int
	ManufacturerID int
	RemoteName     string
	ClassOfDevice  uint32

	common *Common
	event  Event
}

// Decode reads the common header and the matching payload from raw.
func Decode(raw []byte) (*Common, Event, error) {
	c, err := DecodeCommon(raw, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "common header")
	}

	e, err := DecodeEvent(c.QualityReportID, raw, CommonLen)
	if err != nil {
		return nil, nil, err
	}
	return c, e, nil
}

// Encode writes the common header followed by the payload, the inverse of Decode.
// The payload must match the header's report id.
func Encode(c *Common, e Event) ([]byte, error) {
	if c == nil {
		return nil, errors.New("bqr: nil common header")
	}

	want, err := newEvent(c.QualityReportID)
	if err != nil {
		return nil, err
	}

	switch {
	case want == nil && e != nil:
		return nil, errors.Errorf("bqr: %v report carries no payload, got %T", c.QualityReportID, e)
	case want != nil && e == nil:
		return nil, errors.Errorf("bqr: %v report needs a payload", c.QualityReportID)
	case want != nil && want.ReportID() != e.ReportID():
		return nil, errors.Errorf("bqr: payload %T does not match report id %v", e, c.QualityReportID)
	}

	b := c.layout().encode()
	if e != nil {
		b = append(b, e.layout().encode()...)
	}
	return b, nil
}

func (r *Report) ReportID() ReportID {
	return r.common.QualityReportID
}

// Common returns a copy of the header.
func (r *Report) Common() *Common {
	c := *r.common
	return &c
}

// Event returns a copy of the vendor payload, nil for Monitor reports.
func (r *Report) Event() Event {
	return cloneEvent(r.event)
}

// Bytes re-encodes the report in the controller wire layout.
func (r *Report) Bytes() ([]byte, error) {
	return Encode(r.common, r.event)
}

// Record converts the report to its persisted form.
func (r *Report) Record() (btcodec.ReportRecord, error) {
	raw, err := r.Bytes()
	if err != nil {
		return btcodec.ReportRecord{}, err
	}

	return btcodec.ReportRecord{
		RemoteAddress:  r.RemoteAddress,
		LmpVersion:     r.LmpVersion,
		LmpSubVersion:  r.LmpSubVersion,
		ManufacturerID: r.ManufacturerID,
		RemoteName:     r.RemoteName,
		ClassOfDevice:  r.ClassOfDevice,
		Raw:            raw,
	}, nil
}

// FromRecord rebuilds a report from its persisted form.
func FromRecord(rec btcodec.ReportRecord) (*Report, error) {
	return NewBuilder(rec.Raw).
		SetRemoteAddress(rec.RemoteAddress).
		SetLmpVersion(rec.LmpVersion).
		SetLmpSubVersion(rec.LmpSubVersion).
		SetManufacturerID(rec.ManufacturerID).
		SetRemoteName(rec.RemoteName).
		SetClassOfDevice(rec.ClassOfDevice).
		Build()
}

func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString("BQR: {\n")
	fmt.Fprintf(&sb, "  Addr: %v, LmpVer: 0x%02X, LmpSubVer: 0x%04X, ManufacturerId: 0x%04X, Name: %v, Class: 0x%06X,\n",
		r.RemoteAddress, r.LmpVersion, r.LmpSubVersion, r.ManufacturerID, r.RemoteName, r.ClassOfDevice)
	sb.WriteString(r.common.String())
	sb.WriteString("\n")
	if r.event != nil {
		sb.WriteString(r.event.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Builder collects the remote device identity before decoding the raw report bytes.
type Builder struct {
	raw            []byte
	remoteAddr     string
	lmpVer         int
	lmpSubVer      int
	manufacturerID int
	remoteName     string
	classOfDevice  uint32
}

func NewBuilder(raw []byte) *Builder {
	return &Builder{raw: raw}
}

// SetRemoteAddress sets the big-endian XX:XX:XX:XX:XX:XX address of the remote device.
func (b *Builder) SetRemoteAddress(addr string) *Builder {
	b.remoteAddr = addr
	return b
}

func (b *Builder) SetLmpVersion(v int) *Builder {
	b.lmpVer = v
	return b
}

func (b *Builder) SetLmpSubVersion(v int) *Builder {
	b.lmpSubVer = v
	return b
}

func (b *Builder) SetManufacturerID(id int) *Builder {
	b.manufacturerID = id
	return b
}

func (b *Builder) SetRemoteName(name string) *Builder {
	b.remoteName = name
	return b
}

func (b *Builder) SetClassOfDevice(cod uint32) *Builder {
	b.classOfDevice = cod
	return b
}

// Build decodes the raw bytes. Malformed or unsupported reports fail; an invalid remote
// address is replaced by btcodec.ZeroAddr rather than failing.
func (b *Builder) Build() (*Report, error) {
	lg := btcodec.GetLogger().ChildLogger(map[string]interface{}{"pkg": "bqr"})

	addr := b.remoteAddr
	if !btcodec.CheckAddr(addr) {
		lg.Debugf("remote addr is invalid: %q", addr)
		addr = btcodec.ZeroAddr
	}
	if b.remoteName == "" {
		lg.Debug("remote name is empty")
	}

	c, e, err := Decode(b.raw)
	if err != nil {
		return nil, errors.Wrap(err, "build quality report")
	}

	return &Report{
		RemoteAddress:  strings.ToUpper(addr),
		LmpVersion:     b.lmpVer,
		LmpSubVersion:  b.lmpSubVer,
		ManufacturerID: b.manufacturerID,
		RemoteName:     b.remoteName,
		ClassOfDevice:  b.classOfDevice,
		common:         c,
		event:          e,
	}, nil
}
