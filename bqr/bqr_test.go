package bqr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/rigado/btcodec"
)

// addrOffset is where the 6 byte address starts inside the common header.
const addrOffset = 48

func commonBytes(id ReportID) []byte {
	b := make([]byte, CommonLen)
	b[0] = byte(id)
	return b
}

func TestLayoutSizes(t *testing.T) {
	tcs := []struct {
		name string
		l    layout
		sz   int
	}{
		{"common", (&Common{}).layout(), CommonLen},
		{"lsto", (&VsLsto{}).layout(), 23},
		{"a2dp", (&VsA2dpChoppy{}).layout(), 16},
		{"sco", (&VsScoChoppy{}).layout(), 33},
		{"connfail", (&ConnectFail{}).layout(), 1},
	}

	for _, tc := range tcs {
		if sz := tc.l.size(); sz != tc.sz {
			t.Fatalf("%v: expected %v bytes, got %v", tc.name, tc.sz, sz)
		}
	}

	if n := len((&VsScoChoppy{}).layout()); n != 18 {
		t.Fatalf("expected 18 sco choppy fields, got %v", n)
	}
}

func TestDecodeCommonZero(t *testing.T) {
	c, err := DecodeCommon(make([]byte, CommonLen), 0)
	if err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}

	if !reflect.DeepEqual(*c, Common{}) {
		t.Fatalf("expected zero header, got %+v", c)
	}
	if c.QualityReportID != 0 {
		t.Fatalf("expected report id 0, got %v", c.QualityReportID)
	}
	if c.Address() != "00:00:00:00:00:00" {
		t.Fatalf("expected zero address, got %v", c.Address())
	}
}

func TestDecodeCommonFields(t *testing.T) {
	b := commonBytes(ApproachLsto)
	b[1] = 0x11                                  // packet type TYPE_DH1
	binary.LittleEndian.PutUint16(b[2:], 0x0102) // handle
	b[4] = 1                                     // peripheral
	b[5] = 0x0a                                  // tx power
	b[6] = 0xc4                                  // rssi -60
	b[7] = 0xfe                                  // snr -2
	b[8] = 3
	b[9] = 4
	binary.LittleEndian.PutUint16(b[10:], 0x0c80)
	for i := 0; i < 9; i++ {
		binary.LittleEndian.PutUint32(b[12+4*i:], uint32(0x10000000+i))
	}
	copy(b[addrOffset:], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	b[54] = 7

	c, err := DecodeCommon(b, 0)
	if err != nil {
		t.Fatal(err)
	}

	exp := Common{
		QualityReportID:              ApproachLsto,
		PacketType:                   0x11,
		ConnectionHandle:             0x0102,
		ConnectionRole:               RolePeripheral,
		TxPowerLevel:                 0x0a,
		Rssi:                         -60,
		Snr:                          -2,
		UnusedAfhChannelCount:        3,
		AfhSelectUnidealChannelCount: 4,
		Lsto:                         0x0c80,
		PiconetClock:                 0x10000000,
		RetransmissionCount:          0x10000001,
		NoRxCount:                    0x10000002,
		NakCount:                     0x10000003,
		LastTxAckTimestamp:           0x10000004,
		FlowOffCount:                 0x10000005,
		LastFlowOnTimestamp:          0x10000006,
		OverflowCount:                0x10000007,
		UnderflowCount:               0x10000008,
		Addr:                         btcodec.Addr{0x06, 0x05, 0x04, 0x03, 0x02, 0x01},
		CalFailedItemCount:           7,
	}
	if !reflect.DeepEqual(*c, exp) {
		t.Fatalf("expected\n%+v\ngot\n%+v", exp, *c)
	}

	if c.Address() != "06:05:04:03:02:01" {
		t.Fatalf("expected reversed address, got %v", c.Address())
	}
	if c.PacketType.String() != "TYPE_DH1" {
		t.Fatalf("expected TYPE_DH1, got %v", c.PacketType)
	}
	if c.ConnectionRole.String() != "Peripheral" {
		t.Fatalf("expected Peripheral, got %v", c.ConnectionRole)
	}
}

func TestDecodeCommonOffset(t *testing.T) {
	b := append([]byte{0xaa, 0xbb, 0xcc}, commonBytes(ScoChoppy)...)
	c, err := DecodeCommon(b, 3)
	if err != nil {
		t.Fatal(err)
	}
	if c.QualityReportID != ScoChoppy {
		t.Fatalf("expected SCO choppy, got %v", c.QualityReportID)
	}
}

func TestDecodeCommonTruncated(t *testing.T) {
	for _, tc := range []struct {
		n, off int
	}{
		{0, 0},
		{CommonLen - 1, 0},
		{CommonLen, 1},
		{CommonLen, CommonLen + 10},
		{CommonLen, -1},
	} {
		_, err := DecodeCommon(make([]byte, tc.n), tc.off)
		if !errors.Is(err, ErrTruncatedBuffer) {
			t.Fatalf("len %v offset %v: expected ErrTruncatedBuffer, got %v", tc.n, tc.off, err)
		}
	}

	_, err := DecodeCommon(nil, 0)
	var te *TruncatedError
	if !errors.As(err, &te) || te.Want != CommonLen {
		t.Fatalf("expected TruncatedError wanting %v, got %v", CommonLen, err)
	}
}

func TestDecodeEventUnknown(t *testing.T) {
	for _, id := range []ReportID{0x00, 0x05, 0x06, 0x09, 0xff} {
		_, err := DecodeEvent(id, make([]byte, 128), 0)
		if !errors.Is(err, ErrUnknownReportID) {
			t.Fatalf("id 0x%02x: expected ErrUnknownReportID, got %v", uint8(id), err)
		}
	}
}

func TestDecodeEventMonitor(t *testing.T) {
	e, err := DecodeEvent(Monitor, nil, CommonLen)
	if err != nil || e != nil {
		t.Fatalf("expected no payload and no error, got %v, %v", e, err)
	}
}

func TestDecodeConnectFail(t *testing.T) {
	b := append(commonBytes(ConnFail), 0x08)

	c, e, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if c.QualityReportID != ConnFail {
		t.Fatalf("expected CONN_FAIL, got %v", c.QualityReportID)
	}

	cf, ok := e.(*ConnectFail)
	if !ok {
		t.Fatalf("expected *ConnectFail, got %T", e)
	}
	if cf.FailReason != 0x08 || cf.FailReason.String() != "Connection Timeout" {
		t.Fatalf("unexpected fail reason %v", cf.FailReason)
	}

	b[CommonLen] = 0x3a
	_, e, err = Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if s := e.(*ConnectFail).FailReason.String(); s != "Controller busy" {
		t.Fatalf("expected Controller busy, got %v", s)
	}
}

func TestDecodePayloads(t *testing.T) {
	lsto := []byte{
		0x84,                   // conn state sniff active
		0x01, 0x02, 0x03, 0x04, // baseband stats
		0x10, 0x00, 0x00, 0x00, // slots used
		0x02, 0x00,             // cxm denials
		0x03, 0x00,             // tx skipped
		0x04, 0x00,             // rf loss
		0xff, 0xff, 0xff, 0x0f, // native clock
		0x00, 0x00, 0x00, 0x80, // last tx ack
	}
	_, e, err := Decode(append(commonBytes(ApproachLsto), lsto...))
	if err != nil {
		t.Fatal(err)
	}
	exp := &VsLsto{
		ConnState:          ConnSniffActive,
		BasebandStats:      0x04030201,
		SlotsUsed:          16,
		CxmDenials:         2,
		TxSkipped:          3,
		RfLoss:             4,
		NativeClock:        0x0fffffff,
		LastTxAckTimestamp: 0x80000000,
	}
	if !reflect.DeepEqual(e, exp) {
		t.Fatalf("expected %+v, got %+v", exp, e)
	}

	a2dp := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x05, 0x00,
		0x06, 0x00,
		0x07, 0x00,
		0x09,
		0x02,
	}
	_, e, err = Decode(append(commonBytes(A2dpChoppy), a2dp...))
	if err != nil {
		t.Fatal(err)
	}
	ac, ok := e.(*VsA2dpChoppy)
	if !ok || ac.GlitchCount != 5 || ac.AclTxQueueLength != 9 || ac.LinkQuality != LinkQualityStandard {
		t.Fatalf("unexpected a2dp payload %+v", e)
	}

	sco := make([]byte, 33)
	binary.LittleEndian.PutUint16(sco[0:], 12)
	sco[2] = 6
	sco[3] = 2
	sco[4] = byte(AirModeTransparentMsbc)
	binary.LittleEndian.PutUint16(sco[31:], 0xbeef)
	_, e, err = Decode(append(commonBytes(ScoChoppy), sco...))
	if err != nil {
		t.Fatal(err)
	}
	sc, ok := e.(*VsScoChoppy)
	if !ok || sc.GlitchCount != 12 || sc.IntervalEsco != 6 || sc.WindowEsco != 2 ||
		sc.AirFormat != AirModeTransparentMsbc || sc.GoodRxFrameCount != 0xbeef {
		t.Fatalf("unexpected sco payload %+v", e)
	}
}

func TestDecodePayloadTruncated(t *testing.T) {
	for _, id := range []ReportID{ApproachLsto, A2dpChoppy, ScoChoppy, ConnFail} {
		n, err := EventLen(id)
		if err != nil {
			t.Fatal(err)
		}

		for short := 0; short < n; short++ {
			b := append(commonBytes(id), make([]byte, short)...)
			_, _, err := Decode(b)
			if !errors.Is(err, ErrTruncatedBuffer) {
				t.Fatalf("%v with %v payload bytes: expected ErrTruncatedBuffer, got %v", id, short, err)
			}
		}
	}
}

func TestEnumLeniency(t *testing.T) {
	if s := PacketType(200).String(); s != "INVALID" {
		t.Fatalf("packet type 200: %v", s)
	}
	if s := PacketType(0).String(); s != "INVALID" {
		t.Fatalf("packet type 0: %v", s)
	}
	if s := PacketType(28).String(); s != "TYPE_3DH5" {
		t.Fatalf("packet type 28: %v", s)
	}
	if PacketTypeFromOrdinal(29) != PacketTypeInvalid {
		t.Fatalf("expected invalid packet type")
	}

	if s := ConnState(0x01).String(); s != "INVALID" {
		t.Fatalf("conn state 0x01: %v", s)
	}
	if s := ConnState(0x81).String(); s != "CONN_ACTIVE" {
		t.Fatalf("conn state 0x81: %v", s)
	}

	if s := LinkQuality(5).String(); s != "INVALID" {
		t.Fatalf("link quality 5: %v", s)
	}
	if LinkQualityFromOrdinal(99) != LinkQualityInvalid || LinkQualityFromOrdinal(0) != LinkQualityUltraHigh {
		t.Fatalf("link quality ordinals")
	}

	if s := AirMode(4).String(); s != "INVALID" {
		t.Fatalf("air mode 4: %v", s)
	}
	if s := AirMode(2).String(); s != "CVSD" {
		t.Fatalf("air mode 2: %v", s)
	}

	if s := ConnectionRole(7).String(); s != "INVALID:7" {
		t.Fatalf("role 7: %v", s)
	}
	if s := ReportID(0x42).String(); s != "INVALID" {
		t.Fatalf("report id 0x42: %v", s)
	}
	if s := ConnectFailReason(0x01).String(); s != "INVALID" {
		t.Fatalf("fail reason 0x01: %v", s)
	}

	// out of range values still decode
	b := append(commonBytes(A2dpChoppy), make([]byte, 16)...)
	b[1] = 0xee
	b[CommonLen+15] = 0xee
	c, e, err := Decode(b)
	if err != nil {
		t.Fatalf("expected lenient decode, got %s", err)
	}
	if c.PacketType.String() != "INVALID" || e.(*VsA2dpChoppy).LinkQuality.String() != "INVALID" {
		t.Fatalf("expected INVALID renderings")
	}
	_ = c.String()
	_ = e.String()
}

func TestCommonRoundTrip(t *testing.T) {
	f := func(c Common) bool {
		b, err := c.MarshalBinary()
		if err != nil || len(b) != CommonLen {
			return false
		}

		d, err := DecodeCommon(b, 0)
		if err != nil || !reflect.DeepEqual(*d, c) {
			return false
		}

		b2, _ := d.MarshalBinary()
		return bytes.Equal(b, b2)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	check := func(e Event) {
		b, err := e.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}

		d, err := DecodeEvent(e.ReportID(), b, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(d, e) {
			t.Fatalf("round trip mismatch:\n%+v\n%+v", e, d)
		}
	}

	if err := quick.Check(func(v VsLsto) bool { check(&v); return true }, nil); err != nil {
		t.Fatal(err)
	}
	if err := quick.Check(func(v VsA2dpChoppy) bool { check(&v); return true }, nil); err != nil {
		t.Fatal(err)
	}
	if err := quick.Check(func(v VsScoChoppy) bool { check(&v); return true }, nil); err != nil {
		t.Fatal(err)
	}
	if err := quick.Check(func(v ConnectFail) bool { check(&v); return true }, nil); err != nil {
		t.Fatal(err)
	}
}

func TestUnmarshalBinary(t *testing.T) {
	var cf ConnectFail
	if err := cf.UnmarshalBinary([]byte{0x04}); err != nil || cf.FailReason != FailPageTimeout {
		t.Fatalf("unexpected %v, %v", cf, err)
	}

	var c Common
	if err := c.UnmarshalBinary(make([]byte, 10)); !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}
}

func TestEncodeMismatch(t *testing.T) {
	if _, err := Encode(&Common{QualityReportID: Monitor}, &ConnectFail{}); err == nil {
		t.Fatalf("expected error for monitor with payload")
	}
	if _, err := Encode(&Common{QualityReportID: ConnFail}, nil); err == nil {
		t.Fatalf("expected error for missing payload")
	}
	if _, err := Encode(&Common{QualityReportID: ConnFail}, &VsLsto{}); err == nil {
		t.Fatalf("expected error for mismatched payload")
	}
	if _, err := Encode(&Common{QualityReportID: 0x55}, nil); !errors.Is(err, ErrUnknownReportID) {
		t.Fatalf("expected ErrUnknownReportID, got %v", err)
	}

	b, err := Encode(&Common{QualityReportID: Monitor}, nil)
	if err != nil || len(b) != CommonLen {
		t.Fatalf("monitor encode: %v bytes, %v", len(b), err)
	}
}

func TestStrings(t *testing.T) {
	b := append(commonBytes(ScoChoppy), make([]byte, 33)...)
	copy(b[addrOffset:], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	c, e, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}

	s := c.String()
	for _, want := range []string{"BqrCommon", "SCO choppy(0x04)", "06:05:04:03:02:01", "Central(0)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in\n%v", want, s)
		}
	}
	if !strings.Contains(e.String(), "AirFormat: uLaw(0x00)") {
		t.Fatalf("unexpected payload string\n%v", e)
	}
}
