package bqr

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func lstoReport() []byte {
	b := append(commonBytes(ApproachLsto), make([]byte, 23)...)
	b[6] = 0xb0 // rssi
	b[CommonLen] = byte(ConnLeActive)
	return b
}

func TestBuilder(t *testing.T) {
	r, err := NewBuilder(lstoReport()).
		SetRemoteAddress("aa:bb:cc:dd:ee:ff").
		SetLmpVersion(0x0c).
		SetLmpSubVersion(0x1234).
		SetManufacturerID(0x000f).
		SetRemoteName("headset").
		SetClassOfDevice(0x240404).
		Build()
	if err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}

	if r.RemoteAddress != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("unexpected address %v", r.RemoteAddress)
	}
	if r.ReportID() != ApproachLsto {
		t.Fatalf("unexpected id %v", r.ReportID())
	}
	if r.Common().Rssi != -80 {
		t.Fatalf("expected rssi -80, got %v", r.Common().Rssi)
	}

	v, ok := r.Event().(*VsLsto)
	if !ok || v.ConnState != ConnLeActive {
		t.Fatalf("unexpected event %+v", r.Event())
	}

	s := r.String()
	for _, want := range []string{"BQR: {", "AA:BB:CC:DD:EE:FF", "headset", "BqrVsLsto", "CONN_LE_ACTIVE(0x0E)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in\n%v", want, s)
		}
	}
}

func TestBuilderInvalidAddress(t *testing.T) {
	for _, addr := range []string{"", "nope", "AA:BB:CC:DD:EE", "AA-BB-CC-DD-EE-FF", "GG:BB:CC:DD:EE:FF"} {
		r, err := NewBuilder(commonBytes(Monitor)).SetRemoteAddress(addr).Build()
		if err != nil {
			t.Fatal(err)
		}
		if r.RemoteAddress != "00:00:00:00:00:00" {
			t.Fatalf("%q: expected zero address fallback, got %v", addr, r.RemoteAddress)
		}
		if r.Event() != nil {
			t.Fatalf("monitor report should have no event")
		}
	}
}

func TestBuilderErrors(t *testing.T) {
	if _, err := NewBuilder(nil).Build(); !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}

	if _, err := NewBuilder(commonBytes(0x07)).Build(); !errors.Is(err, ErrUnknownReportID) {
		t.Fatalf("expected ErrUnknownReportID, got %v", err)
	}

	if _, err := NewBuilder(commonBytes(ConnFail)).Build(); !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer for missing payload, got %v", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	raw := lstoReport()
	r, err := NewBuilder(raw).SetRemoteAddress("00:11:22:33:44:55").SetRemoteName("car").Build()
	if err != nil {
		t.Fatal(err)
	}

	rec, err := r.Record()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rec.Raw, raw) {
		t.Fatalf("expected raw bytes to survive:\n[% x]\n[% x]", raw, rec.Raw)
	}

	r2, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, r2) {
		t.Fatalf("record round trip mismatch:\n%v\n%v", r, r2)
	}
}

func TestBytesIgnoresTrailingData(t *testing.T) {
	raw := append(append(commonBytes(ConnFail), 0x0b), 0xde, 0xad)
	r, err := NewBuilder(raw).Build()
	if err != nil {
		t.Fatal(err)
	}

	b, err := r.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, raw[:CommonLen+1]) {
		t.Fatalf("unexpected re-encoding [% x]", b)
	}
	if r.Event().(*ConnectFail).FailReason.String() != "ACL already exists" {
		t.Fatalf("unexpected reason %v", r.Event())
	}
}

func TestReportAccessorsCopy(t *testing.T) {
	raw := lstoReport()
	r, err := NewBuilder(raw).Build()
	if err != nil {
		t.Fatal(err)
	}

	r.Common().Rssi = 10
	r.Common().QualityReportID = Monitor
	r.Event().(*VsLsto).ConnState = ConnIdle

	if r.Common().Rssi != -80 || r.ReportID() != ApproachLsto {
		t.Fatalf("header changed through accessor: %+v", r.Common())
	}
	if r.Event().(*VsLsto).ConnState != ConnLeActive {
		t.Fatalf("payload changed through accessor: %+v", r.Event())
	}

	b, err := r.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, raw) {
		t.Fatalf("expected original bytes:\n[% x]\n[% x]", raw, b)
	}
}
