package bqr

import (
	"encoding"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Event is the vendor specific payload following the common header. It is implemented by
// *VsLsto, *VsA2dpChoppy, *VsScoChoppy and *ConnectFail only; use a type switch to get at
// the fields.
type Event interface {
	ReportID() ReportID
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	fmt.Stringer

	layout() layout
}

// newEvent maps a report id to an empty payload. Monitor reports have no payload and get a
// nil Event.
func newEvent(id ReportID) (Event, error) {
	switch id {
	case Monitor:
		return nil, nil
	case ApproachLsto:
		return &VsLsto{}, nil
	case A2dpChoppy:
		return &VsA2dpChoppy{}, nil
	case ScoChoppy:
		return &VsScoChoppy{}, nil
	case ConnFail:
		return &ConnectFail{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownReportID, "id 0x%02x", uint8(id))
	}
}

func cloneEvent(e Event) Event {
	switch v := e.(type) {
	case *VsLsto:
		c := *v
		return &c
	case *VsA2dpChoppy:
		c := *v
		return &c
	case *VsScoChoppy:
		c := *v
		return &c
	case *ConnectFail:
		c := *v
		return &c
	}
	return e
}

// DecodeEvent reads the payload for report id at offset, which is usually CommonLen.
// A Monitor report returns a nil Event and no error.
func DecodeEvent(id ReportID, b []byte, offset int) (Event, error) {
	e, err := newEvent(id)
	if err != nil || e == nil {
		return nil, err
	}

	if err := e.layout().decode(b, offset); err != nil {
		return nil, errors.Wrapf(err, "%v payload", id)
	}
	return e, nil
}

// EventLen returns the payload size for report id.
func EventLen(id ReportID) (int, error) {
	e, err := newEvent(id)
	if err != nil || e == nil {
		return 0, err
	}
	return e.layout().size(), nil
}

// VsLsto is the payload of an approaching link supervision timeout report.
type VsLsto struct {
	ConnState          ConnState
	BasebandStats      uint32
	SlotsUsed          uint32
	CxmDenials         uint16
	TxSkipped          uint16
	RfLoss             uint16
	NativeClock        uint32
	LastTxAckTimestamp uint32
}

func (v *VsLsto) ReportID() ReportID { return ApproachLsto }

func (v *VsLsto) layout() layout {
	return layout{
		{"ConnState", (*uint8)(&v.ConnState)},
		{"BasebandStats", &v.BasebandStats},
		{"SlotsUsed", &v.SlotsUsed},
		{"CxmDenials", &v.CxmDenials},
		{"TxSkipped", &v.TxSkipped},
		{"RfLoss", &v.RfLoss},
		{"NativeClock", &v.NativeClock},
		{"LastTxAckTimestamp", &v.LastTxAckTimestamp},
	}
}

func (v *VsLsto) MarshalBinary() ([]byte, error) { return v.layout().encode(), nil }

func (v *VsLsto) UnmarshalBinary(b []byte) error { return v.layout().decode(b, 0) }

func (v *VsLsto) String() string {
	return fmt.Sprintf("  BqrVsLsto: {\n"+
		"    ConnState: %v(0x%02X), BasebandStats: 0x%08X, SlotsUsed: %d, CxmDenials: %d, TxSkipped: %d, "+
		"RfLoss: %d, NativeClock: 0x%08X, LastTxAckTimestamp: 0x%08X\n  }",
		v.ConnState, uint8(v.ConnState), v.BasebandStats, v.SlotsUsed, v.CxmDenials, v.TxSkipped,
		v.RfLoss, v.NativeClock, v.LastTxAckTimestamp)
}

// VsA2dpChoppy is the payload of an A2DP choppy report.
type VsA2dpChoppy struct {
	ArrivalTime      uint32
	ScheduleTime     uint32
	GlitchCount      uint16
	TxCxmDenials     uint16
	RxCxmDenials     uint16
	AclTxQueueLength uint8
	LinkQuality      LinkQuality
}

func (v *VsA2dpChoppy) ReportID() ReportID { return A2dpChoppy }

func (v *VsA2dpChoppy) layout() layout {
	return layout{
		{"ArrivalTime", &v.ArrivalTime},
		{"ScheduleTime", &v.ScheduleTime},
		{"GlitchCount", &v.GlitchCount},
		{"TxCxmDenials", &v.TxCxmDenials},
		{"RxCxmDenials", &v.RxCxmDenials},
		{"AclTxQueueLength", &v.AclTxQueueLength},
		{"LinkQuality", (*uint8)(&v.LinkQuality)},
	}
}

func (v *VsA2dpChoppy) MarshalBinary() ([]byte, error) { return v.layout().encode(), nil }

func (v *VsA2dpChoppy) UnmarshalBinary(b []byte) error { return v.layout().decode(b, 0) }

func (v *VsA2dpChoppy) String() string {
	return fmt.Sprintf("  BqrVsA2dpChoppy: {\n"+
		"    ArrivalTime: 0x%08X, ScheduleTime: 0x%08X, GlitchCount: %d, TxCxmDenials: %d, RxCxmDenials: %d, "+
		"AclTxQueueLength: %d, LinkQuality: %v(0x%02X)\n  }",
		v.ArrivalTime, v.ScheduleTime, v.GlitchCount, v.TxCxmDenials, v.RxCxmDenials,
		v.AclTxQueueLength, v.LinkQuality, uint8(v.LinkQuality))
}

// VsScoChoppy is the payload of a SCO choppy report.
type VsScoChoppy struct {
	GlitchCount           uint16
	IntervalEsco          uint8
	WindowEsco            uint8
	AirFormat             AirMode
	InstanceCount         uint16
	TxCxmDenials          uint16
	RxCxmDenials          uint16
	TxAbortCount          uint16
	LateDispatch          uint16
	MicIntrMiss           uint16
	LpaIntrMiss           uint16
	SprIntrMiss           uint16
	PlcFillCount          uint16
	PlcDiscardCount       uint16
	MissedInstanceCount   uint16
	TxRetransmitSlotCount uint16
	RxRetransmitSlotCount uint16
	GoodRxFrameCount      uint16
}

func (v *VsScoChoppy) ReportID() ReportID { return ScoChoppy }

func (v *VsScoChoppy) layout() layout {
	return layout{
		{"GlitchCount", &v.GlitchCount},
		{"IntervalEsco", &v.IntervalEsco},
		{"WindowEsco", &v.WindowEsco},
		{"AirFormat", (*uint8)(&v.AirFormat)},
		{"InstanceCount", &v.InstanceCount},
		{"TxCxmDenials", &v.TxCxmDenials},
		{"RxCxmDenials", &v.RxCxmDenials},
		{"TxAbortCount", &v.TxAbortCount},
		{"LateDispatch", &v.LateDispatch},
		{"MicIntrMiss", &v.MicIntrMiss},
		{"LpaIntrMiss", &v.LpaIntrMiss},
		{"SprIntrMiss", &v.SprIntrMiss},
		{"PlcFillCount", &v.PlcFillCount},
		{"PlcDiscardCount", &v.PlcDiscardCount},
		{"MissedInstanceCount", &v.MissedInstanceCount},
		{"TxRetransmitSlotCount", &v.TxRetransmitSlotCount},
		{"RxRetransmitSlotCount", &v.RxRetransmitSlotCount},
		{"GoodRxFrameCount", &v.GoodRxFrameCount},
	}
}

func (v *VsScoChoppy) MarshalBinary() ([]byte, error) { return v.layout().encode(), nil }

func (v *VsScoChoppy) UnmarshalBinary(b []byte) error { return v.layout().decode(b, 0) }

func (v *VsScoChoppy) String() string {
	var sb strings.Builder
	sb.WriteString("  BqrVsScoChoppy: {\n")
	fmt.Fprintf(&sb, "    GlitchCount: %d, IntervalEsco: %d, WindowEsco: %d, AirFormat: %v(0x%02X), InstanceCount: %d, "+
		"TxCxmDenials: %d, RxCxmDenials: %d, TxAbortCount: %d,\n",
		v.GlitchCount, v.IntervalEsco, v.WindowEsco, v.AirFormat, uint8(v.AirFormat), v.InstanceCount,
		v.TxCxmDenials, v.RxCxmDenials, v.TxAbortCount)
	fmt.Fprintf(&sb, "    LateDispatch: %d, MicIntrMiss: %d, LpaIntrMiss: %d, SprIntrMiss: %d, PlcFillCount: %d, "+
		"PlcDiscardCount: %d, MissedInstanceCount: %d, TxRetransmitSlotCount: %d,\n",
		v.LateDispatch, v.MicIntrMiss, v.LpaIntrMiss, v.SprIntrMiss, v.PlcFillCount,
		v.PlcDiscardCount, v.MissedInstanceCount, v.TxRetransmitSlotCount)
	fmt.Fprintf(&sb, "    RxRetransmitSlotCount: %d, GoodRxFrameCount: %d\n  }",
		v.RxRetransmitSlotCount, v.GoodRxFrameCount)
	return sb.String()
}

// ConnectFail is the payload of a connect fail report.
type ConnectFail struct {
	FailReason ConnectFailReason
}

func (v *ConnectFail) ReportID() ReportID { return ConnFail }

func (v *ConnectFail) layout() layout {
	return layout{
		{"FailReason", (*uint8)(&v.FailReason)},
	}
}

func (v *ConnectFail) MarshalBinary() ([]byte, error) { return v.layout().encode(), nil }

func (v *ConnectFail) UnmarshalBinary(b []byte) error { return v.layout().decode(b, 0) }

func (v *ConnectFail) String() string {
	return fmt.Sprintf("  BqrConnectFail: {\n    FailReason: %v (0x%02X)\n  }", v.FailReason, uint8(v.FailReason))
}
