package bqr

import (
	"fmt"
	"strings"

	"github.com/rigado/btcodec"
)

// CommonLen is the wire size of the header shared by every quality report.
const CommonLen = 55

// Common is the header shared by every quality report. Lsto is in slots (0.625 ms);
// PiconetClock and the timestamps are in Bluetooth clocks (0.3125 ms).
type Common struct {
	QualityReportID              ReportID
	PacketType                   PacketType
	ConnectionHandle             uint16
	ConnectionRole               ConnectionRole
	TxPowerLevel                 uint8
	Rssi                         int8
	Snr                          int8
	UnusedAfhChannelCount        uint8
	AfhSelectUnidealChannelCount uint8
	Lsto                         uint16
	PiconetClock                 uint32
	RetransmissionCount          uint32
	NoRxCount                    uint32
	NakCount                     uint32
	LastTxAckTimestamp           uint32
	FlowOffCount                 uint32
	LastFlowOnTimestamp          uint32
	OverflowCount                uint32
	UnderflowCount               uint32
	Addr                         btcodec.Addr
	CalFailedItemCount           uint8
}

func (c *Common) layout() layout {
	return layout{
		{"QualityReportId", (*uint8)(&c.QualityReportID)},
		{"PacketType", (*uint8)(&c.PacketType)},
		{"ConnectionHandle", &c.ConnectionHandle},
		{"ConnectionRole", (*uint8)(&c.ConnectionRole)},
		{"TxPowerLevel", &c.TxPowerLevel},
		{"Rssi", &c.Rssi},
		{"Snr", &c.Snr},
		{"UnusedAfhChannelCount", &c.UnusedAfhChannelCount},
		{"AfhSelectUnidealChannelCount", &c.AfhSelectUnidealChannelCount},
		{"Lsto", &c.Lsto},
		{"PiconetClock", &c.PiconetClock},
		{"RetransmissionCount", &c.RetransmissionCount},
		{"NoRxCount", &c.NoRxCount},
		{"NakCount", &c.NakCount},
		{"LastTxAckTimestamp", &c.LastTxAckTimestamp},
		{"FlowOffCount", &c.FlowOffCount},
		{"LastFlowOnTimestamp", &c.LastFlowOnTimestamp},
		{"OverflowCount", &c.OverflowCount},
		{"UnderflowCount", &c.UnderflowCount},
		{"Addr", &c.Addr},
		{"CalFailedItemCount", &c.CalFailedItemCount},
	}
}

// DecodeCommon reads the common header at offset. The report id is not checked here,
// DecodeEvent does that.
func DecodeCommon(b []byte, offset int) (*Common, error) {
	c := &Common{}
	if err := c.layout().decode(b, offset); err != nil {
		return nil, err
	}
	return c, nil
}

// Address returns the remote address carried in the header.
func (c *Common) Address() string {
	return c.Addr.String()
}

func (c *Common) MarshalBinary() ([]byte, error) {
	return c.layout().encode(), nil
}

func (c *Common) UnmarshalBinary(b []byte) error {
	return c.layout().decode(b, 0)
}

func (c *Common) String() string {
	var sb strings.Builder
	sb.WriteString("  BqrCommon: {\n")
	fmt.Fprintf(&sb, "    QualityReportId: %v(0x%02X), PacketType: %v(0x%02X), ConnectionHandle: 0x%04X, ",
		c.QualityReportID, uint8(c.QualityReportID), c.PacketType, uint8(c.PacketType), c.ConnectionHandle)
	fmt.Fprintf(&sb, "ConnectionRole: %v(%d), TxPowerLevel: %d, Rssi: %d, Snr: %d, UnusedAfhChannelCount: %d,\n",
		c.ConnectionRole, uint8(c.ConnectionRole), c.TxPowerLevel, c.Rssi, c.Snr, c.UnusedAfhChannelCount)
	fmt.Fprintf(&sb, "    AfhSelectUnidealChannelCount: %d, Lsto: %d, PiconetClock: 0x%08X, RetransmissionCount: %d, ",
		c.AfhSelectUnidealChannelCount, c.Lsto, c.PiconetClock, c.RetransmissionCount)
	fmt.Fprintf(&sb, "NoRxCount: %d, NakCount: %d, LastTxAckTimestamp: 0x%08X, FlowOffCount: %d,\n",
		c.NoRxCount, c.NakCount, c.LastTxAckTimestamp, c.FlowOffCount)
	fmt.Fprintf(&sb, "    LastFlowOnTimestamp: 0x%08X, OverflowCount: %d, UnderflowCount: %d, Addr: %v, CalFailedItemCount: %d\n",
		c.LastFlowOnTimestamp, c.OverflowCount, c.UnderflowCount, c.Addr, c.CalFailedItemCount)
	sb.WriteString("  }")
	return sb.String()
}
