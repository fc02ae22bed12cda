package bqr

import (
	"fmt"
)

// ReportID identifies the kind of quality report, and with it the vendor payload that
// follows the common header.
type ReportID uint8

const (
	Monitor      ReportID = 0x01
	ApproachLsto ReportID = 0x02
	A2dpChoppy   ReportID = 0x03
	ScoChoppy    ReportID = 0x04
	ConnFail     ReportID = 0x08
)

func (id ReportID) String() string {
	switch id {
	case Monitor:
		return "Quality monitor"
	case ApproachLsto:
		return "Approaching LSTO"
	case A2dpChoppy:
		return "A2DP choppy"
	case ScoChoppy:
		return "SCO choppy"
	case ConnFail:
		return "Connect fail"
	default:
		return "INVALID"
	}
}

// Known reports whether id has a decoder.
func (id ReportID) Known() bool {
	return id.String() != "INVALID"
}

// PacketType is the baseband packet type, ordinal indexed.
type PacketType uint8

const PacketTypeInvalid PacketType = 0

var packetTypeNames = [...]string{
	"INVALID",
	"TYPE_ID",
	"TYPE_NULL",
	"TYPE_POLL",
	"TYPE_FHS",
	"TYPE_HV1",
	"TYPE_HV2",
	"TYPE_HV3",
	"TYPE_DV",
	"TYPE_EV3",
	"TYPE_EV4",
	"TYPE_EV5",
	"TYPE_2EV3",
	"TYPE_2EV5",
	"TYPE_3EV3",
	"TYPE_3EV5",
	"TYPE_DM1",
	"TYPE_DH1",
	"TYPE_DM3",
	"TYPE_DH3",
	"TYPE_DM5",
	"TYPE_DH5",
	"TYPE_AUX1",
	"TYPE_2DH1",
	"TYPE_2DH3",
	"TYPE_2DH5",
	"TYPE_3DH1",
	"TYPE_3DH3",
	"TYPE_3DH5",
}

// PacketTypeFromOrdinal never fails, ordinals past the table map to PacketTypeInvalid.
func PacketTypeFromOrdinal(n int) PacketType {
	if n < 0 || n >= len(packetTypeNames) {
		return PacketTypeInvalid
	}
	return PacketType(n)
}

func (p PacketType) String() string {
	return packetTypeNames[PacketTypeFromOrdinal(int(p))]
}

// ConnState is the controller connection state. Unlike the other enums it is keyed by the
// raw value, not by ordinal.
type ConnState uint8

const (
	ConnIdle                  ConnState = 0x00
	ConnActive                ConnState = 0x81
	ConnHold                  ConnState = 0x02
	ConnSniffIdle             ConnState = 0x03
	ConnSniffActive           ConnState = 0x84
	ConnSniffMasterTransition ConnState = 0x85
	ConnPark                  ConnState = 0x06
	ConnParkPend              ConnState = 0x47
	ConnUnparkPend            ConnState = 0x08
	ConnUnparkActive          ConnState = 0x89
	ConnDisconnectPending     ConnState = 0x4a
	ConnPaging                ConnState = 0x0b
	ConnPageScan              ConnState = 0x0c
	ConnLocalLoopback         ConnState = 0x0d
	ConnLeActive              ConnState = 0x0e
	ConnAntActive             ConnState = 0x0f
	ConnTriggerScan           ConnState = 0x10
	ConnReconnecting          ConnState = 0x11
	ConnSemiConn              ConnState = 0x12
)

var connStateNames = map[ConnState]string{
	ConnIdle:                  "CONN_IDLE",
	ConnActive:                "CONN_ACTIVE",
	ConnHold:                  "CONN_HOLD",
	ConnSniffIdle:             "CONN_SNIFF_IDLE",
	ConnSniffActive:           "CONN_SNIFF_ACTIVE",
	ConnSniffMasterTransition: "CONN_SNIFF_MASTER_TRANSITION",
	ConnPark:                  "CONN_PARK",
	ConnParkPend:              "CONN_PARK_PEND",
	ConnUnparkPend:            "CONN_UNPARK_PEND",
	ConnUnparkActive:          "CONN_UNPARK_ACTIVE",
	ConnDisconnectPending:     "CONN_DISCONNECT_PENDING",
	ConnPaging:                "CONN_PAGING",
	ConnPageScan:              "CONN_PAGE_SCAN",
	ConnLocalLoopback:         "CONN_LOCAL_LOOPBACK",
	ConnLeActive:              "CONN_LE_ACTIVE",
	ConnAntActive:             "CONN_ANT_ACTIVE",
	ConnTriggerScan:           "CONN_TRIGGER_SCAN",
	ConnReconnecting:          "CONN_RECONNECTING",
	ConnSemiConn:              "CONN_SEMI_CONN",
}

// Known reports whether s is one of the listed states.
func (s ConnState) Known() bool {
	_, ok := connStateNames[s]
	return ok
}

func (s ConnState) String() string {
	if n, ok := connStateNames[s]; ok {
		return n
	}
	return "INVALID"
}

// LinkQuality is the A2DP link quality, ordinal indexed.
type LinkQuality uint8

const (
	LinkQualityUltraHigh LinkQuality = iota
	LinkQualityHigh
	LinkQualityStandard
	LinkQualityMedium
	LinkQualityLow
	LinkQualityInvalid
)

var linkQualityNames = [...]string{"ULTRA_HIGH", "HIGH", "STANDARD", "MEDIUM", "LOW", "INVALID"}

func LinkQualityFromOrdinal(n int) LinkQuality {
	if n < 0 || n >= int(LinkQualityInvalid) {
		return LinkQualityInvalid
	}
	return LinkQuality(n)
}

func (q LinkQuality) String() string {
	return linkQualityNames[LinkQualityFromOrdinal(int(q))]
}

// AirMode is the SCO air coding format, ordinal indexed.
type AirMode uint8

const (
	AirModeULaw AirMode = iota
	AirModeALaw
	AirModeCVSD
	AirModeTransparentMsbc
	AirModeInvalid
)

var airModeNames = [...]string{"uLaw", "aLaw", "CVSD", "transparent_msbc", "INVALID"}

func AirModeFromOrdinal(n int) AirMode {
	if n < 0 || n >= int(AirModeInvalid) {
		return AirModeInvalid
	}
	return AirMode(n)
}

func (m AirMode) String() string {
	return airModeNames[AirModeFromOrdinal(int(m))]
}

type ConnectionRole uint8

const (
	RoleCentral    ConnectionRole = 0
	RolePeripheral ConnectionRole = 1
)

func (r ConnectionRole) String() string {
	switch r {
	case RoleCentral:
		return "Central"
	case RolePeripheral:
		return "Peripheral"
	default:
		return fmt.Sprintf("INVALID:%d", uint8(r))
	}
}

// ConnectFailReason is the HCI error code carried by a connect fail report.
type ConnectFailReason uint8

const (
	FailNoError           ConnectFailReason = 0x00
	FailPageTimeout       ConnectFailReason = 0x04
	FailConnectionTimeout ConnectFailReason = 0x08
	FailACLAlreadyExists  ConnectFailReason = 0x0b
	FailControllerBusy    ConnectFailReason = 0x3a
)

func (r ConnectFailReason) String() string {
	switch r {
	case FailNoError:
		return "No error"
	case FailPageTimeout:
		return "Page Timeout"
	case FailConnectionTimeout:
		return "Connection Timeout"
	case FailACLAlreadyExists:
		return "ACL already exists"
	case FailControllerBusy:
		return "Controller busy"
	default:
		return "INVALID"
	}
}
