package leaudio

import (
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Limits on broadcast source fields.
const (
	MaxBroadcastID         = 0xffffff
	MaxBroadcastCodeLen    = 16
	MaxAdvertisingSID      = 0x0f
	MaxPresentationDelayUs = 0xffffff
	AddressTypePublic      = 0
	AddressTypeRandom      = 1
)

// BroadcastChannel is one BIS within a subgroup.
type BroadcastChannel struct {
	Index       int
	Selected    bool
	CodecConfig *CodecConfigMetadata
}

// BroadcastSubgroup groups channels sharing a codec and content metadata.
type BroadcastSubgroup struct {
	CodecID     uint64
	CodecConfig *CodecConfigMetadata
	Content     *ContentMetadata
	Channels    []BroadcastChannel
}

// BroadcastMetadata describes a broadcast source as discovered from its periodic advertising.
type BroadcastMetadata struct {
	SourceAddress           btcodec.Addr
	SourceAddressType       int
	SourceAdvertisingSID    int
	BroadcastID             int
	PaSyncInterval          int
	Encrypted               bool
	BroadcastCode           []byte
	PresentationDelayMicros int
	Subgroups               []BroadcastSubgroup
}

// Validate checks the field ranges and that every subgroup carries metadata and channels.
func (m *BroadcastMetadata) Validate() error {
	switch {
	case m.SourceAddressType != AddressTypePublic && m.SourceAddressType != AddressTypeRandom:
		return errors.Errorf("leaudio: invalid source address type %d", m.SourceAddressType)
	case m.SourceAdvertisingSID < 0 || m.SourceAdvertisingSID > MaxAdvertisingSID:
		return errors.Errorf("leaudio: advertising sid %d out of range", m.SourceAdvertisingSID)
	case m.BroadcastID < 0 || m.BroadcastID > MaxBroadcastID:
		return errors.Errorf("leaudio: broadcast id 0x%x out of range", m.BroadcastID)
	case m.PresentationDelayMicros < 0 || m.PresentationDelayMicros > MaxPresentationDelayUs:
		return errors.Errorf("leaudio: presentation delay %d out of range", m.PresentationDelayMicros)
	case len(m.BroadcastCode) > MaxBroadcastCodeLen:
		return errors.Errorf("leaudio: broadcast code is %d bytes, max %d", len(m.BroadcastCode), MaxBroadcastCodeLen)
	case m.Encrypted && len(m.BroadcastCode) == 0:
		return errors.New("leaudio: encrypted broadcast without a broadcast code")
	case len(m.Subgroups) == 0:
		return errors.New("leaudio: broadcast has no subgroups")
	}

	for i, sg := range m.Subgroups {
		if sg.CodecConfig == nil || sg.Content == nil {
			return errors.Errorf("leaudio: subgroup %d is missing metadata", i)
		}
		if len(sg.Channels) == 0 {
			return errors.Errorf("leaudio: subgroup %d has no channels", i)
		}
		for _, ch := range sg.Channels {
			if ch.Index < 1 {
				return errors.Errorf("leaudio: subgroup %d channel index %d must be >= 1", i, ch.Index)
			}
			if ch.CodecConfig == nil {
				return errors.Errorf("leaudio: subgroup %d channel %d is missing codec config", i, ch.Index)
			}
		}
	}
	return nil
}

type BroadcastMetadataBuilder struct {
	m       BroadcastMetadata
	addrErr error
}

func NewBroadcastMetadataBuilder() *BroadcastMetadataBuilder {
	return &BroadcastMetadataBuilder{}
}

// SetSourceDevice takes the address in display form.
func (b *BroadcastMetadataBuilder) SetSourceDevice(addr string, addrType int) *BroadcastMetadataBuilder {
	a, err := btcodec.ParseAddr(addr)
	b.addrErr = err
	b.m.SourceAddress = a
	b.m.SourceAddressType = addrType
	return b
}

func (b *BroadcastMetadataBuilder) SetSourceAdvertisingSID(sid int) *BroadcastMetadataBuilder {
	b.m.SourceAdvertisingSID = sid
	return b
}

func (b *BroadcastMetadataBuilder) SetBroadcastID(id int) *BroadcastMetadataBuilder {
	b.m.BroadcastID = id
	return b
}

func (b *BroadcastMetadataBuilder) SetPaSyncInterval(v int) *BroadcastMetadataBuilder {
	b.m.PaSyncInterval = v
	return b
}

func (b *BroadcastMetadataBuilder) SetEncrypted(enc bool) *BroadcastMetadataBuilder {
	b.m.Encrypted = enc
	return b
}

func (b *BroadcastMetadataBuilder) SetBroadcastCode(code []byte) *BroadcastMetadataBuilder {
	b.m.BroadcastCode = append([]byte(nil), code...)
	return b
}

func (b *BroadcastMetadataBuilder) SetPresentationDelayMicros(us int) *BroadcastMetadataBuilder {
	b.m.PresentationDelayMicros = us
	return b
}

func (b *BroadcastMetadataBuilder) AddSubgroup(sg BroadcastSubgroup) *BroadcastMetadataBuilder {
	sg.Channels = append([]BroadcastChannel(nil), sg.Channels...)
	b.m.Subgroups = append(b.m.Subgroups, sg)
	return b
}

func (b *BroadcastMetadataBuilder) ClearSubgroups() *BroadcastMetadataBuilder {
	b.m.Subgroups = nil
	return b
}

func (b *BroadcastMetadataBuilder) Build() (*BroadcastMetadata, error) {
	if b.addrErr != nil {
		return nil, b.addrErr
	}
	if err := b.m.Validate(); err != nil {
		return nil, err
	}

	m := b.m
	m.Subgroups = append([]BroadcastSubgroup(nil), b.m.Subgroups...)
	return &m, nil
}

type broadcastChannelJSON struct {
	Index       int    `json:"index"`
	Selected    bool   `json:"selected"`
	CodecConfig string `json:"codecConfig"`
}

type broadcastSubgroupJSON struct {
	CodecID     uint64                 `json:"codecId"`
	CodecConfig string                 `json:"codecConfig"`
	Content     string                 `json:"contentMetadata"`
	Channels    []broadcastChannelJSON `json:"channels"`
}

type broadcastMetadataJSON struct {
	SourceAddress           string                  `json:"sourceAddress"`
	SourceAddressType       int                     `json:"sourceAddressType"`
	SourceAdvertisingSID    int                     `json:"sourceAdvertisingSid"`
	BroadcastID             int                     `json:"broadcastId"`
	PaSyncInterval          int                     `json:"paSyncInterval"`
	Encrypted               bool                    `json:"encrypted"`
	BroadcastCode           string                  `json:"broadcastCode,omitempty"`
	PresentationDelayMicros int                     `json:"presentationDelayMicros"`
	Subgroups               []broadcastSubgroupJSON `json:"subgroups"`
}

// MarshalJSON renders metadata buffers as hex strings.
func (m *BroadcastMetadata) MarshalJSON() ([]byte, error) {
	out := broadcastMetadataJSON{
		SourceAddress:           m.SourceAddress.String(),
		SourceAddressType:       m.SourceAddressType,
		SourceAdvertisingSID:    m.SourceAdvertisingSID,
		BroadcastID:             m.BroadcastID,
		PaSyncInterval:          m.PaSyncInterval,
		Encrypted:               m.Encrypted,
		BroadcastCode:           hex.EncodeToString(m.BroadcastCode),
		PresentationDelayMicros: m.PresentationDelayMicros,
	}

	for _, sg := range m.Subgroups {
		j := broadcastSubgroupJSON{CodecID: sg.CodecID}
		if sg.CodecConfig != nil {
			j.CodecConfig = hex.EncodeToString(sg.CodecConfig.raw)
		}
		if sg.Content != nil {
			j.Content = hex.EncodeToString(sg.Content.raw)
		}
		for _, ch := range sg.Channels {
			cj := broadcastChannelJSON{Index: ch.Index, Selected: ch.Selected}
			if ch.CodecConfig != nil {
				cj.CodecConfig = hex.EncodeToString(ch.CodecConfig.raw)
			}
			j.Channels = append(j.Channels, cj)
		}
		out.Subgroups = append(out.Subgroups, j)
	}
	return json.Marshal(out)
}

func parseHexCodecConfig(s string) (*CodecConfigMetadata, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, malformed("codec config", err)
	}
	return ParseCodecConfigMetadata(b)
}

// UnmarshalJSON parses the hex metadata buffers and validates the result.
func (m *BroadcastMetadata) UnmarshalJSON(data []byte) error {
	var in broadcastMetadataJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "broadcast metadata")
	}

	b := NewBroadcastMetadataBuilder().
		SetSourceDevice(in.SourceAddress, in.SourceAddressType).
		SetSourceAdvertisingSID(in.SourceAdvertisingSID).
		SetBroadcastID(in.BroadcastID).
		SetPaSyncInterval(in.PaSyncInterval).
		SetEncrypted(in.Encrypted).
		SetPresentationDelayMicros(in.PresentationDelayMicros)

	code, err := hex.DecodeString(in.BroadcastCode)
	if err != nil {
		return errors.Wrap(err, "broadcast code")
	}
	b.SetBroadcastCode(code)

	for _, sj := range in.Subgroups {
		sg := BroadcastSubgroup{CodecID: sj.CodecID}
		if sg.CodecConfig, err = parseHexCodecConfig(sj.CodecConfig); err != nil {
			return err
		}

		raw, err := hex.DecodeString(sj.Content)
		if err != nil {
			return malformed("content metadata", err)
		}
		if sg.Content, err = ParseContentMetadata(raw); err != nil {
			return err
		}

		for _, cj := range sj.Channels {
			ch := BroadcastChannel{Index: cj.Index, Selected: cj.Selected}
			if ch.CodecConfig, err = parseHexCodecConfig(cj.CodecConfig); err != nil {
				return err
			}
			sg.Channels = append(sg.Channels, ch)
		}
		b.AddSubgroup(sg)
	}

	out, err := b.Build()
	if err != nil {
		return err
	}
	*m = *out
	return nil
}
