package leaudio

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec/ltv"
)

// LC3 codec specific configuration types.
const (
	TypeSamplingFrequency      byte = 0x01
	TypeFrameDuration          byte = 0x02
	TypeAudioChannelAllocation byte = 0x03
	TypeOctetsPerFrame         byte = 0x04
)

var codecTypeWidth = map[byte]int{
	TypeSamplingFrequency:      1,
	TypeFrameDuration:          1,
	TypeAudioChannelAllocation: 4,
	TypeOctetsPerFrame:         2,
}

var sampleRates = map[byte]int{
	0x01: 8000,
	0x02: 11025,
	0x03: 16000,
	0x04: 22050,
	0x05: 24000,
	0x06: 32000,
	0x07: 44100,
	0x08: 48000,
	0x09: 88200,
	0x0a: 96000,
	0x0b: 176400,
	0x0c: 192000,
	0x0d: 384000,
}

var frameDurations = map[byte]int{
	0x00: 7500,
	0x01: 10000,
}

// CodecConfigMetadata is the codec specific configuration of a subgroup or channel.
type CodecConfigMetadata struct {
	entries ltv.Entries
	raw     []byte
}

// ParseCodecConfigMetadata decodes raw and checks the value width of every known type.
func ParseCodecConfigMetadata(raw []byte) (*CodecConfigMetadata, error) {
	es, err := ltv.Decode(raw)
	if err != nil {
		return nil, malformed("codec config", err)
	}

	for _, e := range es {
		w, ok := codecTypeWidth[e.Type]
		if ok && len(e.Value) != w {
			return nil, malformed("codec config",
				errors.Errorf("type 0x%02x has %d value bytes, want %d", e.Type, len(e.Value), w))
		}
	}

	b := make([]byte, len(raw))
	copy(b, raw)
	return &CodecConfigMetadata{entries: es, raw: b}, nil
}

func (m *CodecConfigMetadata) value(t byte) ([]byte, bool) {
	e, ok := m.entries.First(t)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// SamplingFrequency returns the assigned number code.
func (m *CodecConfigMetadata) SamplingFrequency() (byte, bool) {
	v, ok := m.value(TypeSamplingFrequency)
	if !ok {
		return 0, false
	}
	return v[0], true
}

// SampleRateHz resolves the sampling frequency code. Unknown codes report false.
func (m *CodecConfigMetadata) SampleRateHz() (int, bool) {
	c, ok := m.SamplingFrequency()
	if !ok {
		return 0, false
	}
	hz, ok := sampleRates[c]
	return hz, ok
}

func (m *CodecConfigMetadata) FrameDuration() (byte, bool) {
	v, ok := m.value(TypeFrameDuration)
	if !ok {
		return 0, false
	}
	return v[0], true
}

func (m *CodecConfigMetadata) FrameDurationMicros() (int, bool) {
	c, ok := m.FrameDuration()
	if !ok {
		return 0, false
	}
	us, ok := frameDurations[c]
	return us, ok
}

// AudioLocation returns the audio channel allocation bitmask.
func (m *CodecConfigMetadata) AudioLocation() (uint32, bool) {
	v, ok := m.value(TypeAudioChannelAllocation)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(v), true
}

func (m *CodecConfigMetadata) OctetsPerFrame() (uint16, bool) {
	v, ok := m.value(TypeOctetsPerFrame)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(v), true
}

func (m *CodecConfigMetadata) RawMetadata() []byte {
	b := make([]byte, len(m.raw))
	copy(b, m.raw)
	return b
}

func (m *CodecConfigMetadata) Entries() ltv.Entries {
	return m.entries.Clone()
}

type CodecConfigMetadataBuilder struct {
	entries ltv.Entries
	err     error
}

func NewCodecConfigMetadataBuilder() *CodecConfigMetadataBuilder {
	return &CodecConfigMetadataBuilder{}
}

func CodecConfigMetadataBuilderFrom(m *CodecConfigMetadata) *CodecConfigMetadataBuilder {
	return &CodecConfigMetadataBuilder{entries: m.entries.Clone()}
}

func (b *CodecConfigMetadataBuilder) set(t byte, v []byte) *CodecConfigMetadataBuilder {
	b.entries = b.entries.Upsert(ltv.Entry{Type: t, Value: v})
	return b
}

// SetSampleRateHz stores the code for hz. A rate without an assigned code makes Build fail.
func (b *CodecConfigMetadataBuilder) SetSampleRateHz(hz int) *CodecConfigMetadataBuilder {
	for c, r := range sampleRates {
		if r == hz {
			return b.set(TypeSamplingFrequency, []byte{c})
		}
	}
	b.err = errors.Errorf("leaudio: no sampling frequency code for %d Hz", hz)
	return b
}

func (b *CodecConfigMetadataBuilder) ClearSampleRate() *CodecConfigMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeSamplingFrequency)
	return b
}

func (b *CodecConfigMetadataBuilder) SetFrameDurationMicros(us int) *CodecConfigMetadataBuilder {
	for c, d := range frameDurations {
		if d == us {
			return b.set(TypeFrameDuration, []byte{c})
		}
	}
	b.err = errors.Errorf("leaudio: no frame duration code for %d us", us)
	return b
}

func (b *CodecConfigMetadataBuilder) ClearFrameDuration() *CodecConfigMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeFrameDuration)
	return b
}

func (b *CodecConfigMetadataBuilder) SetAudioLocation(loc uint32) *CodecConfigMetadataBuilder {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, loc)
	return b.set(TypeAudioChannelAllocation, v)
}

func (b *CodecConfigMetadataBuilder) ClearAudioLocation() *CodecConfigMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeAudioChannelAllocation)
	return b
}

func (b *CodecConfigMetadataBuilder) SetOctetsPerFrame(n uint16) *CodecConfigMetadataBuilder {
	v := make([]byte, 2)
	binary.LittleEndian.PutUint16(v, n)
	return b.set(TypeOctetsPerFrame, v)
}

func (b *CodecConfigMetadataBuilder) ClearOctetsPerFrame() *CodecConfigMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeOctetsPerFrame)
	return b
}

func (b *CodecConfigMetadataBuilder) Build() (*CodecConfigMetadata, error) {
	if b.err != nil {
		return nil, b.err
	}

	raw, err := ltv.Encode(b.entries)
	if err != nil {
		return nil, errors.Wrap(err, "codec config")
	}
	return &CodecConfigMetadata{entries: b.entries.Clone(), raw: raw}, nil
}
