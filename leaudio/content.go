// Package leaudio holds the LE Audio value objects whose wire form is an LTV buffer:
// content metadata, codec specific configuration and the broadcast source description
// built from them.
package leaudio

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec/ltv"
)

// Generic Audio metadata types.
const (
	TypePreferredAudioContexts byte = 0x01
	TypeStreamingAudioContexts byte = 0x02
	TypeProgramInfo            byte = 0x03
	TypeLanguage               byte = 0x04
)

// ContentMetadata is the metadata attached to a broadcast subgroup. It is immutable; use
// ContentMetadataBuilderFrom to derive a modified copy.
type ContentMetadata struct {
	entries ltv.Entries
	raw     []byte
}

// ParseContentMetadata decodes raw. An empty buffer is valid and carries no fields.
func ParseContentMetadata(raw []byte) (*ContentMetadata, error) {
	es, err := ltv.Decode(raw)
	if err != nil {
		return nil, malformed("content metadata", err)
	}

	b := make([]byte, len(raw))
	copy(b, raw)
	return &ContentMetadata{entries: es, raw: b}, nil
}

func (m *ContentMetadata) firstString(t byte) (string, bool) {
	e, ok := m.entries.First(t)
	if !ok {
		return "", false
	}
	return string(e.Value), true
}

// ProgramInfo returns the first program info entry.
func (m *ContentMetadata) ProgramInfo() (string, bool) {
	return m.firstString(TypeProgramInfo)
}

// Language returns the first ISO 639-3 language entry.
func (m *ContentMetadata) Language() (string, bool) {
	return m.firstString(TypeLanguage)
}

// RawMetadata returns a copy of the encoded metadata.
func (m *ContentMetadata) RawMetadata() []byte {
	b := make([]byte, len(m.raw))
	copy(b, m.raw)
	return b
}

// Entries returns a copy of every decoded entry, known or not.
func (m *ContentMetadata) Entries() ltv.Entries {
	return m.entries.Clone()
}

type ContentMetadataBuilder struct {
	entries ltv.Entries
	err     error
}

func NewContentMetadataBuilder() *ContentMetadataBuilder {
	return &ContentMetadataBuilder{}
}

// ContentMetadataBuilderFrom starts from the entries of m, unknown types included.
func ContentMetadataBuilderFrom(m *ContentMetadata) *ContentMetadataBuilder {
	return &ContentMetadataBuilder{entries: m.entries.Clone()}
}

func (b *ContentMetadataBuilder) SetProgramInfo(info string) *ContentMetadataBuilder {
	b.entries = b.entries.Upsert(ltv.Entry{Type: TypeProgramInfo, Value: []byte(info)})
	return b
}

func (b *ContentMetadataBuilder) ClearProgramInfo() *ContentMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeProgramInfo)
	return b
}

// SetLanguage sets a three letter ISO 639-3 code. It is stored lower case. Any other length
// makes Build fail.
func (b *ContentMetadataBuilder) SetLanguage(lang string) *ContentMetadataBuilder {
	if len(lang) != 3 {
		b.err = errors.Errorf("leaudio: language %q is not a 3 letter ISO 639-3 code", lang)
		return b
	}

	b.entries = b.entries.Upsert(ltv.Entry{Type: TypeLanguage, Value: []byte(strings.ToLower(lang))})
	return b
}

func (b *ContentMetadataBuilder) ClearLanguage() *ContentMetadataBuilder {
	b.entries = b.entries.RemoveType(TypeLanguage)
	return b
}

func (b *ContentMetadataBuilder) Build() (*ContentMetadata, error) {
	if b.err != nil {
		return nil, b.err
	}

	raw, err := ltv.Encode(b.entries)
	if err != nil {
		return nil, errors.Wrap(err, "content metadata")
	}
	return &ContentMetadata{entries: b.entries.Clone(), raw: raw}, nil
}
