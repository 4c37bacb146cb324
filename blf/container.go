package blf

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	MagicMarker  = "_blf" // Every container has this somewhere; payloads start here
	StopSequence = "_eof" // End of non-image payloads (plus footer padding)

	// Footer bytes that follow the stop sequence and belong to the payload.
	// Fixed by the format, there is no length field for it.
	StopSequencePadding = 0x0D

	// Smallest buffer that can hold every field in ContainerLayout
	MinContainerLength = 0xD2F4
)

var (
	JpegStartPattern = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46} // SOI + APP0 "JFIF"
	JpegEndPattern   = []byte{0xFF, 0xD9}                                                 // EOI
)

// Names of the fixed metadata fields
const (
	FieldContentName  = "content_name"
	FieldCreatorName  = "creator_name"
	FieldCreatorID    = "creator_id"
	FieldModifierName = "modifier_name"
	FieldModifierID   = "modifier_id"
	FieldDescription  = "description"
	FieldHeaderType   = "header_type"
)

// One fixed position field inside the container. Decode turns the raw
// window into its display form; Encode writes a display value back into a
// window of exactly Length bytes.
type FieldSpec struct {
	Name   string
	Offset int
	Length int
	Decode func([]byte) string
	Encode func(string, []byte) error
}

// The container metadata layout. A format revision should only ever need a
// change here.
var ContainerLayout = []FieldSpec{
	{FieldContentName, 0xD0C0, 0x7F, DecodeTrimmedASCII, encodeASCII},
	{FieldCreatorName, 0xD088, 0x0F, DecodeTrimmedASCII, encodeASCII},
	{FieldCreatorID, 0xD080, 0x08, DecodeHexIdentifier, encodeHexIdentifier},
	{FieldModifierName, 0xD0AC, 0x0F, DecodeTrimmedASCII, encodeASCII},
	{FieldModifierID, 0xD0A4, 0x08, DecodeHexIdentifier, encodeHexIdentifier},
	{FieldDescription, 0xD1C0, 0xFF, DecodeTrimmedASCII, encodeASCII},
	{FieldHeaderType, 0xD2F0, 0x04, DecodeTrimmedASCII, encodeASCII},
}

// Look up a field in ContainerLayout by name
func LayoutField(name string) (FieldSpec, bool) {
	for _, f := range ContainerLayout {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Everything we read from the fixed header area of a container. Strings are
// raw (not sanitized for use as filenames).
type ContainerMetadata struct {
	ContentName  string
	CreatorName  string
	CreatorID    string
	ModifierName string
	ModifierID   string
	Description  string
	HeaderType   string
}

// Pointer to the struct member holding the given field
func (m *ContainerMetadata) field(name string) *string {
	switch name {
	case FieldContentName:
		return &m.ContentName
	case FieldCreatorName:
		return &m.CreatorName
	case FieldCreatorID:
		return &m.CreatorID
	case FieldModifierName:
		return &m.ModifierName
	case FieldModifierID:
		return &m.ModifierID
	case FieldDescription:
		return &m.Description
	case FieldHeaderType:
		return &m.HeaderType
	}
	return nil
}

func (m *ContainerMetadata) Kind() ContentKind {
	return KindFromHeaderType(m.HeaderType)
}

// Read all fields from ContainerLayout. Does not look for the container
// marker; Extract does that first.
func ParseMetadata(data []byte) (*ContainerMetadata, error) {
	var result ContainerMetadata
	for _, f := range ContainerLayout {
		raw, err := ReadField(data, f.Offset, f.Length)
		if err != nil {
			return nil, &TruncatedContainerError{
				Field:  f.Name,
				Offset: f.Offset,
				Length: f.Length,
				Size:   len(data),
			}
		}
		*result.field(f.Name) = f.Decode(raw)
	}
	return &result, nil
}

// Write the metadata into data at the layout offsets. data must be at least
// MinContainerLength long. Only the field windows are touched.
func (m *ContainerMetadata) WriteFields(data []byte) error {
	for _, f := range ContainerLayout {
		window, err := ReadField(data, f.Offset, f.Length)
		if err != nil {
			return err
		}
		if err := f.Encode(*m.field(f.Name), window); err != nil {
			return fmt.Errorf("Field %s: %w", f.Name, err)
		}
	}
	return nil
}

func encodeASCII(value string, window []byte) error {
	if len(value) > len(window) {
		return fmt.Errorf("Value too long! Max: %d, got: %d", len(window), len(value))
	}
	n := copy(window, value)
	for i := n; i < len(window); i++ {
		window[i] = 0
	}
	return nil
}

func encodeHexIdentifier(value string, window []byte) error {
	if value == "" {
		for i := range window {
			window[i] = 0
		}
		return nil
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return err
	}
	if len(raw) != len(window) {
		return fmt.Errorf("Identifier must be %d bytes, got %d", len(window), len(raw))
	}
	copy(window, raw)
	return nil
}

// Produce a synthetic container: size bytes (at least MinContainerLength)
// with the metadata fields filled in, the container marker at markerOffset
// and payload copied right after the marker. The payload must not overlap
// the metadata area if you want to read it back unchanged.
func BuildContainer(meta *ContainerMetadata, size int, markerOffset int, payload []byte) ([]byte, error) {
	if size < MinContainerLength {
		return nil, fmt.Errorf("Container size too small! Min: %d, got: %d", MinContainerLength, size)
	}
	end := markerOffset + len(MagicMarker) + len(payload)
	if markerOffset < 0 || end > size {
		return nil, fmt.Errorf("Marker + payload (%d bytes at %d) doesn't fit in %d bytes",
			len(MagicMarker)+len(payload), markerOffset, size)
	}
	data := make([]byte, size)
	copy(data[markerOffset:], MagicMarker)
	copy(data[markerOffset+len(MagicMarker):], payload)
	if err := meta.WriteFields(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Semantic kind of the payload, derived from the header type tag
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindGameType
	KindMapVariant
	KindTheaterFilm
	KindScreenshot
)

type kindInfo struct {
	tag       string
	name      string
	extension string
	directory string
}

var kindTable = map[ContentKind]kindInfo{
	KindGameType:    {"mpvr", "gametype", ".bin", "Gametypes"},
	KindMapVariant:  {"mvar", "mapvariant", ".mvar", "Map variants"},
	KindTheaterFilm: {"athr", "theaterfilm", ".film", "Theater films"},
	KindScreenshot:  {"scnc", "screenshot", ".jpg", "Screenshots"},
}

// All the kinds that can carry a payload, in a stable order
var KnownKinds = []ContentKind{KindGameType, KindMapVariant, KindTheaterFilm, KindScreenshot}

// Exact 4 character match against the known tags. Anything else is unknown.
func KindFromHeaderType(tag string) ContentKind {
	for _, k := range KnownKinds {
		if kindTable[k].tag == tag {
			return k
		}
	}
	return KindUnknown
}

// Parse a kind from its name (as used in config files) or its header tag
func ParseContentKind(s string) (ContentKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range KnownKinds {
		if kindTable[k].name == s || kindTable[k].tag == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("Unknown content kind: %s", s)
}

func (k ContentKind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return "unknown"
}

// The header tag for this kind ("" for unknown)
func (k ContentKind) HeaderType() string {
	return kindTable[k].tag
}

// Suggested file extension, including the dot
func (k ContentKind) Extension() string {
	return kindTable[k].extension
}

// The per-kind output folder name
func (k ContentKind) Directory() string {
	return kindTable[k].directory
}

func (k ContentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
