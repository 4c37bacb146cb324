package blf

import (
	"encoding/hex"
	"strings"
)

const (
	// What the legacy ASCII decoder produces for any byte above 0x7F
	AsciiReplacement = '?'
)

// Compare a buffer byte against a wanted byte
type byteComparator func(have byte, want byte) bool

func exactByte(have byte, want byte) bool {
	return have == want
}

// The tool that wrote these containers decoded the whole file as ASCII before
// searching, so a byte over 0x7F reads as '?'. Searching the raw bytes with
// this comparator gives the same offsets without decoding anything.
func asciiByte(have byte, want byte) bool {
	return asciiChar(have) == want
}

func asciiChar(b byte) byte {
	if b > 0x7F {
		return AsciiReplacement
	}
	return b
}

// Find the first offset at or after from where needle matches under the
// given comparator. Returns -1 if there is no match, the needle is empty or
// from is out of range. Every search in this package goes through here.
func indexFrom(data []byte, needle []byte, from int, equal byteComparator) int {
	if len(needle) == 0 || from < 0 || from > len(data) {
		return -1
	}
	last := len(data) - len(needle)
	for i := from; i <= last; i++ {
		match := true
		for j := range needle {
			if !equal(data[i+j], needle[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Locate an ASCII token at or after from, treating the buffer as raw bytes
// (no null termination, no utf8)
func FindASCII(data []byte, needle string, from int) (int, bool) {
	pos := indexFrom(data, []byte(needle), from, asciiByte)
	return pos, pos >= 0
}

// Locate an exact byte pattern at or after from. Used for binary magic that
// isn't valid ASCII, like the JPEG markers.
func FindPattern(data []byte, pattern []byte, from int) (int, bool) {
	pos := indexFrom(data, pattern, from, exactByte)
	return pos, pos >= 0
}

// Return exactly length bytes starting at offset. The returned slice aliases
// data.
func ReadField(data []byte, offset int, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, &OutOfBoundsError{Offset: offset, Length: length, Size: len(data)}
	}
	return data[offset : offset+length], nil
}

// Decode a fixed width text field: one character per byte, anything over
// 0x7F becomes '?', and trailing NUL padding is removed. NULs in the middle
// of the field are kept.
func DecodeTrimmedASCII(field []byte) string {
	end := len(field)
	for end > 0 && field[end-1] == 0 {
		end--
	}
	var sb strings.Builder
	sb.Grow(end)
	for _, b := range field[:end] {
		sb.WriteByte(asciiChar(b))
	}
	return sb.String()
}

// Render an identifier field as uppercase hex pairs with no separators
func DecodeHexIdentifier(field []byte) string {
	return strings.ToUpper(hex.EncodeToString(field))
}
