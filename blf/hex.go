package blf

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

const (
	HexExtension  = ".hex"
	HexLineLength = 16
)

// Dump a payload as Intel HEX starting at address 0. Handy for diffing
// gametypes and map variants in tools that understand hex records.
func BinToHex(data []byte, w io.Writer) error {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(0, data); err != nil {
		return err
	}
	return mem.DumpIntelHex(w, HexLineLength)
}

// Read an Intel HEX dump back into a flat binary. Gaps are zero filled.
func HexToBin(r io.Reader) ([]byte, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return []byte{}, nil
	}
	last := segments[len(segments)-1]
	end := last.Address + uint32(len(last.Data))
	if segments[0].Address != 0 {
		return nil, fmt.Errorf("Hex data doesn't start at address 0 (starts at 0x%X)", segments[0].Address)
	}
	return mem.ToBinary(0, end, 0), nil
}
