package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/randomouscrap98/blfgotools/blf"
)

// Write a synthetic container for testing the extractor against. The payload
// is very obvious data (constantly increasing values) wrapped in whatever
// boundary the header type needs.
func main() {
	if len(os.Args) < 3 || len(os.Args) > 5 {
		fmt.Println("Usage: mkcontainer <filename> <headertype> [payloadlength] [contentname]")
		return
	}

	filename := os.Args[1]
	headerType := os.Args[2]
	length := 1024
	if len(os.Args) > 3 {
		var err error
		length, err = strconv.Atoi(os.Args[3])
		if err != nil || length < 0 {
			fmt.Println("Error: can't parse length: ", os.Args[3])
			return
		}
	}
	name := "Test " + headerType
	if len(os.Args) > 4 {
		name = os.Args[4]
	}

	payload := make([]byte, length)
	for i := 0; i < length; i++ {
		payload[i] = uint8(i & 0xFF)
	}
	switch blf.KindFromHeaderType(headerType) {
	case blf.KindScreenshot:
		// Not a decodable image, just the boundaries the extractor looks for
		payload = append(append(append([]byte{}, blf.JpegStartPattern...), payload...), blf.JpegEndPattern...)
	case blf.KindUnknown:
	default:
		payload = append(payload, blf.StopSequence...)
		payload = append(payload, make([]byte, blf.StopSequencePadding)...)
	}

	meta := blf.ContainerMetadata{
		ContentName:  name,
		CreatorName:  "mkcontainer",
		CreatorID:    "0000000000000001",
		ModifierName: "mkcontainer",
		ModifierID:   "0000000000000001",
		Description:  fmt.Sprintf("Synthetic %s container, %d byte payload", headerType, length),
		HeaderType:   headerType,
	}

	// Marker goes after the metadata so the payload can be any size
	markerOffset := blf.MinContainerLength
	size := markerOffset + len(blf.MagicMarker) + len(payload)
	data, err := blf.BuildContainer(&meta, size, markerOffset, payload)
	if err != nil {
		fmt.Println("Error building container: ", err)
		return
	}

	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		fmt.Println("Error writing file: ", err)
		return
	}

	fmt.Printf("Wrote %s container %s (%d bytes, marker at 0x%X)\n", headerType, filename, len(data), markerOffset)
}
