package blf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

var jfifApp0 = []byte{
	0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
}

func sampleMetadata(headerType string) *ContainerMetadata {
	return &ContainerMetadata{
		ContentName:  "Slayer Pro",
		CreatorName:  "Spartan117",
		CreatorID:    "0009000001A2B3C4",
		ModifierName: "Arbiter",
		ModifierID:   "000900000F0E0D0C",
		Description:  "Classic slayer, first to 50 wins",
		HeaderType:   headerType,
	}
}

// A container with the marker at markerOffset and nothing else but the
// metadata fields
func makeContainer(t *testing.T, meta *ContainerMetadata, markerOffset int) []byte {
	data, err := BuildContainer(meta, MinContainerLength, markerOffset, nil)
	if err != nil {
		t.Fatalf("Couldn't build container: %s", err)
	}
	return data
}

// A real JPEG with the JFIF APP0 segment that screenshots carry (the go
// encoder doesn't write one)
func testJpeg(t *testing.T, width int, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Couldn't encode test jpeg: %s", err)
	}
	raw := buf.Bytes()
	result := make([]byte, 0, len(raw)+len(jfifApp0))
	result = append(result, raw[:2]...)
	result = append(result, jfifApp0...)
	result = append(result, raw[2:]...)
	return result
}

// A screenshot container with the jpeg right after the marker
func makeScreenshotContainer(t *testing.T, jpg []byte) []byte {
	data, err := BuildContainer(sampleMetadata("scnc"), MinContainerLength+len(jpg), 0x100, jpg)
	if err != nil {
		t.Fatalf("Couldn't build screenshot container: %s", err)
	}
	return data
}

func writeTestFile(t *testing.T, dir string, name string, data []byte) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Couldn't write test file %s: %s", path, err)
	}
	return path
}
