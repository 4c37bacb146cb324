package main

import (
	"fmt"
	"os"

	"github.com/randomouscrap98/blfgotools/blf"
)

// List every marker offset in a file. Useful when a container won't extract
// and you want to see where (or whether) its boundaries are.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: dumpmarkers <filename>")
		return
	}

	filename := os.Args[1]
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println("Error reading file:", err)
		return
	}

	markers := []struct {
		name    string
		pattern []byte
	}{
		{"container", []byte(blf.MagicMarker)},
		{"stop", []byte(blf.StopSequence)},
		{"jpeg start", blf.JpegStartPattern},
		{"jpeg end", blf.JpegEndPattern},
	}

	for _, m := range markers {
		count := 0
		for pos, ok := blf.FindPattern(data, m.pattern, 0); ok; pos, ok = blf.FindPattern(data, m.pattern, pos+1) {
			fmt.Printf("%-10s 0x%08X\n", m.name, pos)
			count++
		}
		fmt.Printf("%-10s found %d\n", m.name, count)
	}

	if len(data) >= blf.MinContainerLength {
		meta, err := blf.ParseMetadata(data)
		if err == nil {
			fmt.Printf("header type at 0x%X: '%s' (%s)\n", blf.MinContainerLength-4, meta.HeaderType, meta.Kind())
		}
	} else {
		fmt.Printf("File is only %d bytes, too short for metadata (need %d)\n", len(data), blf.MinContainerLength)
	}
}
