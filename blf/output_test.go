package blf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	check := func(name string, expected string) {
		result := SanitizeFilename(name)
		if result != expected {
			t.Fatalf("Sanitizing %q: expected %q, got %q", name, expected, result)
		}
	}
	check("Slayer Pro", "Slayer Pro")
	check("What? No: <way> \"really\" a|b*c/d\\e", "What No way really abcde")
	check("tab\there\x01", "tabhere")
	check("???", "")
	check("", "")
}

func TestOutputName(t *testing.T) {
	meta := sampleMetadata("mpvr")
	if name := OutputName(meta, "/some/where/file_00"); name != "Slayer Pro" {
		t.Fatalf("Expected content name, got %s", name)
	}
	meta.ContentName = "??**"
	if name := OutputName(meta, "/some/where/file_00.blf"); name != "file_00" {
		t.Fatalf("Expected source name fallback, got %s", name)
	}
	meta.ContentName = ""
	if name := OutputName(meta, "/some/where/???"); name != FallbackFilename {
		t.Fatalf("Expected final fallback, got %s", name)
	}
	meta.ContentName = ".."
	if name := OutputName(meta, ".."); name != FallbackFilename {
		t.Fatalf("Expected final fallback for dot names, got %s", name)
	}
}

func TestOutputPath(t *testing.T) {
	expected := map[string]string{
		"mpvr": filepath.Join("out", "Gametypes", "Slayer Pro.bin"),
		"mvar": filepath.Join("out", "Map variants", "Slayer Pro.mvar"),
		"athr": filepath.Join("out", "Theater films", "Slayer Pro.film"),
		"scnc": filepath.Join("out", "Screenshots", "Slayer Pro.jpg"),
	}
	for tag, path := range expected {
		result, err := OutputPath("out", testExtraction(tag), "src")
		if err != nil {
			t.Fatalf("Unexpected error for %s: %s", tag, err)
		}
		if result != path {
			t.Fatalf("Expected %s, got %s", path, result)
		}
	}
	if _, err := OutputPath("out", testExtraction("zzzz"), "src"); err == nil {
		t.Fatalf("Expected error for extraction without payload")
	}
}

func TestWritePayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Gametypes", "thing.bin")
	if err := WritePayload(path, []byte("first")); err != nil {
		t.Fatalf("Couldn't write payload: %s", err)
	}
	if err := WritePayload(path, []byte("second")); err != nil {
		t.Fatalf("Couldn't overwrite payload: %s", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Couldn't read payload back: %s", err)
	}
	if string(data) != "second" {
		t.Fatalf("Expected overwritten data, got %s", data)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "b", []byte("1"))
	writeTestFile(t, dir, "a", []byte("2"))
	writeTestFile(t, dir, "c.txt", []byte("3"))
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0770); err != nil {
		t.Fatalf("Couldn't make subdir: %s", err)
	}
	writeTestFile(t, filepath.Join(dir, "sub"), "hidden", []byte("4"))

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("Couldn't list files: %s", err)
	}
	expected := []string{filepath.Join(dir, "a"), filepath.Join(dir, "b"), filepath.Join(dir, "c.txt")}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %v", len(expected), files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Fatalf("Expected %s at %d, got %s", expected[i], i, files[i])
		}
	}

	if _, err := ListFiles(filepath.Join(dir, "nope")); err == nil {
		t.Fatalf("Expected error for missing directory")
	}
	if _, err := ListFiles(filepath.Join(dir, "a")); err == nil {
		t.Fatalf("Expected error for a file instead of a directory")
	}
}

func TestMd5String(t *testing.T) {
	if sum := Md5String([]byte{}); sum != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("Wrong md5 for empty data: %s", sum)
	}
}
