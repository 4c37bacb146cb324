package blf

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	InvalidFilenameChars = "\"<>|:*?\\/"
	FallbackFilename     = "untitled"
)

// Remove anything that can't go into a file name on the platforms people
// actually pull these containers onto (the windows set is the strictest)
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(InvalidFilenameChars, r) {
			return -1
		}
		return r
	}, name)
}

// Output file name (without extension) for a container: the sanitized
// content name, or the source file's name if that comes out empty
func OutputName(meta *ContainerMetadata, source string) string {
	name := SanitizeFilename(meta.ContentName)
	if strings.TrimSpace(name) == "" {
		base := filepath.Base(source)
		name = SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		name = FallbackFilename
	}
	return name
}

// root/<kind folder>/<name><extension>
func OutputPath(root string, ext *Extraction, source string) (string, error) {
	if ext.Result == nil {
		return "", fmt.Errorf("No payload to write for %s", source)
	}
	return filepath.Join(root, ext.Kind.Directory(), OutputName(&ext.Metadata, source)+ext.Result.Extension), nil
}

// Write the payload, creating the kind folder if needed. Existing files are
// overwritten.
func WritePayload(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0644)
}

// All regular files directly inside dir (no recursion), sorted
func ListFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("Directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("Not a directory: %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			result = append(result, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(result)
	return result, nil
}

// Produce an md5 string from given data (a simple shortcut)
func Md5String(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}
