// Package archive decodes downloaded package archives into relative paths and contents.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Entry is a single file or directory of an archive.
type Entry struct {
	Path    string // slash separated, relative to the archive root
	IsDir   bool
	Content []byte // nil for directories
}

// Decode reads a zip archive from data. Entries with absolute paths or ".."
// components are rejected so extraction can never escape the target directory.
func Decode(data []byte) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid zip archive: %w", err)
	}

	entries := make([]Entry, 0, len(reader.File))
	for _, file := range reader.File {
		name, err := cleanPath(file.Name)
		if err != nil {
			return nil, err
		}
		if name == "" {
			continue
		}

		if file.FileInfo().IsDir() {
			entries = append(entries, Entry{Path: name, IsDir: true})
			continue
		}

		content, err := readFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
		entries = append(entries, Entry{Path: name, Content: content})
	}
	return entries, nil
}

func readFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// cleanPath normalises an archive entry name and rejects unsafe paths.
func cleanPath(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") || (len(name) > 1 && name[1] == ':') {
		return "", fmt.Errorf("illegal absolute path in archive: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("illegal path in archive: %s", name)
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}
