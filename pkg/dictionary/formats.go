package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // Newline-delimited phrases
	FormatSnapshot            // msgpack snapshot written by SaveSnapshot
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".lst", ""},
		MinSize:     0, // an empty list is a valid, if useless, dictionary
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Msgpack Dictionary Snapshot",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     2, // fixmap header plus at least one byte
	},
}

// String returns the format description.
func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if !hasExtension(filename, formatInfo.Extensions) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, filepath.Ext(filename), formatInfo.Description, formatInfo.Extensions)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	file.Close()

	log.Debugf("%s %s validated (%d bytes)", formatInfo.Description, filename, fileInfo.Size())
	return nil
}

// DetectFileFormat attempts to detect the format of a file.
// Anything that is not a snapshot is read as a text word list.
func DetectFileFormat(filename string) (FileFormat, error) {
	if hasExtension(filename, supportedFormats[FormatSnapshot].Extensions) {
		if err := ValidateFileFormat(filename, FormatSnapshot); err != nil {
			return FormatUnknown, err
		}
		return FormatSnapshot, nil
	}

	if !hasExtension(filename, supportedFormats[FormatText].Extensions) {
		// word lists often come as npdict.dat, words.dic, ...
		log.Debugf("Treating %s as a text word list", filename)
		fileInfo, err := os.Stat(filename)
		if err != nil {
			return FormatUnknown, fmt.Errorf("failed to stat file %s: %w", filename, err)
		}
		if fileInfo.IsDir() {
			return FormatUnknown, fmt.Errorf("%s is a directory", filename)
		}
		return FormatText, nil
	}

	if err := ValidateFileFormat(filename, FormatText); err != nil {
		return FormatUnknown, err
	}
	return FormatText, nil
}

func hasExtension(filename string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, valid := range extensions {
		if ext == valid {
			return true
		}
	}
	return false
}
