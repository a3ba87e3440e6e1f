package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrWordListUnreadable is returned when the dictionary source cannot be read.
var ErrWordListUnreadable = errors.New("word list unreadable")

// maxLineSize bounds a single phrase line.
const maxLineSize = 1 << 20

// ReadPhrases reads newline-delimited phrases, trimming blanks and skipping empty lines.
func ReadPhrases(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var phrases []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read phrases: %w", err)
	}
	return phrases, nil
}

// Load reads a dictionary from a text word list or a msgpack snapshot.
// Any failure to read the source is reported as ErrWordListUnreadable.
func Load(path string, rng *rand.Rand, opts ...Option) (*PhraseDict, error) {
	start := time.Now()

	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWordListUnreadable, err)
	}

	var phrases []string
	switch format {
	case FormatSnapshot:
		phrases, err = readSnapshot(path)
	default:
		phrases, err = readTextFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWordListUnreadable, err)
	}

	d := New(phrases, rng, opts...)
	log.Debugf("Loaded %s %s: %d phrases, %d words in %v",
		format, path, len(phrases), d.Len(), time.Since(start))
	return d, nil
}

func readTextFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	return ReadPhrases(file)
}
