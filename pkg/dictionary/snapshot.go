package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the msgpack form of a compiled dictionary.
type Snapshot struct {
	Version int      `msgpack:"v"`
	Created int64    `msgpack:"t"`
	Phrases []string `msgpack:"p"`
}

// SaveSnapshot writes the kept phrases of d to path as msgpack.
func (d *PhraseDict) SaveSnapshot(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}

	if err := d.writeSnapshot(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot %s: %w", path, err)
	}

	log.Debugf("Snapshot %s written: %d phrases", path, len(d.phrases))
	return nil
}

func (d *PhraseDict) writeSnapshot(w io.Writer) error {
	buf := bufio.NewWriter(w)
	snap := Snapshot{
		Version: SnapshotVersion,
		Created: time.Now().Unix(),
		Phrases: d.phrases,
	}
	if err := msgpack.NewEncoder(buf).Encode(&snap); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return buf.Flush()
}

func readSnapshot(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer file.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot %s has version %d, expected %d", path, snap.Version, SnapshotVersion)
	}
	return snap.Phrases, nil
}
