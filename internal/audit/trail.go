// Package audit implements the tamper-evident event trail: an append-only
// JSONL file with SHA-256 hash chaining, a chain verifier, a filtered
// replay reader, and a SQLite query index over large trails.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GenesisHash is the prev_hash for the first entry in a new trail.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Trail is an append-only JSONL event trail with SHA-256 hash chaining.
// Each entry's prev_hash is the hash of the previous entry's JSON line,
// forming a tamper-evident chain. Safe for concurrent Record calls.
type Trail struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) a trail file for appending. If the file already
// exists, it reads the last line to recover the chain tail.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	prevHash := GenesisHash

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("audit: read existing trail: %w", err)
		}
		scanner := bufio.NewScanner(f)
		var lastLine []byte
		for scanner.Scan() {
			lastLine = make([]byte, len(scanner.Bytes()))
			copy(lastLine, scanner.Bytes())
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("audit: scan existing trail: %w", err)
		}
		if len(lastLine) > 0 {
			prevHash = HashLine(lastLine)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}

	return &Trail{
		path:     path,
		file:     file,
		prevHash: prevHash,
	}, nil
}

// Path returns the trail file path.
func (t *Trail) Path() string { return t.path }

// Record appends an Entry with hash chaining. It sets the entry's PrevHash
// and Timestamp (if empty), marshals to JSON, writes the line, and syncs to
// disk.
func (t *Trail) Record(entry Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = UTCNowISO()
	}
	if entry.Args == nil {
		entry.Args = []string{}
	}
	entry.PrevHash = t.prevHash

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	if _, err := t.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}

	if err := t.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	t.prevHash = HashLine(line)
	return nil
}

// Close flushes and closes the underlying file.
func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
