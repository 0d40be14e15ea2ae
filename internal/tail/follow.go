// Package tail follows a JSONL trail file and hands each newly appended
// line to a handler. It drives `ppadl audit tail -f`.
package tail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollDefault is the polling interval used when fsnotify is unavailable.
const pollDefault = 1 * time.Second

// debounceDefault coalesces bursts of write events into one read.
const debounceDefault = 100 * time.Millisecond

// Follower tails a file from its current end, emitting complete lines.
type Follower struct {
	path     string
	handler  func(line []byte)
	debounce time.Duration
	poll     time.Duration

	offset  int64
	partial bytes.Buffer
}

// New creates a follower that calls handler for every line appended to
// path after Run starts.
func New(path string, handler func(line []byte)) *Follower {
	return &Follower{
		path:     path,
		handler:  handler,
		debounce: debounceDefault,
		poll:     pollDefault,
	}
}

// Run follows the file until ctx is cancelled. Watching the parent
// directory rather than the file itself survives rename-style rotation.
// Falls back to polling when fsnotify cannot watch the path (e.g. NFS).
func (f *Follower) Run(ctx context.Context) error {
	if err := f.seekEnd(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return f.runPolling(ctx)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		_ = watcher.Close()
		return f.runPolling(ctx)
	}

	// Single debounce timer, reset on each event, no goroutines.
	// Initialized as stopped; first event starts it.
	debounceTimer := time.NewTimer(f.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			if err := f.drain(); err != nil {
				return err
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != f.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(f.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}

// runPolling reads new content on a fixed interval.
func (f *Follower) runPolling(ctx context.Context) error {
	ticker := time.NewTicker(f.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := f.drain(); err != nil {
				return err
			}
		}
	}
}

// seekEnd records the current size so only appended content is emitted.
// A missing file starts at offset zero and is picked up when created.
func (f *Follower) seekEnd() error {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.offset = 0
			return nil
		}
		return fmt.Errorf("tail: stat %s: %w", f.path, err)
	}
	f.offset = info.Size()
	return nil
}

// drain reads everything past the current offset and emits complete lines.
// A trailing fragment without a newline is buffered until its line
// completes.
func (f *Follower) drain() error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("tail: open %s: %w", f.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("tail: stat %s: %w", f.path, err)
	}
	if info.Size() < f.offset {
		// Truncated or rotated in place; start over from the top.
		f.offset = 0
		f.partial.Reset()
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("tail: seek %s: %w", f.path, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("tail: read %s: %w", f.path, err)
	}
	f.offset += int64(len(data))

	f.partial.Write(data)
	for {
		raw := f.partial.Bytes()
		nl := bytes.IndexByte(raw, '\n')
		if nl < 0 {
			return nil
		}
		line := make([]byte, nl)
		copy(line, raw[:nl])
		f.partial.Next(nl + 1)
		if len(line) > 0 {
			f.handler(line)
		}
	}
}
