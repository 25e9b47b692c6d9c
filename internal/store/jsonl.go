package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is one
// JSON-serialized Event. The file is synced after every Append so an edit
// survives a crash of the editing process. The file is opened in append
// mode, so several processes may journal into it; each only indexes the
// lines it has read or written itself.
type JSONL struct {
	file      *os.File
	path      string
	mu        sync.Mutex
	idx       *fileIndex
	pos       int64 // current write position in the file
	torn      bool  // file ends without a newline; the next append starts one
	updatedAt time.Time
	log       *slog.Logger
}

// OpenJSONL opens (or creates) the journal at path, creating its directory
// if needed, and indexes any events already in it. Malformed lines are
// reported to log; a nil log discards them.
func OpenJSONL(path string, log *slog.Logger) (*JSONL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	j := &JSONL{file: f, path: path, idx: newFileIndex(), log: orDiscard(log)}
	if err := j.scan(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return j, nil
}

// scan indexes the existing content and leaves the file positioned at its end.
func (j *JSONL) scan() error {
	r := bufio.NewReader(j.file)
	var offset int64
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			if line[len(line)-1] != '\n' {
				j.torn = true
			}
			if e, ok := decodeLine(j.log, line, j.path); ok {
				j.idx.onAppend(e, offset, int64(len(line)))
				j.updatedAt = e.Timestamp
			}
			offset += int64(len(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("store: read %q: %w", j.path, err)
		}
	}
	pos, err := j.file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("store: seek: %w", err)
	}
	j.pos = pos
	return nil
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}

func decodeLine(log *slog.Logger, line []byte, path string) (Event, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Event{}, false
	}
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		log.Warn("store: skipping malformed journal line", "path", path, "err", err)
		return Event{}, false
	}
	return e, true
}

// Path returns the journal file path.
func (j *JSONL) Path() string { return j.path }

// Append serializes e as a JSON line, writes it to the file, and syncs.
// It is safe to call from multiple goroutines.
func (j *JSONL) Append(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.torn {
		data = append([]byte{'\n'}, data...)
	}
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	end, err := j.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("store: seek: %w", err)
	}
	lineLen := int64(len(data))
	lineOffset := end - lineLen
	j.pos = end
	if j.torn {
		lineOffset++
		lineLen--
		j.torn = false
	}
	j.idx.onAppend(e, lineOffset, lineLen)
	j.updatedAt = e.Timestamp
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Units returns a summary for every unit that appears in the journal, in
// creation order. The returned slice is a copy and safe to mutate.
func (j *JSONL) Units() ([]UnitSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.summaries(), nil
}

// UnitLog returns every journaled event of unit id, reading the lines back
// through the in-memory byte-offset index.
func (j *JSONL) UnitLog(id string) ([]Event, error) {
	j.mu.Lock()
	ranges := append([]lineRange(nil), j.idx.ranges[id]...)
	j.mu.Unlock()
	if len(ranges) == 0 {
		return nil, fmt.Errorf("store: unit %q not found", id)
	}
	events := make([]Event, 0, len(ranges))
	for _, r := range ranges {
		buf := make([]byte, r.end-r.start)
		if _, err := j.file.ReadAt(buf, r.start); err != nil {
			return nil, fmt.Errorf("store: read unit %q: %w", id, err)
		}
		if e, ok := decodeLine(j.log, buf, j.path); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// Summary returns metadata about the journal.
func (j *JSONL) Summary() (JournalSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := JournalSummary{Path: j.path, Events: j.idx.events, UpdatedAt: j.updatedAt}
	for _, u := range j.idx.units {
		if u.Closed {
			s.Closed++
		} else {
			s.OpenUnits++
		}
	}
	return s, nil
}

// EnforceRetention removes the oldest journal backups in dir, keeping at
// most maxKeep files. If maxKeep is 0, no files are removed. Returns nil if
// dir does not exist.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), backupSuffix) {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files) // timestamp-prefixed names sort chronologically

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}
