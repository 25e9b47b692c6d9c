package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
)

// backupSuffix marks the journal copies Compact leaves behind.
const backupSuffix = ".jsonl.bak"

// BackupDir returns the directory that holds backups of the journal at path.
func BackupDir(path string) string {
	return filepath.Join(filepath.Dir(path), "backups")
}

// Compact rewrites the journal at path as one create event per open unit,
// dropping undone edits and closed units. The previous journal is moved to
// BackupDir(path) and at most keep backups are retained (0 keeps all).
// The new file is written beside the old one and renamed over it, so a
// reader never sees a partial journal.
//
// Compact must not run while another process holds the journal open.
func Compact(path string, units history.Collection, keep int) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("store: mkdir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".journal-*.tmp")
	if err != nil {
		return "", fmt.Errorf("store: create temp journal: %w", err)
	}
	now := time.Now().UTC()
	enc := json.NewEncoder(tmp)
	for _, u := range units.Units() {
		steps, encErr := encodeAll(u.Instructions())
		if encErr == nil {
			encErr = enc.Encode(Event{Kind: EventCreate, Timestamp: now, UnitID: u.ID(), Name: u.Name(), Steps: steps})
		}
		if encErr != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", fmt.Errorf("store: write unit %s: %w", u.ID(), encErr)
		}
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store: sync temp journal: %w", syncErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store: close temp journal: %w", closeErr)
	}

	var backup string
	if _, statErr := os.Stat(path); statErr == nil {
		bdir := BackupDir(path)
		if err := os.MkdirAll(bdir, 0755); err != nil {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("store: mkdir %q: %w", bdir, err)
		}
		backup = filepath.Join(bdir, strconv.FormatInt(now.UnixNano(), 10)+backupSuffix)
		if err := os.Rename(path, backup); err != nil {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("store: back up journal: %w", err)
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return backup, fmt.Errorf("store: rename journal: %w", err)
	}
	if backup != "" {
		if err := EnforceRetention(BackupDir(path), keep); err != nil {
			return backup, err
		}
	}
	return backup, nil
}
