// Package history journals completed operations (uploads, menu updates,
// music changes, clock syncs) as JSON files. The journal is the only
// state breeze keeps between runs; remote state is never cached.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal manages operation logging to the filesystem.
type Journal struct {
	dir string
	mu  sync.Mutex
}

// New creates a Journal with the given directory.
// The directory is not created until EnsureDir is called.
func New(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &Journal{dir: dir}, nil
}

// EnsureDir creates the journal directory if it does not exist.
func (j *Journal) EnsureDir() error {
	return os.MkdirAll(j.dir, 0o755)
}

// Log creates and persists an entry for the given operation.
func (j *Journal) Log(op OperationType, records []Record) (*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().UTC()

	var summary Summary
	summary.Total = len(records)
	for _, r := range records {
		summary.Bytes += r.Size
		if r.Error != "" {
			summary.Failed++
		}
	}

	entry := &Entry{
		ID:        generateID(op, now),
		Timestamp: now,
		Operation: op,
		Records:   records,
		Summary:   summary,
	}

	if err := j.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to write history entry: %w", err)
	}

	return entry, nil
}

// writeEntry writes an entry atomically via a temp file and rename.
func (j *Journal) writeEntry(entry *Entry) error {
	filePath := filepath.Join(j.dir, entry.ID+".json")

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// List returns entries sorted by timestamp descending (newest first).
// If limit is 0 or negative, all entries are returned.
func (j *Journal) List(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		entry, err := j.readEntryFile(f.Name())
		if err != nil {
			// Skip files that can't be parsed.
			continue
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, k int) bool {
		return entries[i].Timestamp.After(entries[k].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// Get retrieves a specific entry by ID.
func (j *Journal) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	entry, err := j.readEntryFile(id + ".json")
	if err != nil {
		return nil, fmt.Errorf("entry not found: %s", id)
	}
	return entry, nil
}

// readEntryFile reads and parses a journal entry from a JSON file.
func (j *Journal) readEntryFile(filename string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(j.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return &entry, nil
}

// Cleanup removes entries older than retentionDays.
func (j *Journal) Cleanup(retentionDays int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read history directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		info, err := f.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(j.dir, f.Name()))
		}
	}

	return nil
}

// generateID creates an ID like "upload-2024-06-15T10-30-00-1a2b3c4d".
func generateID(op OperationType, t time.Time) string {
	ts := t.Format("2006-01-02T15-04-05")
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%s", op, ts, suffix)
}
