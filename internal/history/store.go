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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/globaltime"
)

// DefaultMaxRecords is the retention limit when none is configured.
const DefaultMaxRecords = 10

const recordFilePrefix = "history_"

// ErrNotFound is returned by Load for an unknown record identifier.
var ErrNotFound = errors.New("history record not found")

// Store persists processing runs as one JSON file per record under a data
// directory, evicting the oldest records beyond the retention limit.
type Store struct {
	dir        string
	maxRecords int
	logger     zerolog.Logger
	mu         sync.Mutex
}

func NewStore(dir string, maxRecords int, logger zerolog.Logger) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, maxRecords: maxRecords, logger: logger}, nil
}

// Save assigns an identifier and timestamp, writes the record, and evicts
// the oldest records beyond the retention limit.
func (s *Store) Save(record Record) (string, error) {
	if s == nil {
		return "", fmt.Errorf("history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.NewString()
	if record.Timestamp.IsZero() {
		record.Timestamp = globaltime.UTC()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode history record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(record.ID), data, 0o644); err != nil {
		return "", fmt.Errorf("write history record: %w", err)
	}

	s.evictLocked()
	return record.ID, nil
}

// Load reads one record by identifier.
func (s *Store) Load(id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read history record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode history record %s: %w", id, err)
	}
	return &record, nil
}

// All returns every readable record, newest first. Corrupt files are
// skipped with a warning rather than failing the listing.
func (s *Store) All() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isRecordFile(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable history file")
			continue
		}
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping corrupt history file")
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID > records[j].ID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Recent returns up to limit artifact strings of the given kind, most
// recent first. No history is an empty slice, never an error.
func (s *Store) Recent(kind generate.Kind, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	records, err := s.All()
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, limit)
	for _, record := range records {
		switch kind {
		case generate.KindTitles:
			items = append(items, record.Titles...)
		case generate.KindDescription:
			if record.Description != "" {
				items = append(items, record.Description)
			}
		case generate.KindBlogPost:
			if record.BlogPost != "" {
				items = append(items, record.BlogPost)
			}
		}
		if len(items) >= limit {
			break
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Export writes every record into a single JSON document.
func (s *Store) Export(path string) error {
	records, err := s.All()
	if err != nil {
		return err
	}

	payload := struct {
		ExportedAt string   `json:"exported_at"`
		Records    []Record `json:"records"`
	}{
		ExportedAt: globaltime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Records:    records,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history export: %w", err)
	}
	return nil
}

func (s *Store) evictLocked() {
	records, err := s.All()
	if err != nil {
		s.logger.Warn().Err(err).Msg("history eviction skipped")
		return
	}
	if len(records) <= s.maxRecords {
		return
	}

	for _, record := range records[s.maxRecords:] {
		if record.ID == "" {
			continue
		}
		if err := os.Remove(s.recordPath(record.ID)); err != nil {
			s.logger.Warn().Err(err).Str("id", record.ID).Msg("failed to remove old history record")
			continue
		}
		s.logger.Info().Str("id", record.ID).Msg("removed old history record")
	}
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.dir, recordFilePrefix+id+".json")
}

func isRecordFile(name string) bool {
	return strings.HasPrefix(name, recordFilePrefix) && strings.HasSuffix(name, ".json")
}
