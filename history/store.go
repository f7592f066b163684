package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"

	"squnch/models"
)

// Record is the durable audit entry written for every terminal job. It is
// never consulted for live job state; the job store owns that.
type Record struct {
	FileID           string           `json:"fileId"`
	Kind             models.JobKind   `json:"kind"`
	Outcome          models.JobStatus `json:"outcome"`
	QualityPreset    string           `json:"qualityPreset"`
	OriginalSize     int64            `json:"originalSize"`
	CompressedSize   int64            `json:"compressedSize,omitempty"`
	CompressionRatio int              `json:"compressionRatio,omitempty"`
	Error            string           `json:"error,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// Store persists terminal-job records in a Pebble database.
type Store struct {
	db *pebble.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ObserveTerminal is the job store observer that writes the audit record.
// Storage failures are logged by the caller side via the returned error path
// being swallowed here; a history write must never affect job state.
func (s *Store) ObserveTerminal(job models.CompressionJob) {
	_ = s.put(Record{
		FileID:           job.FileID,
		Kind:             job.Kind,
		Outcome:          job.Status,
		QualityPreset:    job.QualityPreset,
		OriginalSize:     job.OriginalSize,
		CompressedSize:   job.CompressedSize,
		CompressionRatio: job.CompressionRatio,
		Error:            job.Error,
		Timestamp:        time.Now(),
	})
}

func (s *Store) put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}
	return s.db.Set([]byte(rec.FileID), data, pebble.Sync)
}

// Get retrieves a record by file id. A missing record returns (nil, nil).
func (s *Store) Get(fileID string) (*Record, error) {
	data, closer, err := s.db.Get([]byte(fileID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
	}
	return &rec, nil
}

// List returns all records (for admin/debugging).
func (s *Store) List() ([]Record, error) {
	var records []Record
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue // Skip invalid records
		}
		records = append(records, rec)
	}
	return records, nil
}

// CleanupOldRecords removes records older than maxAge.
func (s *Store) CleanupOldRecords(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue
		}
		if rec.Timestamp.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}

	for _, key := range keysToDelete {
		if err := s.db.Delete(key, pebble.Sync); err != nil {
			return fmt.Errorf("failed to delete old history record: %w", err)
		}
	}
	return nil
}
