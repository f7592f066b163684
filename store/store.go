package store

import (
	"errors"
	"sync"
	"time"

	"squnch/logger"
	"squnch/models"
)

var (
	// ErrDuplicateID is returned by Create when the fileId already exists.
	ErrDuplicateID = errors.New("job store: duplicate file id")
	// ErrNotFound is returned when the fileId is unknown.
	ErrNotFound = errors.New("job store: job not found")
	// ErrAlreadyTerminal is returned by Update against a completed or
	// errored job. The record is left untouched; callers treat it as an
	// observability signal, not a failure requiring action.
	ErrAlreadyTerminal = errors.New("job store: job already terminal")
)

// Observer is notified exactly once when a job reaches a terminal state.
// It receives a snapshot of the record taken under the record lock.
type Observer func(job models.CompressionJob)

// record pairs a job with its own lock so updates to different jobs never
// block each other. notified guards the single terminal event.
type record struct {
	mu       sync.Mutex
	job      models.CompressionJob
	notified bool
}

// Store is the concurrency-safe job registry and the single source of truth
// for job state. Records live for the process lifetime.
type Store struct {
	mu        sync.RWMutex
	records   map[string]*record
	observers []Observer
}

func New() *Store {
	return &Store{records: make(map[string]*record)}
}

// OnTerminal registers an observer for terminal transitions. Must be called
// during wiring, before jobs are created.
func (s *Store) OnTerminal(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Create inserts a new job record. Video jobs start pending; image jobs are
// created pending too but transition within the same request.
func (s *Store) Create(fileID string, kind models.JobKind, p models.QualityPreset, originalSize int64, batchID string) (models.CompressionJob, error) {
	job := models.CompressionJob{
		FileID:        fileID,
		Kind:          kind,
		Status:        models.StatusPending,
		QualityPreset: p.ID,
		PresetName:    p.Name,
		OriginalSize:  originalSize,
		StartTime:     time.Now(),
		BatchID:       batchID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[fileID]; exists {
		return models.CompressionJob{}, ErrDuplicateID
	}
	s.records[fileID] = &record{job: job}
	logger.Debugf("job created: id=%s kind=%s preset=%s size=%d", fileID, kind, p.ID, originalSize)
	return job, nil
}

// Get returns a snapshot of the job record.
func (s *Store) Get(fileID string) (models.CompressionJob, error) {
	rec, err := s.lookup(fileID)
	if err != nil {
		return models.CompressionJob{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.job, nil
}

// Update applies mutate to the record atomically. Read-modify-write is
// serialized per record. If the mutation moves the job into a terminal
// state, registered observers fire exactly once with the post-mutation
// snapshot, still ordered before any later update of the same record.
func (s *Store) Update(fileID string, mutate func(*models.CompressionJob)) (models.CompressionJob, error) {
	rec, err := s.lookup(fileID)
	if err != nil {
		return models.CompressionJob{}, err
	}

	rec.mu.Lock()
	if rec.job.Status.Terminal() {
		snapshot := rec.job
		rec.mu.Unlock()
		return snapshot, ErrAlreadyTerminal
	}
	mutate(&rec.job)
	snapshot := rec.job
	fire := snapshot.Status.Terminal() && !rec.notified
	if fire {
		rec.notified = true
	}
	rec.mu.Unlock()

	if fire {
		logger.Infof("job terminal: id=%s status=%s ratio=%d%%", snapshot.FileID, snapshot.Status, snapshot.CompressionRatio)
		s.mu.RLock()
		observers := s.observers
		s.mu.RUnlock()
		for _, obs := range observers {
			obs(snapshot)
		}
	}
	return snapshot, nil
}

func (s *Store) lookup(fileID string) (*record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}
