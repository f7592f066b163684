package batch

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"squnch/logger"
	"squnch/models"
)

// ErrUnknownBatch is returned when a job references a batch id that was
// never started.
var ErrUnknownBatch = errors.New("batch: unknown batch id")

// Tracker groups jobs under caller-declared batches and accumulates their
// terminal outcomes. It is driven solely by the job store's exactly-once
// terminal events, so a member is never double-counted.
type Tracker struct {
	mu      sync.Mutex
	batches map[string]*models.BatchJob
}

func NewTracker() *Tracker {
	return &Tracker{batches: make(map[string]*models.BatchJob)}
}

// Start creates an open batch expecting fileCount member jobs. totalSize is
// the caller's advisory byte total.
func (t *Tracker) Start(fileCount int, totalSize int64) models.BatchJob {
	b := models.BatchJob{
		BatchID:           uuid.NewString(),
		FileCount:         fileCount,
		TotalSizeDeclared: totalSize,
		Status:            models.BatchOpen,
		Files:             []string{},
	}
	t.mu.Lock()
	t.batches[b.BatchID] = &b
	t.mu.Unlock()
	logger.Infof("batch started: id=%s files=%d declared=%d bytes", b.BatchID, fileCount, totalSize)
	return b
}

// Register adds a member job before its compression starts. Files keep
// arrival order.
func (t *Tracker) Register(batchID, fileID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.batches[batchID]
	if !ok {
		return ErrUnknownBatch
	}
	b.Files = append(b.Files, fileID)
	return nil
}

// Get returns a snapshot of the batch.
func (t *Tracker) Get(batchID string) (models.BatchJob, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.batches[batchID]
	if !ok {
		return models.BatchJob{}, ErrUnknownBatch
	}
	snapshot := *b
	snapshot.Files = append([]string(nil), b.Files...)
	return snapshot, nil
}

// ObserveTerminal is the job store observer. Every member terminal
// transition counts toward processedFiles; completed members also add their
// byte savings. The batch flips to complete when the declared count is
// reached. processedFiles never exceeds fileCount.
func (t *Tracker) ObserveTerminal(job models.CompressionJob) {
	if job.BatchID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.batches[job.BatchID]
	if !ok {
		logger.Warnf("terminal job %s references unknown batch %s", job.FileID, job.BatchID)
		return
	}
	if b.ProcessedFiles >= b.FileCount {
		logger.Warnf("batch %s already full, ignoring terminal job %s", b.BatchID, job.FileID)
		return
	}
	b.ProcessedFiles++
	if job.Status == models.StatusCompleted {
		b.TotalSaved += job.OriginalSize - job.CompressedSize
	}
	if b.ProcessedFiles == b.FileCount {
		b.Status = models.BatchComplete
		logger.Infof("batch complete: id=%s saved=%d bytes", b.BatchID, b.TotalSaved)
	}
}
