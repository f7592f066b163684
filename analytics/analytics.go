package analytics

import (
	"sync"

	"squnch/models"
)

// Tracker keeps process-wide running totals over completed jobs. Error
// transitions do not contribute. Updates arrive through the job store's
// exactly-once terminal events; Summary returns a consistent snapshot
// without blocking writers beyond the short critical section.
type Tracker struct {
	mu       sync.Mutex
	summary  models.AnalyticsSummary
	ratioSum float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// ObserveTerminal is the job store observer.
func (t *Tracker) ObserveTerminal(job models.CompressionJob) {
	if job.Status != models.StatusCompleted {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.TotalFiles++
	t.summary.TotalOriginalSize += job.OriginalSize
	t.summary.TotalCompressedSize += job.CompressedSize
	t.summary.TotalSpaceSaved += job.OriginalSize - job.CompressedSize
	t.ratioSum += float64(job.CompressionRatio)
	t.summary.AverageCompressionRatio = t.ratioSum / float64(t.summary.TotalFiles)
	switch job.Kind {
	case models.KindImage:
		t.summary.ImageFiles++
	case models.KindVideo:
		t.summary.VideoFiles++
	}
}

// Summary returns the current totals snapshot.
func (t *Tracker) Summary() models.AnalyticsSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}
