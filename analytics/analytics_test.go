package analytics

import (
	"testing"

	"squnch/models"
)

func completed(kind models.JobKind, original, compressed int64, ratio int) models.CompressionJob {
	return models.CompressionJob{
		Kind:             kind,
		Status:           models.StatusCompleted,
		OriginalSize:     original,
		CompressedSize:   compressed,
		CompressionRatio: ratio,
	}
}

func TestEmptySummary(t *testing.T) {
	tr := NewTracker()
	s := tr.Summary()
	if s.TotalFiles != 0 || s.AverageCompressionRatio != 0 {
		t.Errorf("Empty tracker should report zeros: %+v", s)
	}
}

func TestCompletedJobsAccumulate(t *testing.T) {
	tr := NewTracker()
	tr.ObserveTerminal(completed(models.KindImage, 1000, 400, 60))
	tr.ObserveTerminal(completed(models.KindVideo, 2000, 1200, 40))

	s := tr.Summary()
	if s.TotalFiles != 2 || s.ImageFiles != 1 || s.VideoFiles != 1 {
		t.Errorf("Wrong file counts: %+v", s)
	}
	if s.TotalOriginalSize != 3000 || s.TotalCompressedSize != 1600 {
		t.Errorf("Wrong size totals: %+v", s)
	}
	if s.TotalSpaceSaved != 1400 {
		t.Errorf("Wrong space saved: %d", s.TotalSpaceSaved)
	}
	if s.AverageCompressionRatio != 50 {
		t.Errorf("Expected mean ratio 50, got %v", s.AverageCompressionRatio)
	}
}

func TestErroredJobsDoNotContribute(t *testing.T) {
	tr := NewTracker()
	tr.ObserveTerminal(completed(models.KindImage, 1000, 500, 50))
	tr.ObserveTerminal(models.CompressionJob{
		Kind:         models.KindVideo,
		Status:       models.StatusError,
		OriginalSize: 9999,
	})

	s := tr.Summary()
	if s.TotalFiles != 1 || s.VideoFiles != 0 {
		t.Errorf("Errored job leaked into totals: %+v", s)
	}
	if s.TotalOriginalSize != 1000 {
		t.Errorf("Errored job bytes counted: %d", s.TotalOriginalSize)
	}
}

func TestNegativeRatiosLowerTheMean(t *testing.T) {
	tr := NewTracker()
	tr.ObserveTerminal(completed(models.KindImage, 100, 50, 50))
	// Tiny input that grew during re-encode
	tr.ObserveTerminal(completed(models.KindImage, 100, 130, -30))

	s := tr.Summary()
	if s.AverageCompressionRatio != 10 {
		t.Errorf("Expected mean ratio 10, got %v", s.AverageCompressionRatio)
	}
	if s.TotalSpaceSaved != 20 {
		t.Errorf("Expected 20 bytes saved net, got %d", s.TotalSpaceSaved)
	}
}
