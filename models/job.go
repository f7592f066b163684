package models

import "time"

// JobKind distinguishes the two compression pipelines.
type JobKind string

const (
	KindImage JobKind = "image"
	KindVideo JobKind = "video"
)

// JobStatus is the lifecycle state of a compression job.
// pending -> processing -> completed | error. Images skip straight from
// creation to a terminal state since they compress synchronously.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusError      JobStatus = "error"
)

// Terminal reports whether no further transitions are permitted.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CompressionJob tracks one uploaded file from creation to terminal state.
// compressedSize and compressionRatio are set only on completion; currentFps
// and currentKbps are transient encoder throughput, video only.
type CompressionJob struct {
	FileID           string    `json:"fileId"`
	Kind             JobKind   `json:"kind"`
	Status           JobStatus `json:"status"`
	Progress         int       `json:"progress"`
	QualityPreset    string    `json:"qualityPreset"`
	PresetName       string    `json:"presetName"`
	OriginalSize     int64     `json:"originalSize"`
	CompressedSize   int64     `json:"compressedSize,omitempty"`
	CompressionRatio int       `json:"compressionRatio,omitempty"`
	FormatChanged    bool      `json:"formatChanged"`
	CurrentFps       float64   `json:"currentFps,omitempty"`
	CurrentKbps      float64   `json:"currentKbps,omitempty"`
	StartTime        time.Time `json:"startTime"`
	BatchID          string    `json:"batchId,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// BatchStatus is the lifecycle state of a batch.
type BatchStatus string

const (
	BatchOpen     BatchStatus = "open"
	BatchComplete BatchStatus = "complete"
)

// BatchJob aggregates a caller-declared group of jobs. It holds member
// fileIds only, never copies of mutable job fields.
type BatchJob struct {
	BatchID           string      `json:"batchId"`
	FileCount         int         `json:"fileCount"`
	TotalSizeDeclared int64       `json:"totalSize"`
	ProcessedFiles    int         `json:"processedFiles"`
	TotalSaved        int64       `json:"totalSaved"`
	Status            BatchStatus `json:"status"`
	Files             []string    `json:"files"`
}

// AnalyticsSummary is the process-wide completed-job totals snapshot.
type AnalyticsSummary struct {
	TotalFiles              int     `json:"totalFiles"`
	TotalOriginalSize       int64   `json:"totalOriginalSize"`
	TotalCompressedSize     int64   `json:"totalCompressedSize"`
	AverageCompressionRatio float64 `json:"averageCompressionRatio"`
	TotalSpaceSaved         int64   `json:"totalSpaceSaved"`
	ImageFiles              int     `json:"imageFiles"`
	VideoFiles              int     `json:"videoFiles"`
}
