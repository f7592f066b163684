package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"squnch/artifact"
	"squnch/logger"
	"squnch/models"
	"squnch/store"
)

// smartConvertThreshold is the size above which a PNG is re-encoded as JPEG
// under the smart format strategy.
const smartConvertThreshold = 500_000

// ImageResult is the synchronous outcome of an image compression.
type ImageResult struct {
	Data        []byte
	ContentType string
	Job         models.CompressionJob
}

// ImageEngine compresses images on the calling goroutine. Completion is
// recorded in the job store before Compress returns, so batch and analytics
// side effects are visible immediately after the call.
type ImageEngine struct {
	jobs      *store.Store
	artifacts *artifact.Resolver
}

func NewImageEngine(jobs *store.Store, artifacts *artifact.Resolver) *ImageEngine {
	return &ImageEngine{jobs: jobs, artifacts: artifacts}
}

// Compress decodes, optionally converts format, encodes at the preset
// quality and records the terminal state. Failures mark the job errored and
// are returned to the caller; nothing is retried.
func (e *ImageEngine) Compress(fileID string, data []byte, p models.QualityPreset, batchID string) (ImageResult, error) {
	if _, err := e.jobs.Create(fileID, models.KindImage, p, int64(len(data)), batchID); err != nil {
		return ImageResult{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.fail(fileID, fmt.Sprintf("unsupported image format: %v", err))
		return ImageResult{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	outFormat, formatChanged := outputFormat(format, int64(len(data)), p.Image.FormatStrategy)

	encoded, err := encodeImage(img, outFormat, p.Image.Quality)
	if err != nil {
		e.fail(fileID, fmt.Sprintf("encode failed: %v", err))
		return ImageResult{}, fmt.Errorf("%w: %v", ErrEncoderFailure, err)
	}

	originalSize := int64(len(data))
	compressedSize := int64(len(encoded))
	ratio := CompressionRatio(originalSize, compressedSize)

	contentType := "image/" + outFormat
	filename := fileID + extensionFor(outFormat)
	if _, err := e.artifacts.RegisterBytes(fileID, encoded, contentType, filename); err != nil {
		logger.Errorf("failed to register image artifact %s: %v", fileID, err)
	}

	job, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
		j.Status = models.StatusCompleted
		j.Progress = 100
		j.CompressedSize = compressedSize
		j.CompressionRatio = ratio
		j.FormatChanged = formatChanged
	})
	if err != nil {
		return ImageResult{}, err
	}

	logger.Infof("image compressed: id=%s %d -> %d bytes (%d%%) formatChanged=%v",
		fileID, originalSize, compressedSize, ratio, formatChanged)
	return ImageResult{Data: encoded, ContentType: contentType, Job: job}, nil
}

func (e *ImageEngine) fail(fileID, cause string) {
	if _, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
		j.Status = models.StatusError
		j.Error = cause
	}); err != nil {
		logger.Errorf("failed to record image error for %s: %v", fileID, err)
	}
}

// outputFormat applies the preset's format strategy. Smart converts only
// PNGs above the size threshold; everything else keeps its source format.
func outputFormat(inFormat string, originalSize int64, strategy models.FormatStrategy) (string, bool) {
	switch strategy {
	case models.StrategyForceJpeg:
		return "jpeg", inFormat != "jpeg"
	case models.StrategySmart:
		if inFormat == "png" && originalSize > smartConvertThreshold {
			return "jpeg", true
		}
	}
	return inFormat, false
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png":
		enc := png.Encoder{CompressionLevel: pngLevel(quality)}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no encoder for format %q", format)
	}
	return buf.Bytes(), nil
}

// pngLevel maps the preset quality onto PNG compression effort. Higher
// quality settings use the default level so stricter presets never produce
// larger output than looser ones.
func pngLevel(quality int) png.CompressionLevel {
	if quality >= 80 {
		return png.DefaultCompression
	}
	return png.BestCompression
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

// CompressionRatio returns round(100 * (1 - compressed/original)). Negative
// values, where the output grew, are reported as-is.
func CompressionRatio(originalSize, compressedSize int64) int {
	if originalSize <= 0 {
		return 0
	}
	return int(math.Round(100 * (1 - float64(compressedSize)/float64(originalSize))))
}
