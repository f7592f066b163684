package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"squnch/artifact"
	"squnch/models"
	"squnch/preset"
	"squnch/store"
)

func newTestImageEngine(t *testing.T) (*ImageEngine, *store.Store, *artifact.Resolver) {
	t.Helper()
	jobs := store.New()
	artifacts, err := artifact.NewResolver(t.TempDir(), jobs)
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}
	return NewImageEngine(jobs, artifacts), jobs, artifacts
}

// gradientImage produces a compressible but non-trivial test image.
func gradientImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), uint8((x + y) % 256), 255})
		}
	}
	return img
}

// noiseImage produces an incompressible image so its PNG encoding stays
// large.
func noiseImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestCompressJPEGSynchronously(t *testing.T) {
	e, jobs, _ := newTestImageEngine(t)
	data := encodeJPEG(t, gradientImage(200, 200))

	result, err := e.Compress("img-1", data, preset.Get("balanced"), "")
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if result.ContentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", result.ContentType)
	}
	if len(result.Data) == 0 {
		t.Fatal("Empty compressed output")
	}
	if result.Job.FormatChanged {
		t.Error("JPEG input should keep its format under smart strategy")
	}

	// Completion must be visible in the store before Compress returns
	job, err := jobs.Get("img-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job.Status != models.StatusCompleted || job.Progress != 100 {
		t.Errorf("Job not completed: %+v", job)
	}
	if job.CompressedSize != int64(len(result.Data)) {
		t.Errorf("Recorded size %d, response size %d", job.CompressedSize, len(result.Data))
	}
}

func TestQualityPresetOrdering(t *testing.T) {
	data := encodeJPEG(t, gradientImage(300, 300))

	sizes := map[string]int{}
	for _, id := range []string{"high-quality", "balanced", "maximum-compression"} {
		e, _, _ := newTestImageEngine(t)
		result, err := e.Compress("img-"+id, data, preset.Get(id), "")
		if err != nil {
			t.Fatalf("Compress with %s failed: %v", id, err)
		}
		sizes[id] = len(result.Data)
	}

	if sizes["high-quality"] < sizes["balanced"] {
		t.Errorf("high-quality (%d) smaller than balanced (%d)", sizes["high-quality"], sizes["balanced"])
	}
	if sizes["balanced"] < sizes["maximum-compression"] {
		t.Errorf("balanced (%d) smaller than maximum-compression (%d)", sizes["balanced"], sizes["maximum-compression"])
	}
}

func TestSmartStrategyConvertsLargePNG(t *testing.T) {
	e, _, _ := newTestImageEngine(t)
	data := encodePNG(t, noiseImage(512, 512))
	if len(data) <= smartConvertThreshold {
		t.Fatalf("Test PNG too small to trigger conversion: %d bytes", len(data))
	}

	result, err := e.Compress("big-png", data, preset.Get("balanced"), "")
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if result.ContentType != "image/jpeg" {
		t.Errorf("Large PNG should convert to JPEG, got %s", result.ContentType)
	}
	if !result.Job.FormatChanged {
		t.Error("formatChanged should be true after conversion")
	}
}

func TestSmartStrategyKeepsSmallPNG(t *testing.T) {
	e, _, _ := newTestImageEngine(t)
	data := encodePNG(t, gradientImage(64, 64))
	if len(data) > smartConvertThreshold {
		t.Fatalf("Test PNG unexpectedly large: %d bytes", len(data))
	}

	result, err := e.Compress("small-png", data, preset.Get("balanced"), "")
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if result.ContentType != "image/png" {
		t.Errorf("Small PNG should stay PNG, got %s", result.ContentType)
	}
	if result.Job.FormatChanged {
		t.Error("formatChanged should be false for a kept format")
	}
}

func TestHighQualityNeverConverts(t *testing.T) {
	e, _, _ := newTestImageEngine(t)
	data := encodePNG(t, noiseImage(512, 512))

	result, err := e.Compress("keep-png", data, preset.Get("high-quality"), "")
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if result.ContentType != "image/png" || result.Job.FormatChanged {
		t.Errorf("high-quality must keep the source format: %+v", result.Job)
	}
}

func TestUnsupportedFormatMarksJobErrored(t *testing.T) {
	e, jobs, _ := newTestImageEngine(t)

	_, err := e.Compress("bad", []byte("definitely not an image"), preset.Get("balanced"), "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}

	job, err := jobs.Get("bad")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job.Status != models.StatusError || job.Error == "" {
		t.Errorf("Job should be errored with a cause: %+v", job)
	}
}

func TestDuplicateFileID(t *testing.T) {
	e, _, _ := newTestImageEngine(t)
	data := encodeJPEG(t, gradientImage(50, 50))

	if _, err := e.Compress("same", data, preset.Get("balanced"), ""); err != nil {
		t.Fatalf("First compress failed: %v", err)
	}
	if _, err := e.Compress("same", data, preset.Get("balanced"), ""); !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestCompressionRatioMath(t *testing.T) {
	cases := []struct {
		original   int64
		compressed int64
		want       int
	}{
		{1000, 400, 60},
		{1000, 1000, 0},
		{100, 130, -30}, // output grew
		{3, 1, 67},      // rounding
		{0, 50, 0},      // degenerate input
	}
	for _, c := range cases {
		if got := CompressionRatio(c.original, c.compressed); got != c.want {
			t.Errorf("CompressionRatio(%d, %d) = %d, want %d", c.original, c.compressed, got, c.want)
		}
	}
}
