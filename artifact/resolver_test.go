package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"squnch/models"
	"squnch/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	jobs := store.New()
	r, err := NewResolver(t.TempDir(), jobs)
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}
	return r, jobs
}

func TestRegisterBytesAndResolve(t *testing.T) {
	r, _ := newTestResolver(t)
	payload := []byte("compressed image bytes")

	if _, err := r.RegisterBytes("img-1", payload, "image/jpeg", "img-1.jpg"); err != nil {
		t.Fatalf("RegisterBytes failed: %v", err)
	}

	data, art, err := r.Resolve("img-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("Resolved bytes differ from registered bytes")
	}
	if art.ContentType != "image/jpeg" || art.SuggestedFilename != "img-1.jpg" {
		t.Errorf("Wrong artifact metadata: %+v", art)
	}
}

func TestRegisterFileMovesFromScratch(t *testing.T) {
	r, _ := newTestResolver(t)

	scratch := filepath.Join(t.TempDir(), "vid-out.mp4")
	if err := os.WriteFile(scratch, []byte("encoded video"), 0644); err != nil {
		t.Fatalf("Failed to write scratch file: %v", err)
	}

	dest, err := r.RegisterFile("vid-1", scratch, "video/mp4", "vid-1.mp4")
	if err != nil {
		t.Fatalf("RegisterFile failed: %v", err)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("Scratch file should be gone after registration")
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("Serve copy missing: %v", err)
	}

	data, _, err := r.Resolve("vid-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if string(data) != "encoded video" {
		t.Error("Resolved bytes differ from scratch content")
	}
}

func TestResolveUnknownID(t *testing.T) {
	r, _ := newTestResolver(t)
	_, _, err := r.Resolve("never-created")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestResolveInFlightJob(t *testing.T) {
	r, jobs := newTestResolver(t)
	jobs.Create("pending-vid", models.KindVideo, models.QualityPreset{ID: "balanced"}, 100, "")

	_, _, err := r.Resolve("pending-vid")
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("In-flight job should be not-ready, got %v", err)
	}

	// Registration flips the answer without touching the job record
	if _, err := r.RegisterBytes("pending-vid", []byte("done"), "video/mp4", "pending-vid.mp4"); err != nil {
		t.Fatalf("RegisterBytes failed: %v", err)
	}
	if _, _, err := r.Resolve("pending-vid"); err != nil {
		t.Errorf("Resolve after registration failed: %v", err)
	}
}
