package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"squnch/logger"
	"squnch/store"
)

var (
	// ErrNotFound means the file id was never created; it will never
	// resolve.
	ErrNotFound = errors.New("artifact: unknown file id")
	// ErrNotReady means the job exists but has not completed; callers may
	// retry later.
	ErrNotReady = errors.New("artifact: job not completed")
)

// Artifact is the serving metadata for a completed job's output.
type Artifact struct {
	Path              string
	ContentType       string
	SuggestedFilename string
}

// Resolver owns the compressed output of completed jobs. Engines register an
// artifact exactly once, on completion; afterwards the bytes under the serve
// directory belong to the resolver.
type Resolver struct {
	mu        sync.RWMutex
	baseDir   string
	jobs      *store.Store
	artifacts map[string]Artifact
}

func NewResolver(baseDir string, jobs *store.Store) (*Resolver, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create serve directory: %w", err)
	}
	return &Resolver{
		baseDir:   baseDir,
		jobs:      jobs,
		artifacts: make(map[string]Artifact),
	}, nil
}

// RegisterBytes stores data under the serve directory and records the
// serving metadata. Used by the image engine, which holds the output in
// memory.
func (r *Resolver) RegisterBytes(fileID string, data []byte, contentType, filename string) (string, error) {
	dest := filepath.Join(r.baseDir, fileID+filepath.Ext(filename))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", dest, err)
	}
	r.record(fileID, dest, contentType, filename)
	return dest, nil
}

// RegisterFile moves an encoder output file from its scratch location into
// the serve directory. Falls back to copy when rename crosses filesystems.
func (r *Resolver) RegisterFile(fileID, srcPath, contentType, filename string) (string, error) {
	dest := filepath.Join(r.baseDir, fileID+filepath.Ext(filename))
	if err := os.Rename(srcPath, dest); err != nil {
		if copyErr := copyFile(srcPath, dest); copyErr != nil {
			return "", fmt.Errorf("move artifact %s: %w", srcPath, copyErr)
		}
		os.Remove(srcPath)
	}
	r.record(fileID, dest, contentType, filename)
	return dest, nil
}

func (r *Resolver) record(fileID, path, contentType, filename string) {
	r.mu.Lock()
	r.artifacts[fileID] = Artifact{Path: path, ContentType: contentType, SuggestedFilename: filename}
	r.mu.Unlock()
	logger.Debugf("artifact registered: id=%s path=%s", fileID, path)
}

// Resolve returns the artifact bytes and metadata for a completed job.
// ErrNotReady and ErrNotFound let callers distinguish "wait and retry" from
// "this will never exist".
func (r *Resolver) Resolve(fileID string) ([]byte, Artifact, error) {
	r.mu.RLock()
	art, ok := r.artifacts[fileID]
	r.mu.RUnlock()
	if !ok {
		if _, err := r.jobs.Get(fileID); err == nil {
			return nil, Artifact{}, ErrNotReady
		}
		return nil, Artifact{}, ErrNotFound
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		return nil, Artifact{}, fmt.Errorf("read artifact %s: %w", art.Path, err)
	}
	return data, art, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
