package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"squnch/artifact"
	"squnch/exporters"
	"squnch/logger"
	"squnch/models"
	"squnch/store"
)

// ExportConfig is the optional remote destination for completed artifacts.
type ExportConfig struct {
	Backend    string
	AccessInfo map[string]string
}

// VideoEngine runs one background encode per in-flight video job. Start
// returns as soon as the pending record exists; all further state flows
// through job store updates until the job reaches a terminal state. The
// watchdog timeout guarantees a terminal state even if the encoder hangs.
type VideoEngine struct {
	jobs       *store.Store
	artifacts  *artifact.Resolver
	scratchDir string
	timeout    time.Duration
	export     ExportConfig
}

func NewVideoEngine(jobs *store.Store, artifacts *artifact.Resolver, scratchDir string, timeout time.Duration, export ExportConfig) (*VideoEngine, error) {
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return &VideoEngine{
		jobs:       jobs,
		artifacts:  artifacts,
		scratchDir: scratchDir,
		timeout:    timeout,
		export:     export,
	}, nil
}

// Start validates the upload, creates the pending job record and launches
// the encode in the background. It does not wait for completion.
func (e *VideoEngine) Start(fileID string, data []byte, origName string, p models.QualityPreset, batchID string) (models.CompressionJob, error) {
	if len(data) == 0 {
		return models.CompressionJob{}, ErrEmptyUpload
	}
	job, err := e.jobs.Create(fileID, models.KindVideo, p, int64(len(data)), batchID)
	if err != nil {
		return models.CompressionJob{}, err
	}
	go e.run(fileID, data, origName, p)
	return job, nil
}

func (e *VideoEngine) run(fileID string, data []byte, origName string, p models.QualityPreset) {
	inputPath := filepath.Join(e.scratchDir, fileID+"-in"+inputExt(origName))
	outputPath := filepath.Join(e.scratchDir, fileID+"-out.mp4")
	defer os.Remove(inputPath)

	if err := os.WriteFile(inputPath, data, 0644); err != nil {
		e.fail(fileID, fmt.Sprintf("failed to persist upload: %v", err))
		return
	}

	if _, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
		j.Status = models.StatusProcessing
		j.Progress = 0
	}); err != nil {
		logger.Errorf("video %s: cannot enter processing: %v", fileID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	duration, err := ProbeDuration(ctx, inputPath)
	if err != nil {
		e.fail(fileID, fmt.Sprintf("unreadable video input: %v", err))
		return
	}

	logger.Infof("video encode starting: id=%s duration=%.1fs crf=%d preset=%s",
		fileID, duration, p.Video.CRF, p.Video.Preset)

	err = e.encode(ctx, fileID, inputPath, outputPath, duration, p)
	if err != nil {
		os.Remove(outputPath)
		if ctx.Err() == context.DeadlineExceeded {
			e.fail(fileID, fmt.Sprintf("encoder timed out after %s", e.timeout))
		} else {
			e.fail(fileID, err.Error())
		}
		return
	}

	e.finish(fileID, outputPath, int64(len(data)))
}

// encode runs ffmpeg and streams its progress into the job store. The
// encoder writes machine-readable key=value progress blocks on stdout;
// stderr is kept as the diagnostic on failure.
func (e *VideoEngine) encode(ctx context.Context, fileID, inputPath, outputPath string, duration float64, p models.QualityPreset) error {
	args := []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(p.Video.CRF),
		"-preset", p.Video.Preset,
		"-maxrate", p.Video.MaxBitrate,
		"-bufsize", p.Video.MaxBitrate,
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-c:a", "aac",
		"-b:a", "128k",
		"-progress", "pipe:1",
		"-nostats",
		"-loglevel", "error",
		"-y", outputPath,
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderFailure, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderFailure, err)
	}

	e.consumeProgress(fileID, stdout, duration)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %s", ErrEncoderFailure, diagnostic(stderr.String(), err))
	}
	return nil
}

// consumeProgress reads the encoder's stdout until EOF, applying each parsed
// block as a job store update. Progress exposed to pollers is monotonically
// non-decreasing even if the encoder reports a transient regression, and is
// capped at 99 until the terminal transition sets 100.
func (e *VideoEngine) consumeProgress(fileID string, stdout io.Reader, duration float64) {
	scanner := bufio.NewScanner(stdout)
	var parser ProgressParser
	lastProgress := 0
	for scanner.Scan() {
		event, ok := parser.ParseLine(scanner.Text())
		if !ok {
			continue
		}
		progress := progressPercent(event.OutTime, duration)
		if progress < lastProgress {
			progress = lastProgress
		}
		lastProgress = progress
		if _, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
			j.Progress = progress
			if event.Fps > 0 {
				j.CurrentFps = event.Fps
			}
			if event.Kbps > 0 {
				j.CurrentKbps = event.Kbps
			}
		}); err != nil {
			// terminal already (watchdog fired); drain remaining output
			continue
		}
	}
}

func progressPercent(outTime time.Duration, duration float64) int {
	if duration <= 0 {
		return 0
	}
	pct := int(outTime.Seconds() / duration * 100)
	if pct > 99 {
		pct = 99
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// finish computes sizes, registers the artifact and records completion.
func (e *VideoEngine) finish(fileID, outputPath string, originalSize int64) {
	info, err := os.Stat(outputPath)
	if err != nil {
		e.fail(fileID, fmt.Sprintf("encoder produced no output: %v", err))
		return
	}
	compressedSize := info.Size()
	ratio := CompressionRatio(originalSize, compressedSize)

	servePath, err := e.artifacts.RegisterFile(fileID, outputPath, "video/mp4", fileID+".mp4")
	if err != nil {
		e.fail(fileID, fmt.Sprintf("failed to store output: %v", err))
		return
	}

	if _, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
		j.Status = models.StatusCompleted
		j.Progress = 100
		j.CompressedSize = compressedSize
		j.CompressionRatio = ratio
	}); err != nil {
		logger.Errorf("video %s: cannot record completion: %v", fileID, err)
		return
	}
	logger.Infof("video compressed: id=%s %d -> %d bytes (%d%%)", fileID, originalSize, compressedSize, ratio)

	e.exportArtifact(fileID, servePath)
}

// exportArtifact pushes a copy to the configured remote backend, if any.
// Export failures are logged and never affect the completed job.
func (e *VideoEngine) exportArtifact(fileID, servePath string) {
	if e.export.Backend == "" {
		return
	}
	f, err := os.Open(servePath)
	if err != nil {
		logger.Errorf("export %s: cannot open artifact: %v", fileID, err)
		return
	}
	defer f.Close()

	accessInfo := make(map[string]string, len(e.export.AccessInfo)+1)
	for k, v := range e.export.AccessInfo {
		accessInfo[k] = v
	}
	accessInfo["filename"] = filepath.Base(servePath)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := exporters.Export(ctx, accessInfo, f, e.export.Backend); err != nil {
		logger.Errorf("export %s: %v", fileID, err)
	}
}

func (e *VideoEngine) fail(fileID, cause string) {
	if _, err := e.jobs.Update(fileID, func(j *models.CompressionJob) {
		j.Status = models.StatusError
		j.Error = cause
	}); err != nil {
		logger.Errorf("video %s: cannot record error: %v", fileID, err)
		return
	}
	logger.Warnf("video failed: id=%s cause=%s", fileID, cause)
}

func diagnostic(stderr string, err error) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return err.Error()
	}
	// keep the tail; ffmpeg puts the actionable message last
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}

func inputExt(origName string) string {
	if ext := filepath.Ext(origName); ext != "" {
		return ext
	}
	return ".mp4"
}
