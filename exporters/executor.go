package exporters

import (
	"context"
	"fmt"
	"io"
)

// Export pushes a completed artifact to the configured remote backend.
// accessInfo carries backend-specific credentials plus "filename"; each
// backend has its own write implementation. Failures are the caller's to
// log; an export never affects job state.
func Export(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) error {
	switch backendType {
	case "s3":
		if err := UploadToS3WithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to export to S3: %w", err)
		}
	case "gcs":
		if err := UploadToGCSWithJSON(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to export to GCS: %w", err)
		}
	case "sftp":
		if err := UploadToSFTPWithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to export to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown export backend: %s", backendType)
	}
	return nil
}
