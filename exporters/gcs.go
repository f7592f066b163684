package exporters

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"squnch/logger"
)

// UploadToGCSWithJSON uploads an artifact to a Google Cloud Storage object
// using a service account key supplied in accessInfo, either raw JSON or
// base64-encoded. accessInfo: credentialsJSON, bucket, filename.
func UploadToGCSWithJSON(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	credentialsJSON := []byte(accessInfo["credentialsJSON"])
	if decoded, err := base64.StdEncoding.DecodeString(accessInfo["credentialsJSON"]); err == nil {
		credentialsJSON = decoded
	}
	bucketName := accessInfo["bucket"]
	objectName := accessInfo["filename"]

	client, err := storage.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return fmt.Errorf("storage.NewClient: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	if _, err = io.Copy(wc, reader); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	logger.Infof("Successfully exported '%s' to bucket '%s'", objectName, bucketName)
	return nil
}
