package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetDataDir returns the directory where Squnch keeps its databases.
// Priority: SQUNCH_DATA_DIR environment variable > "./data" default.
func GetDataDir() string {
	if dir := os.Getenv("SQUNCH_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetHistoryDBPath returns the full path to the terminal-job history database.
// Path: {DATA_DIR}/history.db
func GetHistoryDBPath() string {
	return filepath.Join(GetDataDir(), "history.db")
}

// GetScratchDir returns the directory for in-flight video uploads and encoder
// output. Each job owns its own files under this directory until the artifact
// is registered for serving.
func GetScratchDir() string {
	if dir := os.Getenv("SQUNCH_SCRATCH_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "squnch")
}

// GetServeDir returns the base directory for completed artifacts served by
// the download endpoint. Configurable via SQUNCH_SERVE_DIR for server
// administrators; defaults to "./serve".
func GetServeDir() string {
	if dir := os.Getenv("SQUNCH_SERVE_DIR"); dir != "" {
		return dir
	}
	return "./serve"
}

// GetListenAddr returns the HTTP listen address, ":8080" unless SQUNCH_PORT
// overrides the port.
func GetListenAddr() string {
	if port := os.Getenv("SQUNCH_PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

// GetVideoTimeout returns the watchdog ceiling for a single video encode.
// A hung encoder is forcibly terminated after this duration; without it a
// wedged ffmpeg would leak a goroutine and a scratch file forever.
// Configurable in seconds via SQUNCH_VIDEO_TIMEOUT, default 10 minutes.
func GetVideoTimeout() time.Duration {
	if v := os.Getenv("SQUNCH_VIDEO_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 10 * time.Minute
}

// GetLogFile returns the optional log file path. Empty means console only.
func GetLogFile() string {
	return os.Getenv("SQUNCH_LOG_FILE")
}

// GetExportBackend returns the configured artifact export backend
// ("s3", "gcs", "sftp") or empty when exporting is disabled.
func GetExportBackend() string {
	return os.Getenv("SQUNCH_EXPORT_BACKEND")
}

// GetExportAccessInfo assembles the credential map for the configured export
// backend from the environment. Keys mirror what the backend writers expect.
func GetExportAccessInfo() map[string]string {
	info := map[string]string{}
	switch GetExportBackend() {
	case "s3":
		info["accessKey"] = os.Getenv("SQUNCH_S3_ACCESS_KEY")
		info["secretKey"] = os.Getenv("SQUNCH_S3_SECRET_KEY")
		info["region"] = os.Getenv("SQUNCH_S3_REGION")
		info["bucket"] = os.Getenv("SQUNCH_S3_BUCKET")
	case "gcs":
		info["credentialsJSON"] = os.Getenv("SQUNCH_GCS_CREDENTIALS_JSON")
		info["bucket"] = os.Getenv("SQUNCH_GCS_BUCKET")
	case "sftp":
		info["host"] = os.Getenv("SQUNCH_SFTP_HOST")
		info["port"] = os.Getenv("SQUNCH_SFTP_PORT")
		info["user"] = os.Getenv("SQUNCH_SFTP_USER")
		info["password"] = os.Getenv("SQUNCH_SFTP_PASSWORD")
		info["privateKey"] = os.Getenv("SQUNCH_SFTP_PRIVATE_KEY")
		info["remoteDir"] = os.Getenv("SQUNCH_SFTP_REMOTE_DIR")
	}
	return info
}
