package config

import (
	"testing"
	"time"
)

func TestDataDirDefault(t *testing.T) {
	t.Setenv("SQUNCH_DATA_DIR", "")
	if got := GetDataDir(); got != "./data" {
		t.Errorf("Expected ./data, got %s", got)
	}

	t.Setenv("SQUNCH_DATA_DIR", "/var/lib/squnch")
	if got := GetDataDir(); got != "/var/lib/squnch" {
		t.Errorf("Override ignored: %s", got)
	}
	if got := GetHistoryDBPath(); got != "/var/lib/squnch/history.db" {
		t.Errorf("Wrong history path: %s", got)
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv("SQUNCH_PORT", "")
	if got := GetListenAddr(); got != ":8080" {
		t.Errorf("Expected :8080, got %s", got)
	}
	t.Setenv("SQUNCH_PORT", "9090")
	if got := GetListenAddr(); got != ":9090" {
		t.Errorf("Expected :9090, got %s", got)
	}
}

func TestVideoTimeout(t *testing.T) {
	t.Setenv("SQUNCH_VIDEO_TIMEOUT", "")
	if got := GetVideoTimeout(); got != 10*time.Minute {
		t.Errorf("Expected 10m default, got %v", got)
	}

	t.Setenv("SQUNCH_VIDEO_TIMEOUT", "90")
	if got := GetVideoTimeout(); got != 90*time.Second {
		t.Errorf("Expected 90s, got %v", got)
	}

	// Garbage and non-positive values fall back to the default
	for _, v := range []string{"abc", "-5", "0"} {
		t.Setenv("SQUNCH_VIDEO_TIMEOUT", v)
		if got := GetVideoTimeout(); got != 10*time.Minute {
			t.Errorf("Value %q should fall back to default, got %v", v, got)
		}
	}
}

func TestExportAccessInfo(t *testing.T) {
	t.Setenv("SQUNCH_EXPORT_BACKEND", "")
	if info := GetExportAccessInfo(); len(info) != 0 {
		t.Errorf("Disabled export should have no credentials: %v", info)
	}

	t.Setenv("SQUNCH_EXPORT_BACKEND", "s3")
	t.Setenv("SQUNCH_S3_BUCKET", "my-bucket")
	t.Setenv("SQUNCH_S3_REGION", "eu-west-1")
	info := GetExportAccessInfo()
	if info["bucket"] != "my-bucket" || info["region"] != "eu-west-1" {
		t.Errorf("S3 credentials not assembled: %v", info)
	}
}
