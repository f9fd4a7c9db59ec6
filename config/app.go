package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageGCS = "gcs"
	StorageS3  = "s3"
)

// AppConfig holds the settings that are not connection strings.
type AppConfig struct {
	Port     string
	LogLevel string

	StorageDriver      string
	GCSBucket          string
	GCSCredentialsFile string
	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	S3AccessKey        string
	S3SecretKey        string
	S3PublicBaseURL    string

	ChromePath        string
	ExportConcurrency int
	ResumeCacheTTL    time.Duration

	WSAllowedOrigins []string
}

func LoadApp() (AppConfig, error) {
	cfg := AppConfig{
		Port:               envOr("PORT", "8080"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		StorageDriver:      strings.ToLower(envOr("STORAGE_DRIVER", StorageGCS)),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Region:           os.Getenv("S3_REGION"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL:    os.Getenv("S3_PUBLIC_BASE_URL"),
		ChromePath:         os.Getenv("CHROME_PATH"),
		ExportConcurrency:  2,
		ResumeCacheTTL:     10 * time.Minute,
		WSAllowedOrigins:   splitCSV(os.Getenv("WS_ALLOWED_ORIGINS")),
	}

	if v := os.Getenv("EXPORT_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return AppConfig{}, fmt.Errorf("EXPORT_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.ExportConcurrency = n
	}
	if v := os.Getenv("RESUME_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return AppConfig{}, fmt.Errorf("RESUME_CACHE_TTL must be a duration like 10m, got %q", v)
		}
		cfg.ResumeCacheTTL = d
	}

	switch cfg.StorageDriver {
	case StorageGCS:
		if cfg.GCSBucket == "" {
			return AppConfig{}, fmt.Errorf("GCS_BUCKET environment variable is not set")
		}
	case StorageS3:
		if cfg.S3Bucket == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return AppConfig{}, fmt.Errorf("S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY must be set")
		}
	default:
		return AppConfig{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
