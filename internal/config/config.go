package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docxmd/internal/linearize"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job and result state
	JobTTL         time.Duration
	ResultCacheTTL time.Duration

	// Conversion defaults
	OrdinalStyle string
	LabelLocale  string

	// Record block counts for queued jobs.
	SummarizeUploads bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCXMD_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", 1*time.Hour),

		OrdinalStyle: os.Getenv("ORDINAL_STYLE"),
		LabelLocale:  os.Getenv("LABEL_LOCALE"),

		SummarizeUploads: envBool("SUMMARIZE_UPLOADS", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.ResultCacheTTL <= 0 {
		cfg.ResultCacheTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCXMD_API_KEY is required")
	}
	if _, err := c.ConvertOptions(); err != nil {
		return err
	}
	return nil
}

// ConvertOptions returns the default conversion options.
func (c Config) ConvertOptions() (linearize.Options, error) {
	var opts linearize.Options
	ord, err := linearize.ParseOrdinals(c.OrdinalStyle)
	if err != nil {
		return opts, fmt.Errorf("ORDINAL_STYLE: %w", err)
	}
	labels, err := linearize.ParseLabels(c.LabelLocale)
	if err != nil {
		return opts, fmt.Errorf("LABEL_LOCALE: %w", err)
	}
	opts.Ordinals = ord
	opts.Labels = labels
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
