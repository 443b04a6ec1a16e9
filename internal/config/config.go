package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/coursegest/internal/images"
	"github.com/dgallion1/coursegest/internal/parser"
	"github.com/dgallion1/coursegest/internal/source"
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

	// Job state
	JobTTL time.Duration

	// Image resolution
	ImageRoot             string
	ImagePublicPrefix     string
	LocalOrigins          []string
	ImageFetchTimeout     time.Duration
	ImageFetchConcurrency int
	ImageMaxBytes         int64

	// Parsing
	TopicInference bool

	// PDF
	PDFFallbackPdftotext bool

	// Latency stats
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("COURSEGEST_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ImageRoot:             envOr("IMAGE_ROOT", "static/images"),
		ImagePublicPrefix:     envOr("IMAGE_PUBLIC_PREFIX", "images"),
		LocalOrigins:          envList("LOCAL_ORIGINS"),
		ImageFetchTimeout:     envDuration("IMAGE_FETCH_TIMEOUT", 30*time.Second),
		ImageFetchConcurrency: envInt("IMAGE_FETCH_CONCURRENCY", 4),
		ImageMaxBytes:         envInt64("IMAGE_MAX_BYTES", 20971520), // 20MB

		TopicInference: envBool("TOPIC_INFERENCE", true),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
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
	if cfg.ImageFetchTimeout <= 0 {
		cfg.ImageFetchTimeout = 30 * time.Second
	}
	if cfg.ImageFetchConcurrency <= 0 {
		cfg.ImageFetchConcurrency = 4
	}
	if cfg.ImageMaxBytes <= 0 {
		cfg.ImageMaxBytes = 20971520
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings the HTTP service cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("COURSEGEST_API_KEY is required")
	}
	return nil
}

// ImageOptions is the resolver configuration.
func (c Config) ImageOptions() images.Options {
	return images.Options{
		Root:         c.ImageRoot,
		PublicPrefix: c.ImagePublicPrefix,
		LocalOrigins: c.LocalOrigins,
		Timeout:      c.ImageFetchTimeout,
		Concurrency:  c.ImageFetchConcurrency,
		MaxBytes:     c.ImageMaxBytes,
	}
}

// ParserOptions is the line parser configuration.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{InferTopics: c.TopicInference}
}

// SourceOptions is the file loader configuration.
func (c Config) SourceOptions() source.Options {
	return source.Options{PDFFallback: c.PDFFallbackPdftotext}
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

// envList splits a comma separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
