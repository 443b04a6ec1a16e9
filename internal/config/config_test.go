package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "COURSEGEST_API_KEY", "WORKER_COUNT", "LOCAL_ORIGINS", "TOPIC_INFERENCE", "IMAGE_ROOT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool sizes %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.ImageRoot != "static/images" || cfg.ImagePublicPrefix != "images" {
		t.Errorf("unexpected image paths %q %q", cfg.ImageRoot, cfg.ImagePublicPrefix)
	}
	if !cfg.TopicInference {
		t.Error("expected topic inference on by default")
	}
	if cfg.LocalOrigins != nil {
		t.Errorf("expected no local origins, got %v", cfg.LocalOrigins)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without an API key")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COURSEGEST_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("LOCAL_ORIGINS", "courses.test, , cdn.courses.test")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "5s")
	t.Setenv("TOPIC_INFERENCE", "false")
	t.Setenv("IMAGE_MAX_BYTES", "not-a-number")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped worker count 4, got %d", cfg.WorkerCount)
	}
	if !reflect.DeepEqual(cfg.LocalOrigins, []string{"courses.test", "cdn.courses.test"}) {
		t.Errorf("unexpected local origins %v", cfg.LocalOrigins)
	}
	if cfg.ImageFetchTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.ImageFetchTimeout)
	}
	if cfg.TopicInference {
		t.Error("expected topic inference disabled")
	}
	if cfg.ImageMaxBytes != 20971520 {
		t.Errorf("expected default max bytes, got %d", cfg.ImageMaxBytes)
	}

	opts := cfg.ImageOptions()
	if opts.Timeout != 5*time.Second || len(opts.LocalOrigins) != 2 {
		t.Errorf("unexpected image options %+v", opts)
	}
	if cfg.ParserOptions().InferTopics {
		t.Error("expected parser options to carry the inference flag")
	}
}
