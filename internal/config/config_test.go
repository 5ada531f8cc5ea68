package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:8081/api/v1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("expected memory cache backend, got %q", cfg.CacheBackend)
	}
	if cfg.UpstreamTimeout() != 15*time.Second {
		t.Fatalf("unexpected upstream timeout %v", cfg.UpstreamTimeout())
	}
}

func TestLoadConfig_RequiresUpstream(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without UPSTREAM_BASE_URL")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "http://backend/api/v1")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "3")
	t.Setenv("CACHE_BACKEND", CacheBackendRedis)
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UpstreamTimeout() != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.UpstreamTimeout())
	}
	if cfg.CacheBackend != CacheBackendRedis || cfg.RedisDB != 2 {
		t.Fatalf("unexpected cache config: %+v", cfg)
	}
}
