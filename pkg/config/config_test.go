package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "development" || !cfg.App.IsDev() {
		t.Fatalf("expected dev defaults, got %q", cfg.App.Env)
	}
	if cfg.Cache.Store != CacheStoreLocal {
		t.Fatalf("expected local cache store default, got %q", cfg.Cache.Store)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("expected 10m cache ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("expected 15s api timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Local.Path != "storefront.db" {
		t.Fatalf("unexpected local store path %q", cfg.Local.Path)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected missing base url to return an error")
	}
}

func TestLoad_RedisStoreRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheStore, CacheStoreRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis store without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Cache.Store != CacheStoreRedis {
		t.Fatalf("unexpected cache store %q", cfg.Cache.Store)
	}
}

func TestLoad_RejectsUnknownStoreAndBadTTL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheStore, "memcached")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown cache store to fail")
	}

	t.Setenv(EnvCacheStore, CacheStoreLocal)
	t.Setenv(EnvCacheTTL, "0s")
	if _, err := Load(); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAPIBaseURL, "http://localhost:8080")
}
