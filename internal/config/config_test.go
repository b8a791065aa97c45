package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "coursegraph-client" {
		t.Fatalf("AppName = %q", cfg.AppName)
	}
	if cfg.StorageType != "bbolt" || cfg.BBoltPath != "./data/storage.db" {
		t.Fatalf("storage = %q %q", cfg.StorageType, cfg.BBoltPath)
	}
	if cfg.StorageTTL != 72*time.Hour {
		t.Fatalf("StorageTTL = %s", cfg.StorageTTL)
	}
	if cfg.StorageCleanupInterval != 12*time.Hour {
		t.Fatalf("StorageCleanupInterval = %s", cfg.StorageCleanupInterval)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_TYPE", " Memory ")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("STORAGE_TTL_SECONDS", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.StorageType != "memory" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.StorageTTL != time.Minute {
		t.Fatalf("StorageTTL = %s", cfg.StorageTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORAGE_TYPE":                     "redis",
		"HTTP_TIMEOUT_SECONDS":             "0",
		"STORAGE_TTL_SECONDS":              "-1",
		"STORAGE_CLEANUP_INTERVAL_SECONDS": "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestBBoltRequiresPath(t *testing.T) {
	cfg := Config{
		StorageType:           "bbolt",
		HTTPTimeoutSeconds:    1,
		StorageTTLSeconds:     1,
		StorageCleanupSeconds: 1,
	}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected error for empty bbolt_path")
	}
}
