// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTCMS_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/instcms.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/instcms.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
	if cfg.DefaultPageSize != 10 {
		t.Errorf("DefaultPageSize = %d, want 10", cfg.DefaultPageSize)
	}
	if cfg.CacheType != CacheNone || cfg.CacheEnabled() {
		t.Errorf("CacheType = %q, want caching disabled by default", cfg.CacheType)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTCMS_SESSION_SECRET", testSecret)
	setEnv(t, "INSTCMS_DB_PATH", "/custom/path.db")
	setEnv(t, "INSTCMS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "INSTCMS_SERVER_PORT", "3000")
	setEnv(t, "INSTCMS_ENV", "production")
	setEnv(t, "INSTCMS_CORS_ORIGINS", "https://example.org,https://admin.example.org")
	setEnv(t, "INSTCMS_CACHE_TYPE", "Memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.org" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.CacheType != CacheMemory {
		t.Errorf("CacheType = %q, want %q", cfg.CacheType, CacheMemory)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when INSTCMS_SESSION_SECRET is not set")
	}
}

func TestLoad_SessionSecretTooShort(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"short", "short"},
		{"31_bytes", "1234567890123456789012345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "INSTCMS_SESSION_SECRET", tt.secret)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail with %d-byte secret", len(tt.secret))
			}
		})
	}
}

func TestLoad_RejectsWeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTCMS_SESSION_SECRET", knownWeakSecrets[0])

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a known default secret")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"page size zero", "INSTCMS_MAX_PAGE_SIZE", "0"},
		{"page size too large", "INSTCMS_MAX_PAGE_SIZE", "5000"},
		{"default above max", "INSTCMS_DEFAULT_PAGE_SIZE", "500"},
		{"unknown cache", "INSTCMS_CACHE_TYPE", "memcached"},
		{"redis without url", "INSTCMS_CACHE_TYPE", "redis"},
		{"upload limit", "INSTCMS_MAX_UPLOAD_MB", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "INSTCMS_SESSION_SECRET", testSecret)
			setEnv(t, tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			if got := cfg.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := Config{CacheTTL: 60, MaxUploadMB: 2, GeoIPDBPath: "/geo.mmdb"}

	if cfg.CacheTTLDuration() != time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want 1m", cfg.CacheTTLDuration())
	}
	if cfg.MaxUploadBytes() != 2<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 2<<20)
	}
	if !cfg.GeoIPEnabled() {
		t.Error("GeoIPEnabled() = false, want true")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single character class should not pass")
	}
	if !hasMinimumEntropy("abcDEF123abcDEF123abcDEF123abcDE") {
		t.Error("three character classes should pass")
	}
}
