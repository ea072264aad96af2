// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Cache backends accepted by INSTCMS_CACHE_TYPE.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"INSTCMS_DB_PATH" envDefault:"./data/instcms.db"`
	SessionSecret string `env:"INSTCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"INSTCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"INSTCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"INSTCMS_ENV" envDefault:"development"`
	LogLevel      string `env:"INSTCMS_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"INSTCMS_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB   int    `env:"INSTCMS_MAX_UPLOAD_MB" envDefault:"20"`
	BaseURL       string `env:"INSTCMS_BASE_URL" envDefault:"http://localhost:8080"`

	// Listing
	DefaultPageSize int `env:"INSTCMS_DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"INSTCMS_MAX_PAGE_SIZE" envDefault:"100"`

	// Cross-origin access for the public site and admin dashboard
	CORSOrigins    []string `env:"INSTCMS_CORS_ORIGINS" envSeparator:","`
	TrustedOrigins []string `env:"INSTCMS_TRUSTED_ORIGINS" envSeparator:","`

	// Cache configuration; "none" keeps every read on the database
	CacheType   string `env:"INSTCMS_CACHE_TYPE" envDefault:"none"`
	RedisURL    string `env:"INSTCMS_REDIS_URL"`
	CachePrefix string `env:"INSTCMS_CACHE_PREFIX" envDefault:"instcms:"`
	CacheTTL    int    `env:"INSTCMS_CACHE_TTL" envDefault:"300"` // seconds

	// Request handling
	RequestTimeout   time.Duration `env:"INSTCMS_REQUEST_TIMEOUT" envDefault:"30s"`
	GlobalRateLimit  float64       `env:"INSTCMS_RATE_LIMIT" envDefault:"20"` // requests per second per IP
	GlobalRateBurst  int           `env:"INSTCMS_RATE_BURST" envDefault:"40"`
	LoginRateLimit   float64       `env:"INSTCMS_LOGIN_RATE_LIMIT" envDefault:"0.5"`
	LoginRateBurst   int           `env:"INSTCMS_LOGIN_RATE_BURST" envDefault:"5"`

	// Audit log entries older than this are purged by the scheduler
	AuditRetentionDays int `env:"INSTCMS_AUDIT_RETENTION_DAYS" envDefault:"180"`

	// GeoIP configuration
	GeoIPDBPath string `env:"INSTCMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Legacy MySQL source for "instcms import legacy"
	LegacyDSN         string `env:"INSTCMS_LEGACY_DSN"`
	LegacyTablePrefix string `env:"INSTCMS_LEGACY_TABLE_PREFIX"`

	// Seeding configuration
	DoSeed bool `env:"INSTCMS_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CacheEnabled returns true unless caching is switched off.
func (c Config) CacheEnabled() bool {
	return c.CacheType != CacheNone
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("INSTCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("INSTCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("INSTCMS_SESSION_SECRET is a known default value and must not be used")
		}
	}

	if c.MaxPageSize < 1 || c.MaxPageSize > 1000 {
		return fmt.Errorf("INSTCMS_MAX_PAGE_SIZE must be between 1 and 1000, got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("INSTCMS_DEFAULT_PAGE_SIZE must be between 1 and %d, got %d", c.MaxPageSize, c.DefaultPageSize)
	}

	c.CacheType = strings.ToLower(strings.TrimSpace(c.CacheType))
	switch c.CacheType {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("INSTCMS_REDIS_URL is required when INSTCMS_CACHE_TYPE=redis")
		}
	default:
		return fmt.Errorf("INSTCMS_CACHE_TYPE must be one of none, memory, redis; got %q", c.CacheType)
	}

	if c.MaxUploadMB < 1 {
		return fmt.Errorf("INSTCMS_MAX_UPLOAD_MB must be positive")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
