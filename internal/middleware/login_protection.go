// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/olegiv/instcms/internal/model"
)

// LoginProtection rate limits login attempts per client IP. Account
// lockout lives on the admin_users row and is enforced by the login handler.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
	retryAfter int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5 = 1 request per 2 seconds)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
}

// DefaultLoginProtectionConfig returns the defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit: 0.5,
		IPBurst:     5,
	}
}

// NewLoginProtection creates a new login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}

	return &LoginProtection{
		ipLimiters: newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		retryAfter: int(math.Ceil(1 / cfg.IPRateLimit)),
	}
}

// Allow reports whether ip may attempt another login now.
func (lp *LoginProtection) Allow(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// Prune drops tracked IPs once the map grows past its bound.
func (lp *LoginProtection) Prune() {
	if lp.ipLimiters.clearIfExceeds(maxTrackedClients) {
		slog.Info("cleared login rate limiters due to size")
	}
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// Only POST requests count.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !lp.Allow(ip) {
				slog.Warn("login rate limit exceeded",
					"category", model.EventCategorySecurity,
					"ip", ip,
				)
				w.Header().Set("Retry-After", strconv.Itoa(lp.retryAfter))
				WriteJSONError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait a moment and try again.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
