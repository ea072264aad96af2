// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access for the public site and the
// admin dashboard.
type CORSConfig struct {
	// AllowedOrigins are full origins ("https://example.org") or "*".
	AllowedOrigins []string
	// AllowCredentials lets browsers send the session cookie. Ignored for
	// the "*" wildcard, which never echoes credentials.
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds (default 3600).
	MaxAge int
}

// CORS returns middleware adding CORS headers for allowed origins and
// answering preflight requests with 204.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			wildcard, allowed := originAllowed(cfg.AllowedOrigins, origin)
			if !allowed {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials && !wildcard {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, "+CSRFHeader)
				h.Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			h.Set("Access-Control-Expose-Headers", "Retry-After")
			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed matches origin against the allow list. The first result
// reports whether the match came from the "*" wildcard.
func originAllowed(allowed []string, origin string) (bool, bool) {
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return false, true
		}
	}
	for _, a := range allowed {
		if a == "*" {
			return true, true
		}
	}
	return false, false
}
