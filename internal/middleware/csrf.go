// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/session"
)

// CSRFHeader carries the session-bound CSRF token on unsafe requests.
const CSRFHeader = "X-CSRF-Token"

// csrfTokenBytes is the entropy of a session CSRF token.
const csrfTokenBytes = 32

// CSRFConfig holds configuration for the cross-origin check.
// filippo.io/csrf/gorilla relies on Fetch metadata headers rather than
// cookies, so no cookie options exist.
type CSRFConfig struct {
	// AuthKey is kept for API compatibility with gorilla/csrf.
	AuthKey []byte

	// TrustedOrigins lists host[:port] values allowed to make
	// cross-origin requests, such as the admin dashboard host.
	TrustedOrigins []string
}

// DefaultCSRFConfig returns a CSRFConfig that trusts localhost in
// development.
func DefaultCSRFConfig(authKey []byte, trusted []string, isDev bool) CSRFConfig {
	cfg := CSRFConfig{
		AuthKey:        authKey,
		TrustedOrigins: append([]string(nil), trusted...),
	}

	// The csrf library expects host-only values, not full URLs
	if isDev {
		cfg.TrustedOrigins = append(cfg.TrustedOrigins, "localhost:8080", "127.0.0.1:8080")
	}

	return cfg
}

// CSRF returns the Fetch metadata cross-origin check.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler))}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("cross-origin request rejected",
		"category", model.EventCategorySecurity,
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	WriteJSONError(w, http.StatusForbidden, "Cross-origin request rejected")
}

// CSRFTokens issues and verifies the per-session token that admin clients
// echo back in the X-CSRF-Token header.
type CSRFTokens struct {
	sm *scs.SessionManager
}

// NewCSRFTokens creates a token manager over sm.
func NewCSRFTokens(sm *scs.SessionManager) *CSRFTokens {
	return &CSRFTokens{sm: sm}
}

// Token returns the session token, creating one if the session has none.
func (t *CSRFTokens) Token(ctx context.Context) (string, error) {
	if tok := t.sm.GetString(ctx, session.KeyCSRFToken); tok != "" {
		return tok, nil
	}
	return t.Renew(ctx)
}

// Renew replaces the session token. Called after login.
func (t *CSRFTokens) Renew(ctx context.Context) (string, error) {
	tok, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	t.sm.Put(ctx, session.KeyCSRFToken, tok)
	return tok, nil
}

// Valid reports whether token matches the session token.
func (t *CSRFTokens) Valid(ctx context.Context, token string) bool {
	expected := t.sm.GetString(ctx, session.KeyCSRFToken)
	if expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}

// Middleware rejects unsafe requests whose X-CSRF-Token header does not
// match the session token.
func (t *CSRFTokens) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !t.Valid(r.Context(), r.Header.Get(CSRFHeader)) {
				slog.Warn("CSRF token validation failed",
					"category", model.EventCategorySecurity,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", ClientIP(r),
				)
				WriteJSONError(w, http.StatusForbidden, "Invalid or missing CSRF token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
