// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote addr", "", "", "203.0.113.5:4321", "203.0.113.5"},
		{"remote addr without port", "", "", "203.0.113.5", "203.0.113.5"},
		{"x-real-ip wins", "198.51.100.1", "192.0.2.9", "10.0.0.1:80", "198.51.100.1"},
		{"first forwarded entry", "", "192.0.2.9, 10.0.0.2", "10.0.0.1:80", "192.0.2.9"},
		{"ipv6 remote", "", "", "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticCacheAndNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	StaticCache(86400)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/a.jpg", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=86400, immutable" {
		t.Errorf("StaticCache Cache-Control = %q", got)
	}

	rr = httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("NoStore Cache-Control = %q", got)
	}
}
