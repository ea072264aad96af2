// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestLimiterCacheGet(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	a := lc.get("10.0.0.1")
	if lc.get("10.0.0.1") != a {
		t.Error("get() returned a different limiter for the same key")
	}
	if lc.get("10.0.0.2") == a {
		t.Error("get() shared a limiter between keys")
	}
	if lc.size() != 2 {
		t.Errorf("size() = %d, want 2", lc.size())
	}
}

func TestLimiterCacheConcurrent(t *testing.T) {
	lc := newLimiterCache[int](10, 10)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			lc.get(k % 5)
		}(i)
	}
	wg.Wait()

	if lc.size() != 5 {
		t.Errorf("size() = %d, want 5", lc.size())
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	for i := range 5 {
		lc.get(fmt.Sprintf("ip-%d", i))
	}

	if lc.clearIfExceeds(10) {
		t.Error("cleared below the bound")
	}
	if !lc.clearIfExceeds(3) {
		t.Error("did not clear above the bound")
	}
	if lc.size() != 0 {
		t.Errorf("size() = %d after clear", lc.size())
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 2)
	handler := rl.Middleware()(okHandler())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 2 {
		if code := hit("192.0.2.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
	if code := hit("192.0.2.1"); code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded: status = %d, want %d", code, http.StatusTooManyRequests)
	}
	if code := hit("192.0.2.2"); code != http.StatusOK {
		t.Errorf("other client: status = %d, want %d", code, http.StatusOK)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.5, IPBurst: 2})
	handler := lp.Middleware()(okHandler())

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
		req.Header.Set("X-Real-IP", "198.51.100.7")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	post()
	post()
	rr := post()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want %q", got, "2")
	}

	// GET is never limited
	req := httptest.NewRequest(http.MethodGet, "/api/admin/login", nil)
	req.Header.Set("X-Real-IP", "198.51.100.7")
	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, req)
	if getRR.Code != http.StatusOK {
		t.Errorf("GET status = %d, want %d", getRR.Code, http.StatusOK)
	}
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	if lp.retryAfter != 2 {
		t.Errorf("retryAfter = %d, want 2", lp.retryAfter)
	}
	if lp.ipLimiters.burst != 5 {
		t.Errorf("burst = %d, want 5", lp.ipLimiters.burst)
	}
}
