// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/testutil"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func decodeHealth(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealthPublic(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, nil, t.TempDir())

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeHealth(t, rr)
	if body["status"] != StatusHealthy {
		t.Errorf("status = %v", body["status"])
	}
	if _, ok := body["checks"]; ok {
		t.Error("anonymous response exposes checks")
	}
}

func TestHealthAdminDetails(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, fakePinger{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.AuthenticatedUser{ID: 1, Role: model.RoleAdmin}))
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	body := decodeHealth(t, rr)
	checks, ok := body["checks"].(map[string]any)
	if !ok {
		t.Fatalf("checks missing: %v", body)
	}
	for _, name := range []string{"database", "disk", "cache"} {
		if _, ok := checks[name]; !ok {
			t.Errorf("check %q missing", name)
		}
	}
	if _, ok := body["system"]; !ok {
		t.Error("verbose response lacks system info")
	}
}

func TestHealthEditorGetsPublicView(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, nil, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.AuthenticatedUser{ID: 2, Role: model.RoleEditor}))
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if _, ok := decodeHealth(t, rr)["checks"]; ok {
		t.Error("editor response exposes checks")
	}
}

func TestHealthCacheFailureDegrades(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, fakePinger{err: errors.New("connection refused")}, t.TempDir())

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := decodeHealth(t, rr)["status"]; got != StatusDegraded {
		t.Errorf("status = %v, want %s", got, StatusDegraded)
	}
}

func TestReadiness(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	h := NewHealthHandler(db, nil, t.TempDir())

	rr := httptest.NewRecorder()
	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	_ = db.Close()
	rr = httptest.NewRecorder()
	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status after close = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(nil, nil, "")
	rr := httptest.NewRecorder()
	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
