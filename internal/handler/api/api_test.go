// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteServiceError(t *testing.T) {
	h := &Handler{opts: Options{Development: false}}

	tests := []struct {
		name    string
		entity  string
		err     error
		status  int
		message string
	}{
		{"not found", "page", fmt.Errorf("loading: %w", sql.ErrNoRows), http.StatusNotFound, "Page not found"},
		{"slug collision", "news item", errors.New("UNIQUE constraint failed: news.slug"), http.StatusBadRequest, "A news item with this slug already exists"},
		{"username collision", "user", errors.New("constraint failed: UNIQUE constraint failed: admin_users.username (2067)"), http.StatusBadRequest, "Username is already taken"},
		{"period collision", "circular", errors.New("UNIQUE constraint failed: publications.kind, publications.year, publications.month"), http.StatusConflict, "A circular for this month and year already exists"},
		{"field errors", "page", fieldErrors{"slug": "Slug is taken"}, http.StatusBadRequest, "Slug is taken"},
		{"anything else", "banner", errors.New("disk I/O error"), http.StatusInternalServerError, "Failed to process banner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			h.WriteServiceError(rr, req, tt.entity, tt.err)
			assertStatus(t, rr, tt.status)
			resp := assertError(t, rr, tt.message)
			if resp.Detail != "" {
				t.Errorf("detail leaked outside development: %q", resp.Detail)
			}
		})
	}
}

func TestWriteInternalErrorDetailInDevelopment(t *testing.T) {
	h := &Handler{opts: Options{Development: true}}
	rr := httptest.NewRecorder()
	h.writeInternalError(rr, httptest.NewRequest(http.MethodGet, "/", nil), "Failed", errors.New("boom"))

	assertStatus(t, rr, http.StatusInternalServerError)
	if resp := assertError(t, rr, "Failed"); resp.Detail != "boom" {
		t.Errorf("detail = %q, want %q", resp.Detail, "boom")
	}
}

func TestWriteValidationErrorPicksFirstField(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteValidationError(rr, map[string]string{
		"title": "Title is required",
		"month": "Month must be 12 or less",
	})
	assertStatus(t, rr, http.StatusBadRequest)
	resp := assertError(t, rr, "Month must be 12 or less")
	if len(resp.Errors) != 2 {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestNewHandlerDefaults(t *testing.T) {
	tests := []struct {
		in          Options
		wantDefault int
		wantMax     int
	}{
		{Options{}, 10, 100},
		{Options{DefaultLimit: 25, MaxLimit: 50}, 25, 50},
		{Options{DefaultLimit: 500, MaxLimit: 50}, 10, 50},
		{Options{MaxLimit: 5}, 5, 5},
	}
	for _, tt := range tests {
		h := NewHandler(Deps{Options: tt.in})
		if h.opts.DefaultLimit != tt.wantDefault || h.opts.MaxLimit != tt.wantMax {
			t.Errorf("NewHandler(%+v) limits = %d/%d, want %d/%d",
				tt.in, h.opts.DefaultLimit, h.opts.MaxLimit, tt.wantDefault, tt.wantMax)
		}
	}
}

func TestPeriodBounds(t *testing.T) {
	from, to := periodBounds(2024, 12)
	if from.Year() != 2024 || from.Month() != 12 || to.Year() != 2025 || to.Month() != 1 {
		t.Errorf("periodBounds(2024, 12) = %v, %v", from, to)
	}
	from, to = periodBounds(2024, 0)
	if from.Month() != 1 || to.Year() != 2025 {
		t.Errorf("periodBounds(2024, 0) = %v, %v", from, to)
	}
}
