// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler holds request parsing helpers and the health endpoints
// shared by the HTTP layer. Resource handlers live in handler/api.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ErrInvalidID is returned when a request carries no usable numeric id.
var ErrInvalidID = errors.New("invalid id")

// ParsePageParam returns the 1-based ?page= value, defaulting to 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseLimitParam returns ?limit= (or the older ?per_page=) clamped to
// [1, maxVal]. Missing or invalid values yield defaultVal.
func ParseLimitParam(r *http.Request, defaultVal, maxVal int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		raw = r.URL.Query().Get("per_page")
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultVal
	}
	return min(limit, maxVal)
}

// TotalPages returns how many pages of size limit hold total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ParseIDParam reads the positive id from the {id} route parameter or, for
// script-style routes, from ?id=.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}
