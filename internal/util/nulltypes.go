// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strconv"
	"time"
)

// NullStringFromValue creates a sql.NullString from a string value.
// Returns a valid NullString if the string is non-empty, otherwise returns an invalid one.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringFromPtr converts a pointer to string into sql.NullString.
// Returns a valid NullString if the pointer is non-nil, otherwise returns an invalid one.
func NullStringFromPtr(ptr *string) sql.NullString {
	if ptr != nil {
		return sql.NullString{String: *ptr, Valid: true}
	}
	return sql.NullString{}
}

// TimePtr returns a pointer to the time held by t, or nil when t is NULL.
func TimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// StringPtr returns a pointer to the string held by s, or nil when s is NULL.
func StringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// NullBoolFromQuery parses a query flag ("1", "true", "0", "false").
// Returns an invalid NullBool for empty or unrecognised input.
func NullBoolFromQuery(s string) sql.NullBool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: v, Valid: true}
}
