// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullStringFromValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected sql.NullString
	}{
		{
			name:     "empty string",
			input:    "",
			expected: sql.NullString{},
		},
		{
			name:     "non-empty string",
			input:    "hello",
			expected: sql.NullString{String: "hello", Valid: true},
		},
		{
			name:     "whitespace only",
			input:    "  ",
			expected: sql.NullString{String: "  ", Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullStringFromValue(tt.input)
			if result != tt.expected {
				t.Errorf("NullStringFromValue(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNullStringFromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected sql.NullString
	}{
		{
			name:     "nil pointer",
			input:    nil,
			expected: sql.NullString{},
		},
		{
			name:     "non-empty string",
			input:    strPtr("hello"),
			expected: sql.NullString{String: "hello", Valid: true},
		},
		{
			name:     "empty string pointer",
			input:    strPtr(""),
			expected: sql.NullString{String: "", Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullStringFromPtr(tt.input)
			if result != tt.expected {
				t.Errorf("NullStringFromPtr() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestNullTimeHelpers(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if TimePtr(sql.NullTime{}) != nil {
		t.Error("TimePtr(NULL) should be nil")
	}
	if p := TimePtr(sql.NullTime{Time: now, Valid: true}); p == nil || !p.Equal(now) {
		t.Errorf("TimePtr = %v, want %v", p, now)
	}

	if StringPtr(sql.NullString{}) != nil {
		t.Error("StringPtr(NULL) should be nil")
	}
	if p := StringPtr(sql.NullString{String: "x", Valid: true}); p == nil || *p != "x" {
		t.Errorf("StringPtr = %v", p)
	}
}

func TestNullBoolFromQuery(t *testing.T) {
	tests := []struct {
		input string
		want  sql.NullBool
	}{
		{"1", sql.NullBool{Bool: true, Valid: true}},
		{"true", sql.NullBool{Bool: true, Valid: true}},
		{"0", sql.NullBool{Bool: false, Valid: true}},
		{"false", sql.NullBool{Bool: false, Valid: true}},
		{"", sql.NullBool{}},
		{"yes", sql.NullBool{}},
	}

	for _, tt := range tests {
		if got := NullBoolFromQuery(tt.input); got != tt.want {
			t.Errorf("NullBoolFromQuery(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func strPtr(s string) *string {
	return &s
}
