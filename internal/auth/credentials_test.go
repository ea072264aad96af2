// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"simple", "admin", true},
		{"underscore and digits", "site_editor_2", true},
		{"minimum length", "abc", true},
		{"maximum length", strings.Repeat("a", 50), true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 51), false},
		{"hyphen", "site-editor", false},
		{"space", "site editor", false},
		{"accented", "josé", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateUsername(tt.username)
			if (msg == "") != tt.valid {
				t.Errorf("ValidateUsername(%q) = %q, want valid=%v", tt.username, msg, tt.valid)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if msg := ValidatePassword("short"); msg == "" {
		t.Error("short password should be rejected")
	}
	if msg := ValidatePassword("longenough"); msg != "" {
		t.Errorf("valid password rejected: %s", msg)
	}
	if msg := ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)); msg == "" {
		t.Error("overlong password should be rejected")
	}
}

func TestLockDuration(t *testing.T) {
	tests := []struct {
		attempts int64
		want     time.Duration
	}{
		{0, 0},
		{4, 0},
		{5, 15 * time.Minute},
		{6, 0},
		{10, 30 * time.Minute},
		{15, time.Hour},
		{100, MaxLockDuration},
	}

	for _, tt := range tests {
		if got := LockDuration(tt.attempts); got != tt.want {
			t.Errorf("LockDuration(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}
