// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"
)

func TestLocator_Disabled(t *testing.T) {
	l, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	defer func() { _ = l.Close() }()

	if l.Enabled() {
		t.Error("locator without path should be disabled")
	}
	if err := l.Reload(); err != nil {
		t.Errorf("Reload on disabled locator: %v", err)
	}

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", CodeLocal},
		{"::1", CodeLocal},
		{"10.1.2.3", CodeLocal},
		{"192.168.0.10", CodeLocal},
		{"fe80::1", CodeLocal},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := l.Country(tt.ip); got != tt.want {
			t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestOpen_MissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
	if l == nil || l.Enabled() {
		t.Error("locator should be returned disabled on error")
	}
}

func TestZeroLocator(t *testing.T) {
	var l Locator
	if got := l.Country("1.1.1.1"); got != "" {
		t.Errorf("Country = %q, want empty", got)
	}
}
