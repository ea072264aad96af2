// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"with special characters", "Hello, World!", "hello-world"},
		{"punctuation inside words", "Justice&Peace/Integrity", "justice-peace-integrity"},
		{"with numbers", "Page 123", "page-123"},
		{"with accents", "Café résumé", "cafe-resume"},
		{"with multiple spaces", "Hello   World", "hello-world"},
		{"with hyphens", "Hello - World", "hello-world"},
		{"with leading/trailing spaces", "  Hello World  ", "hello-world"},
		{"leading and trailing symbols", "--Our Vision!--", "our-vision"},
		{"all special characters", "!@#$%^&*()", ""},
		{"german umlauts", "Über München", "uber-munchen"},
		{"transliterated script", "Привет мир", "privet-mir"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Our Vision",
		"General Chapter 2024: Final Message",
		"  ¡Feliz Navidad!  ",
		"A -- B __ C",
		"Saint Joseph’s Province",
		strings.Repeat("long title ", 40),
	}

	for _, in := range inputs {
		got := Slugify(in)
		if !shape.MatchString(got) {
			t.Errorf("Slugify(%q) = %q, not lowercase alnum+hyphen", in, got)
		}
		if len(got) > MaxSlugLength {
			t.Errorf("Slugify(%q) length %d exceeds %d", in, len(got), MaxSlugLength)
		}
		if !IsValidSlug(got) {
			t.Errorf("IsValidSlug(Slugify(%q)) = false", in)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"our-vision", true},
		{"page-123", true},
		{"a", true},
		{"", false},
		{"Our-Vision", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"under_score", false},
		{"space here", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.valid {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.valid)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("free", func(t *testing.T) {
		got, err := UniqueSlug("Our Vision", "page", now, func(string) (bool, error) { return false, nil })
		if err != nil {
			t.Fatalf("UniqueSlug error: %v", err)
		}
		if got != "our-vision" {
			t.Errorf("got %q, want %q", got, "our-vision")
		}
	})

	t.Run("collision appends timestamp", func(t *testing.T) {
		taken := map[string]bool{"our-vision": true}
		got, err := UniqueSlug("Our Vision", "page", now, func(s string) (bool, error) { return taken[s], nil })
		if err != nil {
			t.Fatalf("UniqueSlug error: %v", err)
		}
		if got != "our-vision-1700000000" {
			t.Errorf("got %q, want %q", got, "our-vision-1700000000")
		}
	})

	t.Run("timestamp collision appends counter", func(t *testing.T) {
		taken := map[string]bool{"our-vision": true, "our-vision-1700000000": true}
		got, err := UniqueSlug("Our Vision", "page", now, func(s string) (bool, error) { return taken[s], nil })
		if err != nil {
			t.Fatalf("UniqueSlug error: %v", err)
		}
		if got != "our-vision-1700000000-2" {
			t.Errorf("got %q, want %q", got, "our-vision-1700000000-2")
		}
	})

	t.Run("fallback for empty slug", func(t *testing.T) {
		got, err := UniqueSlug("!!!", "news", now, func(string) (bool, error) { return false, nil })
		if err != nil {
			t.Fatalf("UniqueSlug error: %v", err)
		}
		if got != "news" {
			t.Errorf("got %q, want %q", got, "news")
		}
	})

	t.Run("checker error", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := UniqueSlug("Our Vision", "page", now, func(string) (bool, error) { return false, boom })
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want wrapped %v", err, boom)
		}
	})
}
