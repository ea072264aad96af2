// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: URL slug generation,
// nullable SQL value conversion and safe filesystem paths.
package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs before any uniqueness suffix.
const MaxSlugLength = 180

// nonAlnum matches every run of characters outside [a-z0-9].
var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a string to a URL-friendly slug: accents are stripped,
// other scripts are transliterated to ASCII, the result is lower-cased, and
// every run of non-alphanumerics becomes a single hyphen with none at the ends.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = nonAlnum.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = strings.TrimRight(result[:MaxSlugLength], "-")
	}

	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength+21 {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}

// SlugExistsFunc reports whether a slug is already taken by a live row.
type SlugExistsFunc func(slug string) (bool, error)

// UniqueSlug derives a slug from title that exists() does not report as taken.
// On collision the unix timestamp of now is appended; if that is taken too,
// a counter follows. fallback is used when title has no sluggable characters.
func UniqueSlug(title, fallback string, now time.Time, exists SlugExistsFunc) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallback
	}

	taken, err := exists(base)
	if err != nil {
		return "", fmt.Errorf("checking slug %q: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	stamped := base + "-" + strconv.FormatInt(now.Unix(), 10)
	candidate := stamped
	for i := 2; i < 100; i++ {
		taken, err = exists(candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = stamped + "-" + strconv.Itoa(i)
	}

	return "", fmt.Errorf("no free slug for %q", base)
}
