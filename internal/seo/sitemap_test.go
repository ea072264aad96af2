// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilderTrimsTrailingSlash(t *testing.T) {
	b := NewSitemapBuilder("https://example.org/")
	b.AddHomepage()

	if got := b.urls[0].Loc; got != "https://example.org/" {
		t.Errorf("Loc = %q, want %q", got, "https://example.org/")
	}
}

func TestSitemapBuilderPaths(t *testing.T) {
	updated := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	b := NewSitemapBuilder("https://example.org")
	b.AddSection("/circulars/")
	b.AddPages([]Entry{{Slug: "our-vision", UpdatedAt: updated}})
	b.AddNews([]Entry{{Slug: "annual-meeting"}})
	b.AddGallery([]Entry{{Slug: "conference-2024"}})

	tests := []struct {
		loc      string
		priority string
		lastmod  string
	}{
		{"https://example.org/circulars", "0.7", ""},
		{"https://example.org/our-vision", "0.8", "2024-03-01T09:30:00Z"},
		{"https://example.org/news/annual-meeting", "0.6", ""},
		{"https://example.org/gallery/conference-2024", "0.4", ""},
	}
	if b.Len() != len(tests) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(tests))
	}
	for i, tt := range tests {
		u := b.urls[i]
		if u.Loc != tt.loc {
			t.Errorf("urls[%d].Loc = %q, want %q", i, u.Loc, tt.loc)
		}
		if u.Priority != tt.priority {
			t.Errorf("urls[%d].Priority = %q, want %q", i, u.Priority, tt.priority)
		}
		if u.LastMod != tt.lastmod {
			t.Errorf("urls[%d].LastMod = %q, want %q", i, u.LastMod, tt.lastmod)
		}
	}
}

func TestSitemapBuilderBuild(t *testing.T) {
	b := NewSitemapBuilder("https://example.org")
	b.AddHomepage()
	b.AddPages([]Entry{{Slug: "about"}})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(string(out), xml.Header) {
		t.Error("Build() should start with the XML header")
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("Build() produced invalid XML: %v", err)
	}
	if parsed.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q, want %q", parsed.XMLNS, XMLNamespace)
	}
	if len(parsed.URLs) != 2 {
		t.Errorf("parsed %d URLs, want 2", len(parsed.URLs))
	}
}
