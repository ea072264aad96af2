// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt of the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the builder.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is one addressable record: a page, a news item or a gallery photo.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder collects URLs under one site root.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder. A trailing slash on siteURL is dropped.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the site root.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSection adds a listing page such as /news or /circulars.
func (b *SitemapBuilder) AddSection(path string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + strings.Trim(path, "/"),
		ChangeFreq: ChangeFreqDaily,
		Priority:   "0.7",
	})
}

// AddPages adds static pages at /<slug>.
func (b *SitemapBuilder) AddPages(pages []Entry) {
	b.add("", pages, ChangeFreqMonthly, "0.8")
}

// AddNews adds news items at /news/<slug>.
func (b *SitemapBuilder) AddNews(items []Entry) {
	b.add("news", items, ChangeFreqWeekly, "0.6")
}

// AddGallery adds gallery photos at /gallery/<slug>.
func (b *SitemapBuilder) AddGallery(items []Entry) {
	b.add("gallery", items, ChangeFreqMonthly, "0.4")
}

func (b *SitemapBuilder) add(prefix string, entries []Entry, freq ChangeFreq, priority string) {
	base := b.siteURL + "/"
	if prefix != "" {
		base += prefix + "/"
	}
	for _, e := range entries {
		u := SitemapURL{
			Loc:        base + e.Slug,
			ChangeFreq: freq,
			Priority:   priority,
		}
		if !e.UpdatedAt.IsZero() {
			u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

// Len reports how many URLs were added.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}
