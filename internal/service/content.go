// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the logic that sits between the HTTP handlers and the
// store: content preparation, the navigation menu, publication archives,
// public settings and the audit trail.
package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Content formats accepted by PrepareContent.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var (
	// richPolicy keeps the markup editors produce and drops scripts, event
	// handlers and javascript: URLs.
	richPolicy = bluemonday.UGCPolicy()

	// plainPolicy strips every tag; used for titles, excerpts and metadata.
	plainPolicy = bluemonday.StrictPolicy()

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
)

// SanitizeHTML cleans rich content.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// PlainText strips all markup from s.
func PlainText(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

// PrepareContent converts body to safe HTML. Markdown is rendered first and
// then sanitized, so raw HTML inside Markdown gets the same treatment.
func PrepareContent(body, format string) (string, error) {
	switch format {
	case "", FormatHTML:
		return SanitizeHTML(body), nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		return SanitizeHTML(buf.String()), nil
	default:
		return "", fmt.Errorf("unsupported content format %q", format)
	}
}

// Excerpt returns explicit when set, otherwise the first max runes of the
// plain text of content, cut at a word boundary.
func Excerpt(explicit, content string, max int) string {
	if e := PlainText(explicit); e != "" {
		return e
	}
	text := strings.Join(strings.Fields(PlainText(content)), " ")
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
