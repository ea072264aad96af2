// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/instcms/internal/seo"
	"github.com/olegiv/instcms/internal/store"
)

// sitemapBatch is the page size used while walking tables for the sitemap.
const sitemapBatch = 500

// Sitemap handles GET /sitemap.xml: enabled pages, visible news and active
// gallery photos.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := seo.NewSitemapBuilder(h.siteURL(r))
	b.AddHomepage()
	for _, section := range []string{"news", "circulars", "newsline", "council", "provincials", "gallery"} {
		b.AddSection(section)
	}

	pages, err := collectEntries(func(p store.Paging) ([]seo.Entry, error) {
		rows, err := h.queries.ListPages(ctx, store.PageFilter{EnabledOnly: true}, p)
		out := make([]seo.Entry, 0, len(rows))
		for _, pg := range rows {
			out = append(out, seo.Entry{Slug: pg.Slug, UpdatedAt: pg.UpdatedAt})
		}
		return out, err
	})
	if err != nil {
		h.writeInternalError(w, r, "Failed to build sitemap", err)
		return
	}
	b.AddPages(pages)

	now := h.now()
	news, err := collectEntries(func(p store.Paging) ([]seo.Entry, error) {
		rows, err := h.queries.ListNews(ctx, store.NewsFilter{VisibleAt: now}, p)
		out := make([]seo.Entry, 0, len(rows))
		for _, n := range rows {
			out = append(out, seo.Entry{Slug: n.Slug, UpdatedAt: n.UpdatedAt})
		}
		return out, err
	})
	if err != nil {
		h.writeInternalError(w, r, "Failed to build sitemap", err)
		return
	}
	b.AddNews(news)

	photos, err := collectEntries(func(p store.Paging) ([]seo.Entry, error) {
		rows, err := h.queries.ListGalleryItems(ctx, store.GalleryFilter{ActiveOnly: true}, p)
		out := make([]seo.Entry, 0, len(rows))
		for _, g := range rows {
			out = append(out, seo.Entry{Slug: g.Slug, UpdatedAt: g.UpdatedAt})
		}
		return out, err
	})
	if err != nil {
		h.writeInternalError(w, r, "Failed to build sitemap", err)
		return
	}
	b.AddGallery(photos)

	out, err := b.Build()
	if err != nil {
		h.writeInternalError(w, r, "Failed to build sitemap", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt. Development instances ask crawlers to stay
// out entirely.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL(r),
		DisallowAll: h.opts.Development,
	})))
}

// siteURL is the configured base URL or, when unset, the request origin.
func (h *Handler) siteURL(r *http.Request) string {
	if h.opts.BaseURL != "" {
		return h.opts.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// collectEntries pages through fetch until a short batch comes back.
func collectEntries(fetch func(store.Paging) ([]seo.Entry, error)) ([]seo.Entry, error) {
	var all []seo.Entry
	for offset := int64(0); ; offset += sitemapBatch {
		batch, err := fetch(store.Paging{Limit: sitemapBatch, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < sitemapBatch {
			return all, nil
		}
	}
}
