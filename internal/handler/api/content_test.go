// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestPageCreateAndDuplicateSlug(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	rr := admin.do(http.MethodPost, "/api/admin/pages", map[string]any{
		"title":   "Our Vision",
		"content": `<p>Serving members</p><script>alert(1)</script>`,
	})
	id := createdID(t, rr)

	var created struct {
		Data PageResponse `json:"data"`
	}
	decode(t, rr, &created)
	if created.Data.Slug != "our-vision" {
		t.Errorf("slug = %q, want %q", created.Data.Slug, "our-vision")
	}
	if strings.Contains(created.Data.Content, "<script>") {
		t.Errorf("content was not sanitized: %q", created.Data.Content)
	}

	rr = admin.do(http.MethodPost, "/api/pages/create.php", map[string]any{
		"title": "Our Vision Again",
		"slug":  "our-vision",
	})
	assertStatus(t, rr, http.StatusBadRequest)
	resp := assertError(t, rr, "A page with this slug already exists")
	if resp.Errors["slug"] == "" {
		t.Error("expected a slug field error")
	}

	// A title collision without an explicit slug gets a distinct slug.
	rr = admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Our Vision"})
	createdID(t, rr)
	var second struct {
		Data PageResponse `json:"data"`
	}
	decode(t, rr, &second)
	if second.Data.Slug == "our-vision" || !strings.HasPrefix(second.Data.Slug, "our-vision") {
		t.Errorf("second slug = %q, want a unique variant of our-vision", second.Data.Slug)
	}

	rr = e.anon().do(http.MethodGet, "/api/pages/get.php?id="+strconv.FormatInt(id, 10), nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestPageValidation(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing title", map[string]any{"content": "x"}, "title"},
		{"bad slug", map[string]any{"title": "T", "slug": "Not A Slug"}, "slug"},
		{"bad format", map[string]any{"title": "T", "content_format": "rtf"}, "content_format"},
		{"unknown menu", map[string]any{"title": "T", "parent_menu": "nowhere"}, "parent_menu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := admin.do(http.MethodPost, "/api/admin/pages", tt.body)
			assertStatus(t, rr, http.StatusBadRequest)
			var resp ErrorResponse
			decode(t, rr, &resp)
			if resp.Errors[tt.field] == "" {
				t.Errorf("errors = %v, want an entry for %s", resp.Errors, tt.field)
			}
		})
	}

	rr := admin.do(http.MethodPost, "/api/admin/pages", "{not json")
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Invalid JSON body")

	rr = admin.do(http.MethodPost, "/api/admin/pages", nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Request body is empty")
}

func TestPageSoftDeleteHidesRecord(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	id := createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Old Notice"}))
	path := "/api/admin/pages/" + strconv.FormatInt(id, 10)

	rr := admin.do(http.MethodDelete, path, nil)
	assertStatus(t, rr, http.StatusOK)

	rr = e.anon().do(http.MethodGet, "/api/pages/old-notice", nil)
	assertStatus(t, rr, http.StatusNotFound)

	rr = admin.do(http.MethodGet, path, nil)
	assertStatus(t, rr, http.StatusNotFound)

	var list struct {
		Data       []PageResponse `json:"data"`
		Pagination Pagination     `json:"pagination"`
	}
	decode(t, admin.do(http.MethodGet, "/api/admin/pages", nil), &list)
	if list.Pagination.Total != 0 || len(list.Data) != 0 {
		t.Errorf("deleted page still listed: %+v", list)
	}

	rr = admin.do(http.MethodDelete, path, nil)
	assertStatus(t, rr, http.StatusNotFound)

	// The slug is free again.
	createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Old Notice", "slug": "old-notice"}))
}

func TestPageUpdateViaLegacyAlias(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Taken"}))
	id := createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Draft"}))
	path := "/api/pages/update.php?id=" + strconv.FormatInt(id, 10)

	rr := admin.do(http.MethodPut, path, map[string]any{"title": "Final", "slug": "final"})
	assertStatus(t, rr, http.StatusOK)
	var resp struct {
		Data PageResponse `json:"data"`
	}
	decode(t, rr, &resp)
	if resp.Data.Title != "Final" || resp.Data.Slug != "final" {
		t.Errorf("updated page = %+v", resp.Data)
	}

	rr = admin.do(http.MethodPatch, path, map[string]any{"slug": "taken"})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "A page with this slug already exists")

	rr = admin.do(http.MethodPatch, path, map[string]any{"title": ""})
	assertStatus(t, rr, http.StatusBadRequest)

	rr = admin.do(http.MethodPut, "/api/pages/update.php", map[string]any{"title": "No ID"})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Invalid ID")
}

func TestNewsPublishedAtSetOnce(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	id := createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{"title": "Annual Meeting"}))
	path := "/api/admin/news/" + strconv.FormatInt(id, 10)

	var resp struct {
		Data NewsResponse `json:"data"`
	}
	decode(t, admin.do(http.MethodGet, path, nil), &resp)
	if resp.Data.PublishedAt != nil {
		t.Fatalf("draft has published_at %v", resp.Data.PublishedAt)
	}

	// Drafts are invisible to the public.
	assertStatus(t, e.anon().do(http.MethodGet, "/api/news/annual-meeting", nil), http.StatusNotFound)

	rr := admin.do(http.MethodPut, path, map[string]any{"is_published": true})
	assertStatus(t, rr, http.StatusOK)
	decode(t, rr, &resp)
	if resp.Data.PublishedAt == nil {
		t.Fatal("first publish did not set published_at")
	}
	first := *resp.Data.PublishedAt

	time.Sleep(10 * time.Millisecond)
	rr = admin.do(http.MethodPut, path, map[string]any{"title": "Annual General Meeting", "is_published": true})
	assertStatus(t, rr, http.StatusOK)
	decode(t, rr, &resp)
	if resp.Data.PublishedAt == nil || !resp.Data.PublishedAt.Equal(first) {
		t.Errorf("published_at changed from %v to %v", first, resp.Data.PublishedAt)
	}

	assertStatus(t, e.anon().do(http.MethodGet, "/api/news/annual-meeting", nil), http.StatusOK)
}

func TestNewsClearPublishedAt(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	live := createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{
		"title":        "Jubilee",
		"is_published": true,
		"published_at": "2020-01-01",
	}))
	draft := createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{
		"title":        "Planned Visit",
		"published_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	}))

	var resp struct {
		Data NewsResponse `json:"data"`
	}

	// A published item is stamped again instead of keeping the old value.
	before := time.Now().Add(-time.Minute)
	rr := admin.do(http.MethodPatch, "/api/admin/news/"+strconv.FormatInt(live, 10), map[string]any{"published_at": ""})
	assertStatus(t, rr, http.StatusOK)
	decode(t, rr, &resp)
	if resp.Data.PublishedAt == nil || resp.Data.PublishedAt.Before(before) {
		t.Errorf("published_at = %v, want a fresh stamp", resp.Data.PublishedAt)
	}

	// A draft loses its schedule.
	rr = admin.do(http.MethodPatch, "/api/admin/news/"+strconv.FormatInt(draft, 10), map[string]any{"published_at": ""})
	assertStatus(t, rr, http.StatusOK)
	resp.Data = NewsResponse{}
	decode(t, rr, &resp)
	if resp.Data.PublishedAt != nil {
		t.Errorf("draft published_at = %v, want null", resp.Data.PublishedAt)
	}

	// Leaving the field out keeps the stored value.
	rr = admin.do(http.MethodPatch, "/api/admin/news/"+strconv.FormatInt(live, 10), map[string]any{"title": "Golden Jubilee"})
	assertStatus(t, rr, http.StatusOK)
	resp.Data = NewsResponse{}
	decode(t, rr, &resp)
	if resp.Data.PublishedAt == nil || resp.Data.PublishedAt.Year() == 2020 {
		t.Errorf("published_at = %v after an unrelated update", resp.Data.PublishedAt)
	}
}

func TestNewsScheduledPublication(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{
		"title":        "Coming Soon",
		"is_published": true,
		"published_at": future,
	}))

	assertStatus(t, e.anon().do(http.MethodGet, "/api/news/coming-soon", nil), http.StatusNotFound)

	var list struct {
		Pagination Pagination `json:"pagination"`
	}
	decode(t, e.anon().do(http.MethodGet, "/api/news", nil), &list)
	if list.Pagination.Total != 0 {
		t.Errorf("scheduled news listed publicly: total %d", list.Pagination.Total)
	}
}

func TestCircularPeriodConflict(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	body := map[string]any{"title": "March Circular", "month": 3, "year": 2024}
	id := createdID(t, admin.do(http.MethodPost, "/api/admin/circulars", body))

	rr := admin.do(http.MethodPost, "/api/circulars/create.php", map[string]any{"title": "Another", "month": 3, "year": 2024})
	assertStatus(t, rr, http.StatusConflict)
	assertError(t, rr, "A circular for this month and year already exists")

	// The same period is free for the other publication kind.
	createdID(t, admin.do(http.MethodPost, "/api/admin/newsline", body))

	// Moving another circular onto the taken period conflicts too.
	other := createdID(t, admin.do(http.MethodPost, "/api/admin/circulars", map[string]any{"title": "April", "month": 4, "year": 2024}))
	rr = admin.do(http.MethodPut, "/api/admin/circulars/"+strconv.FormatInt(other, 10), map[string]any{"month": 3})
	assertStatus(t, rr, http.StatusConflict)

	// After a soft delete the period can be reused.
	assertStatus(t, admin.do(http.MethodDelete, "/api/admin/circulars/"+strconv.FormatInt(id, 10), nil), http.StatusOK)
	createdID(t, admin.do(http.MethodPost, "/api/admin/circulars", body))

	rr = admin.do(http.MethodPost, "/api/admin/circulars", map[string]any{"title": "Bad", "month": 13, "year": 2024})
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestCircularArchive(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	for _, p := range []struct{ month, year int }{{1, 2023}, {3, 2024}, {5, 2024}} {
		createdID(t, admin.do(http.MethodPost, "/api/admin/circulars", map[string]any{
			"title": "Circular", "month": p.month, "year": p.year,
		}))
	}

	rr := e.anon().do(http.MethodGet, "/api/circulars/archive", nil)
	assertStatus(t, rr, http.StatusOK)
	var resp struct {
		Data map[string][]struct {
			Month int `json:"month"`
			Count int `json:"count"`
		} `json:"data"`
	}
	decode(t, rr, &resp)
	if len(resp.Data["2024"]) != 2 || len(resp.Data["2023"]) != 1 {
		t.Errorf("archive = %+v", resp.Data)
	}
}

func TestBannerRules(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	rr := admin.do(http.MethodPost, "/api/admin/banners", map[string]any{"type": "hero", "title": "No Image"})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Image is required for hero banners")

	rr = admin.do(http.MethodPost, "/api/admin/banners", map[string]any{
		"type":      "flash_news",
		"content":   "Office closed",
		"starts_at": "2024-05-02",
		"ends_at":   "2024-05-01",
	})
	assertStatus(t, rr, http.StatusBadRequest)

	createdID(t, admin.do(http.MethodPost, "/api/admin/banners", map[string]any{
		"type":    "flash_news",
		"content": "Office closed on Friday",
	}))

	rr = e.anon().do(http.MethodGet, "/api/banners?type=flash_news", nil)
	assertStatus(t, rr, http.StatusOK)
	var list struct {
		Data []BannerResponse `json:"data"`
	}
	decode(t, rr, &list)
	if len(list.Data) != 1 {
		t.Errorf("active flash banners = %d, want 1", len(list.Data))
	}

	assertStatus(t, e.anon().do(http.MethodGet, "/api/banners?type=popup", nil), http.StatusBadRequest)
}

func TestSettingsAndMenu(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	rr := admin.do(http.MethodPut, "/api/admin/settings", map[string]any{
		"settings": []map[string]any{
			{"key": "site_title", "value": "Institute", "is_public": true},
			{"key": "smtp_host", "value": "mail.internal"},
		},
	})
	assertStatus(t, rr, http.StatusOK)

	var public struct {
		Data map[string]string `json:"data"`
	}
	decode(t, e.anon().do(http.MethodGet, "/api/settings", nil), &public)
	if public.Data["site_title"] != "Institute" {
		t.Errorf("public settings = %v", public.Data)
	}
	if _, ok := public.Data["smtp_host"]; ok {
		t.Error("private setting exposed publicly")
	}

	createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{
		"title": "History", "show_in_menu": true, "parent_menu": "about",
	}))
	rr = admin.do(http.MethodGet, "/api/admin/menu", nil)
	assertStatus(t, rr, http.StatusOK)
	var menu struct {
		Data AdminMenuResponse `json:"data"`
	}
	decode(t, rr, &menu)
	if len(menu.Data.Keys) == 0 {
		t.Error("admin menu should list the known keys")
	}
	if menu.Data.Orphans == nil {
		t.Error("orphans should be an empty list, not null")
	}
}
