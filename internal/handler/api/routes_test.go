// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"testing"
)

func TestRoutesAccessControl(t *testing.T) {
	e := newTestEnv(t)
	admin, editor := adminAndEditor(e)
	anon := e.anon()

	tests := []struct {
		name   string
		c      *client
		method string
		path   string
		body   any
		want   int
		errMsg string
	}{
		{"anonymous admin list", anon, http.MethodGet, "/api/admin/pages", nil, http.StatusUnauthorized, "Authentication required"},
		{"anonymous legacy create", anon, http.MethodPost, "/api/pages/create.php", `{"title":"x"}`, http.StatusUnauthorized, "Authentication required"},
		{"editor lists users", editor, http.MethodGet, "/api/admin/users", nil, http.StatusForbidden, "Insufficient permissions"},
		{"editor reads audit", editor, http.MethodGet, "/api/admin/audit", nil, http.StatusForbidden, "Insufficient permissions"},
		{"editor writes settings", editor, http.MethodPut, "/api/admin/settings", `{"settings":[{"key":"a","value":"b"}]}`, http.StatusForbidden, "Insufficient permissions"},
		{"editor lists pages", editor, http.MethodGet, "/api/admin/pages", nil, http.StatusOK, ""},
		{"editor reads settings", editor, http.MethodGet, "/api/admin/settings", nil, http.StatusOK, ""},
		{"admin lists users", admin, http.MethodGet, "/api/admin/users", nil, http.StatusOK, ""},
		{"admin reads audit", admin, http.MethodGet, "/api/admin/audit", nil, http.StatusOK, ""},
		{"public list", anon, http.MethodGet, "/api/pages", nil, http.StatusOK, ""},
		{"public legacy list", anon, http.MethodGet, "/api/news/list.php", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := tt.c.do(tt.method, tt.path, tt.body)
			assertStatus(t, rr, tt.want)
			if tt.errMsg != "" {
				assertError(t, rr, tt.errMsg)
			}
		})
	}
}

func TestRoutesMethodNotAllowed(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/pages/create.php"},
		{http.MethodPost, "/api/pages/list.php"},
		{http.MethodGet, "/api/circulars/delete.php"},
		{http.MethodPost, "/api/news/update.php"},
		{http.MethodDelete, "/api/pages"},
		{http.MethodPost, "/api/menu"},
		{http.MethodDelete, "/api/admin/settings"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := admin.do(tt.method, tt.path, nil)
			assertStatus(t, rr, http.StatusMethodNotAllowed)
			assertError(t, rr, "Method not allowed")
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q, want JSON", ct)
			}
		})
	}
}

func TestRoutesNotFound(t *testing.T) {
	e := newTestEnv(t)

	rr := e.anon().do(http.MethodGet, "/api/nothing-here", nil)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "Resource not found")

	rr = e.anon().do(http.MethodGet, "/api/pages/missing-page", nil)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "Page not found")
}

func TestRoutesCSRFTokenRequired(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	noToken := &client{env: e, cookie: admin.cookie}
	rr := noToken.do(http.MethodPost, "/api/admin/pages", map[string]string{"title": "No Token"})
	assertStatus(t, rr, http.StatusForbidden)
	assertError(t, rr, "Invalid or missing CSRF token")

	wrong := &client{env: e, cookie: admin.cookie, token: "not-the-token"}
	rr = wrong.do(http.MethodPost, "/api/admin/pages", map[string]string{"title": "Wrong Token"})
	assertStatus(t, rr, http.StatusForbidden)

	// Safe methods need no token.
	rr = noToken.do(http.MethodGet, "/api/admin/pages", nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestRoutesSitemapAndRobots(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login("admin", "admin")

	createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "About Us"}))
	createdID(t, admin.do(http.MethodPost, "/api/admin/pages", map[string]any{"title": "Hidden", "is_enabled": false}))
	createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{"title": "Annual Meeting", "is_published": true}))
	createdID(t, admin.do(http.MethodPost, "/api/admin/news", map[string]any{"title": "Draft Note"}))

	rr := e.anon().do(http.MethodGet, "/sitemap.xml", nil)
	assertStatus(t, rr, http.StatusOK)
	body := rr.Body.String()
	for _, want := range []string{"/about-us</loc>", "/news/annual-meeting</loc>"} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	for _, unwanted := range []string{"/hidden</loc>", "draft-note"} {
		if strings.Contains(body, unwanted) {
			t.Errorf("sitemap should not contain %q", unwanted)
		}
	}

	rr = e.anon().do(http.MethodGet, "/robots.txt", nil)
	assertStatus(t, rr, http.StatusOK)
	// Development instances block crawlers.
	if !strings.Contains(rr.Body.String(), "Disallow: /\n") {
		t.Errorf("robots.txt = %q", rr.Body.String())
	}
}
