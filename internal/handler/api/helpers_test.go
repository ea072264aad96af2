// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/testutil"
)

const testPassword = "correct-horse-9"

// testEnv is a router over an in-memory database with the full middleware
// stack of the admin API.
type testEnv struct {
	t      *testing.T
	db     *sql.DB
	h      *Handler
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestMemoryDB(t)
	sm := scs.New()
	h := NewHandler(Deps{
		DB:       db,
		Sessions: sm,
		CSRF:     middleware.NewCSRFTokens(sm),
		Audit:    service.NewAuditService(db, nil),
		Options:  Options{Development: true},
	})

	r := chi.NewRouter()
	h.Routes(r, RouteConfig{})
	return &testEnv{t: t, db: db, h: h, router: r}
}

// client carries the session cookie and CSRF token of one signed-in user.
type client struct {
	env    *testEnv
	cookie *http.Cookie
	token  string
}

// anon returns a client without a session.
func (e *testEnv) anon() *client {
	return &client{env: e}
}

// login creates a user with role and signs in as them.
func (e *testEnv) login(username, role string) *client {
	e.t.Helper()
	testutil.CreateUser(e.t, e.db, username, testPassword, role)
	return e.signIn(username, testPassword)
}

func (e *testEnv) signIn(username, password string) *client {
	e.t.Helper()

	c := e.anon()
	rr := c.do(http.MethodPost, "/api/admin/login", map[string]string{
		"username": username,
		"password": password,
	})
	if rr.Code != http.StatusOK {
		e.t.Fatalf("login as %s: status %d, body %s", username, rr.Code, rr.Body.String())
	}

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	decode(e.t, rr, &resp)
	c.token = resp.Data.CSRFToken
	if c.cookie == nil || c.token == "" {
		e.t.Fatalf("login as %s: missing session cookie or CSRF token", username)
	}
	return c
}

// do sends a JSON request. body may be nil, a string of raw JSON, or any
// value to encode.
func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.env.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			c.env.t.Fatalf("encoding body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.token != "" {
		req.Header.Set(middleware.CSRFHeader, c.token)
	}

	rr := httptest.NewRecorder()
	c.env.router.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == "session" {
			c.cookie = ck
		}
	}
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, want string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	decode(t, rr, &resp)
	if resp.Success {
		t.Error("success = true on an error response")
	}
	if resp.Error != want {
		t.Errorf("error = %q, want %q", resp.Error, want)
	}
	return resp
}

// createdID reads the id of a {success,id,data} response.
func createdID(t *testing.T, rr *httptest.ResponseRecorder) int64 {
	t.Helper()
	assertStatus(t, rr, http.StatusOK)
	var resp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	decode(t, rr, &resp)
	if !resp.Success || resp.ID == 0 {
		t.Fatalf("unexpected create response: %s", rr.Body.String())
	}
	return resp.ID
}

// adminAndEditor signs in one user of each role.
func adminAndEditor(e *testEnv) (admin, editor *client) {
	return e.login("admin", model.RoleAdmin), e.login("editor", model.RoleEditor)
}
