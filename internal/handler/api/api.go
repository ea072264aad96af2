// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers for the public site and the admin
// dashboard.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
)

// Options tune listing and error output.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	// Development adds the underlying error text to 500 responses.
	Development bool
	// BaseURL is the public site root used in the sitemap.
	BaseURL string
}

// Deps are the collaborators of Handler. Menu, Archive and Settings may
// share one cache backend; when nil they are built without a cache.
type Deps struct {
	DB       *sql.DB
	Sessions *scs.SessionManager
	CSRF     *middleware.CSRFTokens
	Audit    *service.AuditService
	Menu     *service.MenuService
	Archive  *service.ArchiveService
	Settings *service.SettingsService
	Uploads  *service.UploadService
	Options  Options
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	sessions *scs.SessionManager
	csrf     *middleware.CSRFTokens
	audit    *service.AuditService
	menu     *service.MenuService
	archive  *service.ArchiveService
	settings *service.SettingsService
	uploads  *service.UploadService
	opts     Options
	now      func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	opts := d.Options
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(10, opts.MaxLimit)
	}

	c := cache.Cacher(cache.Noop{})
	if d.Menu == nil {
		d.Menu = service.NewMenuService(d.DB, c, 0)
	}
	if d.Archive == nil {
		d.Archive = service.NewArchiveService(d.DB, c, 0)
	}
	if d.Settings == nil {
		d.Settings = service.NewSettingsService(d.DB, c, 0)
	}

	return &Handler{
		db:       d.DB,
		queries:  store.New(d.DB),
		sessions: d.Sessions,
		csrf:     d.CSRF,
		audit:    d.Audit,
		menu:     d.Menu,
		archive:  d.Archive,
		settings: d.Settings,
		uploads:  d.Uploads,
		opts:     opts,
		now:      time.Now,
	}
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type createdResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
	Data    any   `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {"success":true,"data":...}.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
}

// WriteList writes a page of items with its pagination block.
func WriteList(w http.ResponseWriter, data any, p Pagination) {
	WriteJSON(w, http.StatusOK, listResponse{Success: true, Data: data, Pagination: p})
}

// WriteCreated writes the create response. Legacy clients read the id from
// the top level, so it is repeated outside data.
func WriteCreated(w http.ResponseWriter, id int64, data any) {
	WriteJSON(w, http.StatusOK, createdResponse{Success: true, ID: id, Data: data})
}

// WriteMessage writes {"success":true,"message":...}.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: message})
}

// WriteError writes {"success":false,"error":...}.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteBadRequest writes a 400 response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteValidationError writes a 400 with every field message under errors.
// The top-level error repeats the first field in name order.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	msg := "Validation failed"
	if len(keys) > 0 {
		msg = fields[keys[0]]
	}
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Errors: fields})
}

// MethodNotAllowed answers routes hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteNotFound(w, "Resource not found")
}

// writeInternalError logs err and writes a generic 500. The error text is
// only exposed in development.
func (h *Handler) writeInternalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)

	resp := ErrorResponse{Error: message}
	if h.opts.Development && err != nil {
		resp.Detail = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, resp)
}

// WriteServiceError maps a store or service error to its HTTP response.
// entity is the singular label used in messages ("page", "circular").
//
//   - no live row: 404
//   - slug or username collision: 400
//   - (year, month) collision: 409
//   - anything else: 500
func (h *Handler) WriteServiceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var fe fieldErrors
	switch {
	case err == nil:
		return
	case errors.As(err, &fe):
		WriteValidationError(w, fe)
	case store.IsNotFound(err):
		WriteNotFound(w, capitalizeFirst(entity)+" not found")
	case store.IsUniqueViolation(err):
		msg := err.Error()
		switch {
		case strings.Contains(msg, ".slug"):
			WriteBadRequest(w, slugTakenMessage(entity))
		case strings.Contains(msg, ".username"):
			WriteBadRequest(w, "Username is already taken")
		case strings.Contains(msg, ".year"), strings.Contains(msg, ".month"):
			WriteError(w, http.StatusConflict, periodTakenMessage(entity))
		default:
			WriteError(w, http.StatusConflict, capitalizeFirst(entity)+" already exists")
		}
	default:
		h.writeInternalError(w, r, "Failed to process "+entity, err)
	}
}

// fieldErrors carries validation failures through error returns.
type fieldErrors map[string]string

func (fe fieldErrors) Error() string {
	return "validation failed"
}

func slugTakenMessage(entity string) string {
	return "A " + entity + " with this slug already exists"
}

func periodTakenMessage(entity string) string {
	return "A " + entity + " for this month and year already exists"
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
