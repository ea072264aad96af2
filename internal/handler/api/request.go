// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/instcms/internal/handler"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/util"
	"github.com/olegiv/instcms/internal/validation"
)

// maxJSONBody bounds request bodies of every JSON endpoint.
const maxJSONBody = 1 << 20

// decodeJSON reads the request body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is empty")
		default:
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}

	if fields := validation.Struct(dst); len(fields) > 0 {
		WriteValidationError(w, fields)
		return false
	}
	return true
}

// page resolves page and limit for a list request.
func (h *Handler) page(r *http.Request) (page, limit int, offset int64) {
	page = handler.ParsePageParam(r)
	limit = handler.ParseLimitParam(r, h.opts.DefaultLimit, h.opts.MaxLimit)
	return page, limit, int64(page-1) * int64(limit)
}

func pagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: handler.TotalPages(total, limit),
	}
}

// pathID reads the numeric id of the addressed record. A missing or
// malformed id is a 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid ID")
		return 0, false
	}
	return id, true
}

// slugOrID reads {slug} from the path, or ?slug= / ?id= for script routes.
// Exactly one of the results is set.
func slugOrID(r *http.Request) (slug string, id int64) {
	if s := chi.URLParam(r, "slug"); s != "" {
		return s, 0
	}
	if s := r.URL.Query().Get("slug"); s != "" {
		return s, 0
	}
	id, _ = handler.ParseIDParam(r)
	return "", id
}

// queryInt reads a positive integer query parameter, 0 when absent or invalid.
func queryInt(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// authedFunc is a handler that runs for a signed-in user.
type authedFunc func(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser)

// authed passes the user loaded by middleware.LoadUser to fn. Routes using it
// sit behind RequireAuth, so a missing user only happens on misconfiguration.
func authed(fn authedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		fn(w, r, user)
	}
}

// record writes an audit entry for a request made by user.
func (h *Handler) record(r *http.Request, user middleware.AuthenticatedUser, e service.AuditEvent) {
	if h.audit == nil {
		return
	}
	e.UserID = user.ID
	e.IP = middleware.ClientIP(r)
	e.URL = r.URL.RequestURI()
	e.UserAgent = r.UserAgent()
	// Failures are logged by the audit service and never fail the request.
	_ = h.audit.Record(r.Context(), e)
}

// recordContent is the common audit entry of a content mutation.
func (h *Handler) recordContent(r *http.Request, user middleware.AuthenticatedUser, action, entity string, id int64, label string) {
	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategoryContent,
		Action:     action,
		EntityType: entity,
		EntityID:   id,
		Message:    capitalizeFirst(strings.ReplaceAll(entity, "_", " ")) + " " + pastTense(action) + ": " + label,
	})
}

func pastTense(action string) string {
	switch action {
	case model.ActionCreate:
		return "created"
	case model.ActionUpdate:
		return "updated"
	case model.ActionDelete:
		return "deleted"
	default:
		return action
	}
}

// Accepted layouts for date and time input.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime parses s with the first matching layout. Values without a zone
// are read as UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid time")
}

// nullTime converts an optional time field. nil and "" yield a null time;
// on updates handlers only call it for fields present in the body, so ""
// clears the stored value. An unparsable value is added to fe under field.
func nullTime(fe fieldErrors, field string, s *string) sql.NullTime {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullTime{}
	}
	t, err := parseTime(*s)
	if err != nil {
		fe[field] = capitalizeFirst(strings.ReplaceAll(field, "_", " ")) + " must be a date (YYYY-MM-DD) or RFC 3339 time"
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// set assigns *src to dst when the field was present in the request.
func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// boolOr returns *b or def when absent.
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// slugFor returns the slug to store. An explicit slug must be free; an
// empty one is derived from title and made unique.
func (h *Handler) slugFor(ctx context.Context, entity, explicit, title, fallback string, excludeID int64,
	exists func(ctx context.Context, slug string, excludeID int64) (bool, error)) (string, error) {
	if explicit != "" {
		taken, err := exists(ctx, explicit, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fieldErrors{"slug": slugTakenMessage(entity)}
		}
		return explicit, nil
	}
	return util.UniqueSlug(title, fallback, h.now(), func(s string) (bool, error) {
		return exists(ctx, s, excludeID)
	})
}
