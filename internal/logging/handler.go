// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the process logger and a slog handler that copies
// WARN and ERROR records into the audit log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
)

// AuditLogHandler wraps another handler and persists records at or above
// its level as audit entries with category "system" unless the record
// carries a "category" attribute.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
	group   string
}

// NewAuditLogHandler forwards WARN and above to the audit table.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return NewAuditLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewAuditLogHandlerWithLevel is NewAuditLogHandler with a custom threshold.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return &c
}

// persist writes r with a background context so a cancelled request still
// leaves its warning behind. Write errors are dropped; logging them here
// would recurse.
func (h *AuditLogHandler) persist(r slog.Record) {
	category := model.EventCategorySystem
	meta := make(map[string]string)

	collect := func(a slog.Attr) {
		if a.Key == "category" {
			category = a.Value.String()
			return
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		meta[key] = a.Value.String()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	metaJSON := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = string(b)
		}
	}

	created := r.Time
	if created.IsZero() {
		created = time.Now()
	}

	_, _ = h.queries.CreateAuditEntry(context.Background(), store.CreateAuditEntryParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Action:    "log",
		Message:   r.Message,
		Metadata:  metaJSON,
		CreatedAt: created,
	})
}

func eventLevel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return model.EventLevelError
	case l >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewBaseHandler returns a text handler in development and JSON otherwise.
func NewBaseHandler(w io.Writer, level slog.Level, development bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if development {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
