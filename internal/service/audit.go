// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/instcms/internal/geoip"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
)

// AuditEvent describes one entry for the audit log.
type AuditEvent struct {
	Level      string // defaults to info
	Category   string
	Action     string
	EntityType string
	EntityID   int64 // 0 when the event has no entity
	Message    string
	UserID     int64 // 0 for anonymous events such as failed logins
	IP         string
	URL        string
	UserAgent  string
	Metadata   map[string]any
}

// AuditService writes and purges audit entries.
type AuditService struct {
	queries *store.Queries
	geo     *geoip.Locator
	now     func() time.Time
}

// NewAuditService creates an AuditService. geo may be nil.
func NewAuditService(db *sql.DB, geo *geoip.Locator) *AuditService {
	return &AuditService{
		queries: store.New(db),
		geo:     geo,
		now:     time.Now,
	}
}

// Record stores e. Failures are logged and returned; callers treat them as
// non-fatal because the audited write has already committed.
func (s *AuditService) Record(ctx context.Context, e AuditEvent) error {
	if e.Level == "" {
		e.Level = model.EventLevelInfo
	}

	meta := make(map[string]any, len(e.Metadata)+4)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	if e.UserAgent != "" {
		c := describeClient(e.UserAgent)
		meta["browser"] = c.Browser
		meta["os"] = c.OS
		meta["device"] = c.Device
	}
	if s.geo != nil && e.IP != "" {
		if cc := s.geo.Country(e.IP); cc != "" {
			meta["country"] = cc
		}
	}

	metaJSON := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = string(b)
		}
	}

	_, err := s.queries.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:      e.Level,
		Category:   e.Category,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   sql.NullInt64{Int64: e.EntityID, Valid: e.EntityID > 0},
		Message:    e.Message,
		UserID:     sql.NullInt64{Int64: e.UserID, Valid: e.UserID > 0},
		IpAddress:  e.IP,
		RequestUrl: e.URL,
		Metadata:   metaJSON,
		CreatedAt:  s.now(),
	})
	if err != nil {
		slog.Error("failed to write audit entry",
			"action", e.Action, "entity_type", e.EntityType, "error", err)
		return err
	}
	return nil
}

// Purge deletes entries older than retention and returns how many went.
func (s *AuditService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeleteAuditEntriesBefore(ctx, s.now().Add(-retention))
}

// ClientInfo is the parsed User-Agent stored in audit metadata.
type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

func describeClient(ua string) ClientInfo {
	parsed := useragent.Parse(ua)
	info := ClientInfo{Browser: parsed.Name, OS: parsed.OS}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}
	switch {
	case parsed.Bot:
		info.Device = "bot"
	case parsed.Tablet:
		info.Device = "tablet"
	case parsed.Mobile:
		info.Device = "mobile"
	default:
		info.Device = "desktop"
	}
	return info
}
