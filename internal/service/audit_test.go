// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instcms/internal/geoip"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/testutil"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestAuditService_Record(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "editor1", "password123", model.RoleEditor)

	geo, err := geoip.Open("")
	require.NoError(t, err)
	svc := NewAuditService(db, geo)

	err = svc.Record(ctx, AuditEvent{
		Category:   model.EventCategoryContent,
		Action:     model.ActionCreate,
		EntityType: model.EntityPage,
		EntityID:   42,
		Message:    "Page created",
		UserID:     user.ID,
		IP:         "127.0.0.1",
		URL:        "/api/admin/pages",
		UserAgent:  chromeUA,
		Metadata:   map[string]any{"slug": "our-vision"},
	})
	require.NoError(t, err)

	entries, err := store.New(db).ListAuditEntries(ctx, store.AuditFilter{EntityType: model.EntityPage}, store.Paging{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, model.EventLevelInfo, e.Level)
	assert.Equal(t, int64(42), e.EntityID.Int64)
	assert.Equal(t, user.ID, e.UserID.Int64)
	assert.Equal(t, "/api/admin/pages", e.RequestUrl)

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Metadata), &meta))
	assert.Equal(t, "our-vision", meta["slug"])
	assert.Equal(t, "Chrome", meta["browser"])
	assert.Equal(t, "desktop", meta["device"])
	assert.Equal(t, geoip.CodeLocal, meta["country"])
}

func TestAuditService_AnonymousEvent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	svc := NewAuditService(db, nil)
	require.NoError(t, svc.Record(ctx, AuditEvent{
		Level:    model.EventLevelWarning,
		Category: model.EventCategoryAuth,
		Action:   model.ActionLoginFailed,
		Message:  "Failed login for unknown user",
	}))

	entries, err := store.New(db).ListAuditEntries(ctx, store.AuditFilter{}, store.Paging{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].UserID.Valid)
	assert.False(t, entries[0].EntityID.Valid)
	assert.Equal(t, "{}", entries[0].Metadata)
}

func TestAuditService_Purge(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	svc := NewAuditService(db, nil)
	svc.now = func() time.Time { return time.Now().AddDate(0, 0, -200) }
	require.NoError(t, svc.Record(ctx, AuditEvent{Category: model.EventCategorySystem, Action: "old"}))
	svc.now = time.Now
	require.NoError(t, svc.Record(ctx, AuditEvent{Category: model.EventCategorySystem, Action: "new"}))

	n, err := svc.Purge(ctx, 180*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDescribeClient(t *testing.T) {
	tests := []struct {
		ua     string
		device string
	}{
		{chromeUA, "desktop"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile"},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", "bot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.device, describeClient(tt.ua).Device, tt.ua)
	}
	assert.Equal(t, "Unknown", describeClient("").Browser)
}
