// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/testutil"
)

func TestSettingsService_Public(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	svc := NewSettingsService(db, mem, 60)

	got, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "site_name")
	assert.NotContains(t, got, "maintenance_notice")

	_, err = store.New(db).UpsertSetting(ctx, store.UpsertSettingParams{
		Key: "site_name", Value: "Renamed", IsPublic: true, UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	cached, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, got["site_name"], cached["site_name"])

	svc.Invalidate(ctx)
	fresh, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh["site_name"])
}
