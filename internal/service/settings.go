// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/store"
)

// SettingsService serves the public key/value settings.
type SettingsService struct {
	queries *store.Queries
	cache   *cache.TypedCache[map[string]string]
	backend cache.Cacher
}

// NewSettingsService creates a SettingsService. c may be nil.
func NewSettingsService(db *sql.DB, c cache.Cacher, ttlSeconds int) *SettingsService {
	return &SettingsService{
		queries: store.New(db),
		cache:   cache.NewTypedCache[map[string]string](c, secondsToDuration(ttlSeconds)),
		backend: c,
	}
}

// Public returns every setting flagged is_public.
func (s *SettingsService) Public(ctx context.Context) (map[string]string, error) {
	m, err := s.cache.GetOrSet(ctx, cache.KeySettingsPublic, func() (*map[string]string, error) {
		rows, err := s.queries.ListSettings(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("listing public settings: %w", err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Key] = r.Value
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return *m, nil
}

// Invalidate drops the cached public settings.
func (s *SettingsService) Invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.backend, cache.KeySettingsPublic)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
