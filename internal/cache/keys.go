// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
)

// Keys for cached public views.
const (
	KeyMenu           = "menu"
	KeySettingsPublic = "settings:public"
	prefixArchive     = "archive:"
)

// ArchiveKey is the key of the archive for a publication table.
func ArchiveKey(kind string) string {
	return prefixArchive + kind
}

// Invalidate removes keys from c, logging rather than returning failures so
// a flaky cache never fails a write that already committed.
func Invalidate(ctx context.Context, c Cacher, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		if err := c.Delete(ctx, k); err != nil {
			slog.Warn("cache invalidation failed", "key", k, "error", err)
		}
	}
}
