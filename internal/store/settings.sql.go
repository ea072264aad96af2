// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

func scanSetting(row scanner) (Setting, error) {
	var i Setting
	err := row.Scan(&i.Key, &i.Value, &i.IsPublic, &i.UpdatedAt)
	return i, err
}

const listSettings = `SELECT key, value, is_public, updated_at FROM settings ORDER BY key`

const listPublicSettings = `SELECT key, value, is_public, updated_at FROM settings WHERE is_public = 1 ORDER BY key`

func (q *Queries) ListSettings(ctx context.Context, publicOnly bool) ([]Setting, error) {
	query := listSettings
	if publicOnly {
		query = listPublicSettings
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSetting)
}

const getSetting = `SELECT key, value, is_public, updated_at FROM settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (Setting, error) {
	return scanSetting(q.db.QueryRowContext(ctx, getSetting, key))
}

// upsertSetting keeps the visibility of existing keys; new keys start private
// unless IsPublic is set.
const upsertSetting = `INSERT INTO settings (key, value, is_public, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
RETURNING key, value, is_public, updated_at`

type UpsertSettingParams struct {
	Key       string
	Value     string
	IsPublic  bool
	UpdatedAt time.Time
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (Setting, error) {
	return scanSetting(q.db.QueryRowContext(ctx, upsertSetting, arg.Key, arg.Value, arg.IsPublic, utc(arg.UpdatedAt)))
}

const deleteSetting = `DELETE FROM settings WHERE key = ?`

func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteSetting, key)
	return err
}
