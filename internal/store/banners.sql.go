// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const bannerColumns = `id, type, title, subtitle, image, link_url, link_text, content,
	sort_order, is_active, starts_at, ends_at, created_at, updated_at, deleted_at`

func scanBanner(row scanner) (Banner, error) {
	var i Banner
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Title,
		&i.Subtitle,
		&i.Image,
		&i.LinkUrl,
		&i.LinkText,
		&i.Content,
		&i.SortOrder,
		&i.IsActive,
		&i.StartsAt,
		&i.EndsAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createBanner = `INSERT INTO banners (
	type, title, subtitle, image, link_url, link_text, content,
	sort_order, is_active, starts_at, ends_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + bannerColumns

type CreateBannerParams struct {
	Type      string
	Title     string
	Subtitle  string
	Image     string
	LinkUrl   string
	LinkText  string
	Content   string
	SortOrder int64
	IsActive  bool
	StartsAt  sql.NullTime
	EndsAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateBanner(ctx context.Context, arg CreateBannerParams) (Banner, error) {
	row := q.db.QueryRowContext(ctx, createBanner,
		arg.Type,
		arg.Title,
		arg.Subtitle,
		arg.Image,
		arg.LinkUrl,
		arg.LinkText,
		arg.Content,
		arg.SortOrder,
		arg.IsActive,
		nullTimeUTC(arg.StartsAt),
		nullTimeUTC(arg.EndsAt),
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanBanner(row)
}

const updateBanner = `UPDATE banners SET
	type = ?, title = ?, subtitle = ?, image = ?, link_url = ?, link_text = ?, content = ?,
	sort_order = ?, is_active = ?, starts_at = ?, ends_at = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + bannerColumns

type UpdateBannerParams struct {
	ID        int64
	Type      string
	Title     string
	Subtitle  string
	Image     string
	LinkUrl   string
	LinkText  string
	Content   string
	SortOrder int64
	IsActive  bool
	StartsAt  sql.NullTime
	EndsAt    sql.NullTime
	UpdatedAt time.Time
}

func (q *Queries) UpdateBanner(ctx context.Context, arg UpdateBannerParams) (Banner, error) {
	row := q.db.QueryRowContext(ctx, updateBanner,
		arg.Type,
		arg.Title,
		arg.Subtitle,
		arg.Image,
		arg.LinkUrl,
		arg.LinkText,
		arg.Content,
		arg.SortOrder,
		arg.IsActive,
		nullTimeUTC(arg.StartsAt),
		nullTimeUTC(arg.EndsAt),
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanBanner(row)
}

func (q *Queries) GetBannerByID(ctx context.Context, id int64) (Banner, error) {
	w := live().and("id = ?", id)
	return scanBanner(q.db.QueryRowContext(ctx, selectLive(bannerColumns, tableBanners, w, ""), w.args...))
}

// BannerFilter narrows banner listings. Zero values do not filter.
type BannerFilter struct {
	Type string
	// ActiveAt restricts to active banners whose schedule window contains this instant.
	ActiveAt time.Time
}

func (f BannerFilter) where() *where {
	at := utc(f.ActiveAt)
	return live().
		andIf(f.Type != "", "type = ?", f.Type).
		andIf(!f.ActiveAt.IsZero(),
			"is_active = 1 AND (starts_at IS NULL OR starts_at <= ?) AND (ends_at IS NULL OR ends_at > ?)", at, at)
}

func (q *Queries) ListBanners(ctx context.Context, f BannerFilter, p Paging) ([]Banner, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(bannerColumns, tableBanners, w, "type ASC, sort_order ASC, id ASC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBanner)
}

func (q *Queries) CountBanners(ctx context.Context, f BannerFilter) (int64, error) {
	return q.countLive(ctx, tableBanners, f.where())
}

func (q *Queries) SoftDeleteBanner(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tableBanners, id, now)
}
