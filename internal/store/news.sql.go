// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const newsColumns = `id, title, slug, content, excerpt, featured_image, event_date,
	is_featured, is_published, published_at, created_at, updated_at, deleted_at`

func scanNews(row scanner) (News, error) {
	var i News
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.Excerpt,
		&i.FeaturedImage,
		&i.EventDate,
		&i.IsFeatured,
		&i.IsPublished,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createNews = `INSERT INTO news (
	title, slug, content, excerpt, featured_image, event_date,
	is_featured, is_published, published_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + newsColumns

type CreateNewsParams struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	EventDate     sql.NullTime
	IsFeatured    bool
	IsPublished   bool
	PublishedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx, createNews,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.FeaturedImage,
		nullTimeUTC(arg.EventDate),
		arg.IsFeatured,
		arg.IsPublished,
		nullTimeUTC(arg.PublishedAt),
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanNews(row)
}

const updateNews = `UPDATE news SET
	title = ?, slug = ?, content = ?, excerpt = ?, featured_image = ?, event_date = ?,
	is_featured = ?, is_published = ?, published_at = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + newsColumns

type UpdateNewsParams struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	EventDate     sql.NullTime
	IsFeatured    bool
	IsPublished   bool
	PublishedAt   sql.NullTime
	UpdatedAt     time.Time
}

func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx, updateNews,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.FeaturedImage,
		nullTimeUTC(arg.EventDate),
		arg.IsFeatured,
		arg.IsPublished,
		nullTimeUTC(arg.PublishedAt),
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanNews(row)
}

func (q *Queries) GetNewsByID(ctx context.Context, id int64) (News, error) {
	w := live().and("id = ?", id)
	return scanNews(q.db.QueryRowContext(ctx, selectLive(newsColumns, tableNews, w, ""), w.args...))
}

func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (News, error) {
	w := live().and("slug = ?", slug)
	return scanNews(q.db.QueryRowContext(ctx, selectLive(newsColumns, tableNews, w, ""), w.args...))
}

// NewsFilter narrows news listings. Zero values do not filter.
type NewsFilter struct {
	// VisibleAt restricts to items published at or before this instant.
	VisibleAt time.Time
	Featured  sql.NullBool
	Published sql.NullBool
	// From and To bound COALESCE(published_at, created_at) as [From, To).
	From   time.Time
	To     time.Time
	Search string
}

func (f NewsFilter) where() *where {
	return live().
		andIf(!f.VisibleAt.IsZero(), "is_published = 1 AND published_at IS NOT NULL AND published_at <= ?", utc(f.VisibleAt)).
		andIf(f.Featured.Valid, "is_featured = ?", f.Featured.Bool).
		andIf(f.Published.Valid, "is_published = ?", f.Published.Bool).
		andIf(!f.From.IsZero(), "COALESCE(published_at, created_at) >= ?", utc(f.From)).
		andIf(!f.To.IsZero(), "COALESCE(published_at, created_at) < ?", utc(f.To)).
		andIf(f.Search != "", "(title LIKE ? OR excerpt LIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
}

func (q *Queries) ListNews(ctx context.Context, f NewsFilter, p Paging) ([]News, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(newsColumns, tableNews, w, "COALESCE(published_at, created_at) DESC, id DESC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNews)
}

func (q *Queries) CountNews(ctx context.Context, f NewsFilter) (int64, error) {
	return q.countLive(ctx, tableNews, f.where())
}

func (q *Queries) NewsSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return q.slugTaken(ctx, tableNews, slug, excludeID)
}

func (q *Queries) SoftDeleteNews(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tableNews, id, now)
}
