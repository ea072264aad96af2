// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const galleryColumns = `id, title, slug, description, image, thumbnail, album, sort_order,
	is_featured, is_active, taken_at, created_at, updated_at, deleted_at`

func scanGalleryItem(row scanner) (GalleryItem, error) {
	var i GalleryItem
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.Image,
		&i.Thumbnail,
		&i.Album,
		&i.SortOrder,
		&i.IsFeatured,
		&i.IsActive,
		&i.TakenAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createGalleryItem = `INSERT INTO gallery_items (
	title, slug, description, image, thumbnail, album, sort_order, is_featured, is_active,
	taken_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + galleryColumns

type CreateGalleryItemParams struct {
	Title       string
	Slug        string
	Description string
	Image       string
	Thumbnail   string
	Album       string
	SortOrder   int64
	IsFeatured  bool
	IsActive    bool
	TakenAt     sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateGalleryItem(ctx context.Context, arg CreateGalleryItemParams) (GalleryItem, error) {
	row := q.db.QueryRowContext(ctx, createGalleryItem,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Image,
		arg.Thumbnail,
		arg.Album,
		arg.SortOrder,
		arg.IsFeatured,
		arg.IsActive,
		nullTimeUTC(arg.TakenAt),
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanGalleryItem(row)
}

const updateGalleryItem = `UPDATE gallery_items SET
	title = ?, slug = ?, description = ?, image = ?, thumbnail = ?, album = ?, sort_order = ?,
	is_featured = ?, is_active = ?, taken_at = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + galleryColumns

type UpdateGalleryItemParams struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Image       string
	Thumbnail   string
	Album       string
	SortOrder   int64
	IsFeatured  bool
	IsActive    bool
	TakenAt     sql.NullTime
	UpdatedAt   time.Time
}

func (q *Queries) UpdateGalleryItem(ctx context.Context, arg UpdateGalleryItemParams) (GalleryItem, error) {
	row := q.db.QueryRowContext(ctx, updateGalleryItem,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Image,
		arg.Thumbnail,
		arg.Album,
		arg.SortOrder,
		arg.IsFeatured,
		arg.IsActive,
		nullTimeUTC(arg.TakenAt),
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanGalleryItem(row)
}

func (q *Queries) GetGalleryItemByID(ctx context.Context, id int64) (GalleryItem, error) {
	w := live().and("id = ?", id)
	return scanGalleryItem(q.db.QueryRowContext(ctx, selectLive(galleryColumns, tableGallery, w, ""), w.args...))
}

func (q *Queries) GetGalleryItemBySlug(ctx context.Context, slug string) (GalleryItem, error) {
	w := live().and("slug = ?", slug)
	return scanGalleryItem(q.db.QueryRowContext(ctx, selectLive(galleryColumns, tableGallery, w, ""), w.args...))
}

// GalleryFilter narrows gallery listings.
type GalleryFilter struct {
	ActiveOnly bool
	Album      string
	Featured   sql.NullBool
}

func (f GalleryFilter) where() *where {
	return live().
		andIf(f.ActiveOnly, "is_active = 1").
		andIf(f.Album != "", "album = ?", f.Album).
		andIf(f.Featured.Valid, "is_featured = ?", f.Featured.Bool)
}

func (q *Queries) ListGalleryItems(ctx context.Context, f GalleryFilter, p Paging) ([]GalleryItem, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(galleryColumns, tableGallery, w, "sort_order ASC, created_at DESC, id DESC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGalleryItem)
}

func (q *Queries) CountGalleryItems(ctx context.Context, f GalleryFilter) (int64, error) {
	return q.countLive(ctx, tableGallery, f.where())
}

func (q *Queries) ListGalleryAlbums(ctx context.Context, activeOnly bool) ([]string, error) {
	return q.distinctLive(ctx, tableGallery, "album", activeOnly)
}

func (q *Queries) GallerySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return q.slugTaken(ctx, tableGallery, slug, excludeID)
}

func (q *Queries) SoftDeleteGalleryItem(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tableGallery, id, now)
}
