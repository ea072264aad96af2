// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, content, excerpt, meta_title, meta_description, featured_image,
	menu_label, menu_position, parent_menu, is_submenu, is_enabled, is_featured, show_in_menu,
	sort_order, created_at, updated_at, deleted_at`

func scanPage(row scanner) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.Excerpt,
		&i.MetaTitle,
		&i.MetaDescription,
		&i.FeaturedImage,
		&i.MenuLabel,
		&i.MenuPosition,
		&i.ParentMenu,
		&i.IsSubmenu,
		&i.IsEnabled,
		&i.IsFeatured,
		&i.ShowInMenu,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createPage = `INSERT INTO pages (
	title, slug, content, excerpt, meta_title, meta_description, featured_image,
	menu_label, menu_position, parent_menu, is_submenu, is_enabled, is_featured, show_in_menu,
	sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	FeaturedImage   string
	MenuLabel       sql.NullString
	MenuPosition    int64
	ParentMenu      sql.NullString
	IsSubmenu       bool
	IsEnabled       bool
	IsFeatured      bool
	ShowInMenu      bool
	SortOrder       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.MetaTitle,
		arg.MetaDescription,
		arg.FeaturedImage,
		arg.MenuLabel,
		arg.MenuPosition,
		arg.ParentMenu,
		arg.IsSubmenu,
		arg.IsEnabled,
		arg.IsFeatured,
		arg.ShowInMenu,
		arg.SortOrder,
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanPage(row)
}

const updatePage = `UPDATE pages SET
	title = ?, slug = ?, content = ?, excerpt = ?, meta_title = ?, meta_description = ?,
	featured_image = ?, menu_label = ?, menu_position = ?, parent_menu = ?, is_submenu = ?,
	is_enabled = ?, is_featured = ?, show_in_menu = ?, sort_order = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + pageColumns

type UpdatePageParams struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	FeaturedImage   string
	MenuLabel       sql.NullString
	MenuPosition    int64
	ParentMenu      sql.NullString
	IsSubmenu       bool
	IsEnabled       bool
	IsFeatured      bool
	ShowInMenu      bool
	SortOrder       int64
	UpdatedAt       time.Time
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.MetaTitle,
		arg.MetaDescription,
		arg.FeaturedImage,
		arg.MenuLabel,
		arg.MenuPosition,
		arg.ParentMenu,
		arg.IsSubmenu,
		arg.IsEnabled,
		arg.IsFeatured,
		arg.ShowInMenu,
		arg.SortOrder,
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanPage(row)
}

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	w := live().and("id = ?", id)
	return scanPage(q.db.QueryRowContext(ctx, selectLive(pageColumns, tablePages, w, ""), w.args...))
}

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	w := live().and("slug = ?", slug)
	return scanPage(q.db.QueryRowContext(ctx, selectLive(pageColumns, tablePages, w, ""), w.args...))
}

// PageFilter narrows page listings. Zero values do not filter.
type PageFilter struct {
	EnabledOnly bool
	Featured    sql.NullBool
	ParentMenu  string
	Search      string
}

func (f PageFilter) where() *where {
	return live().
		andIf(f.EnabledOnly, "is_enabled = 1").
		andIf(f.Featured.Valid, "is_featured = ?", f.Featured.Bool).
		andIf(f.ParentMenu != "", "parent_menu = ?", f.ParentMenu).
		andIf(f.Search != "", "(title LIKE ? OR content LIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
}

func (q *Queries) ListPages(ctx context.Context, f PageFilter, p Paging) ([]Page, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(pageColumns, tablePages, w, "sort_order ASC, menu_position ASC, id ASC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPage)
}

func (q *Queries) CountPages(ctx context.Context, f PageFilter) (int64, error) {
	return q.countLive(ctx, tablePages, f.where())
}

// ListMenuPages returns live, enabled pages flagged for navigation.
func (q *Queries) ListMenuPages(ctx context.Context) ([]Page, error) {
	w := live().and("is_enabled = 1").and("show_in_menu = 1")
	rows, err := q.db.QueryContext(ctx,
		selectLive(pageColumns, tablePages, w, "sort_order ASC, menu_position ASC, id ASC"),
		w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPage)
}

func (q *Queries) PageSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return q.slugTaken(ctx, tablePages, slug, excludeID)
}

func (q *Queries) SoftDeletePage(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tablePages, id, now)
}
