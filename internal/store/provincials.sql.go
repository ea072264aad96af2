// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const provincialColumns = `id, name, title, province, photo, email, phone, bio,
	sort_order, is_active, created_at, updated_at, deleted_at`

func scanProvincial(row scanner) (Provincial, error) {
	var i Provincial
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Title,
		&i.Province,
		&i.Photo,
		&i.Email,
		&i.Phone,
		&i.Bio,
		&i.SortOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createProvincial = `INSERT INTO provincials (
	name, title, province, photo, email, phone, bio, sort_order, is_active, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + provincialColumns

type CreateProvincialParams struct {
	Name      string
	Title     string
	Province  string
	Photo     string
	Email     string
	Phone     string
	Bio       string
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateProvincial(ctx context.Context, arg CreateProvincialParams) (Provincial, error) {
	row := q.db.QueryRowContext(ctx, createProvincial,
		arg.Name,
		arg.Title,
		arg.Province,
		arg.Photo,
		arg.Email,
		arg.Phone,
		arg.Bio,
		arg.SortOrder,
		arg.IsActive,
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanProvincial(row)
}

const updateProvincial = `UPDATE provincials SET
	name = ?, title = ?, province = ?, photo = ?, email = ?, phone = ?, bio = ?,
	sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + provincialColumns

type UpdateProvincialParams struct {
	ID        int64
	Name      string
	Title     string
	Province  string
	Photo     string
	Email     string
	Phone     string
	Bio       string
	SortOrder int64
	IsActive  bool
	UpdatedAt time.Time
}

func (q *Queries) UpdateProvincial(ctx context.Context, arg UpdateProvincialParams) (Provincial, error) {
	row := q.db.QueryRowContext(ctx, updateProvincial,
		arg.Name,
		arg.Title,
		arg.Province,
		arg.Photo,
		arg.Email,
		arg.Phone,
		arg.Bio,
		arg.SortOrder,
		arg.IsActive,
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanProvincial(row)
}

func (q *Queries) GetProvincialByID(ctx context.Context, id int64) (Provincial, error) {
	w := live().and("id = ?", id)
	return scanProvincial(q.db.QueryRowContext(ctx, selectLive(provincialColumns, tableProvincials, w, ""), w.args...))
}

// ProvincialFilter narrows provincial listings.
type ProvincialFilter struct {
	ActiveOnly bool
	Province   string
	Title      string
}

func (f ProvincialFilter) where() *where {
	return live().
		andIf(f.ActiveOnly, "is_active = 1").
		andIf(f.Province != "", "province = ?", f.Province).
		andIf(f.Title != "", "title = ?", f.Title)
}

func (q *Queries) ListProvincials(ctx context.Context, f ProvincialFilter, p Paging) ([]Provincial, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(provincialColumns, tableProvincials, w, "province ASC, sort_order ASC, name ASC, id ASC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProvincial)
}

func (q *Queries) CountProvincials(ctx context.Context, f ProvincialFilter) (int64, error) {
	return q.countLive(ctx, tableProvincials, f.where())
}

func (q *Queries) ListProvinces(ctx context.Context, activeOnly bool) ([]string, error) {
	return q.distinctLive(ctx, tableProvincials, "province", activeOnly)
}

func (q *Queries) SoftDeleteProvincial(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tableProvincials, id, now)
}
