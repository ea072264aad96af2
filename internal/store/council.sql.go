// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"
)

const councilColumns = `id, name, title, dimension, commission, photo, email, bio,
	sort_order, is_active, created_at, updated_at, deleted_at`

func scanCouncilMember(row scanner) (CouncilMember, error) {
	var i CouncilMember
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Title,
		&i.Dimension,
		&i.Commission,
		&i.Photo,
		&i.Email,
		&i.Bio,
		&i.SortOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createCouncilMember = `INSERT INTO council_members (
	name, title, dimension, commission, photo, email, bio, sort_order, is_active, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + councilColumns

type CreateCouncilMemberParams struct {
	Name       string
	Title      string
	Dimension  string
	Commission string
	Photo      string
	Email      string
	Bio        string
	SortOrder  int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateCouncilMember(ctx context.Context, arg CreateCouncilMemberParams) (CouncilMember, error) {
	row := q.db.QueryRowContext(ctx, createCouncilMember,
		arg.Name,
		arg.Title,
		arg.Dimension,
		arg.Commission,
		arg.Photo,
		arg.Email,
		arg.Bio,
		arg.SortOrder,
		arg.IsActive,
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanCouncilMember(row)
}

const updateCouncilMember = `UPDATE council_members SET
	name = ?, title = ?, dimension = ?, commission = ?, photo = ?, email = ?, bio = ?,
	sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + councilColumns

type UpdateCouncilMemberParams struct {
	ID         int64
	Name       string
	Title      string
	Dimension  string
	Commission string
	Photo      string
	Email      string
	Bio        string
	SortOrder  int64
	IsActive   bool
	UpdatedAt  time.Time
}

func (q *Queries) UpdateCouncilMember(ctx context.Context, arg UpdateCouncilMemberParams) (CouncilMember, error) {
	row := q.db.QueryRowContext(ctx, updateCouncilMember,
		arg.Name,
		arg.Title,
		arg.Dimension,
		arg.Commission,
		arg.Photo,
		arg.Email,
		arg.Bio,
		arg.SortOrder,
		arg.IsActive,
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanCouncilMember(row)
}

func (q *Queries) GetCouncilMemberByID(ctx context.Context, id int64) (CouncilMember, error) {
	w := live().and("id = ?", id)
	return scanCouncilMember(q.db.QueryRowContext(ctx, selectLive(councilColumns, tableCouncil, w, ""), w.args...))
}

// CouncilFilter narrows council listings by facet. Matching is exact string equality.
type CouncilFilter struct {
	ActiveOnly bool
	Dimension  string
	Commission string
	Title      string
}

func (f CouncilFilter) where() *where {
	return live().
		andIf(f.ActiveOnly, "is_active = 1").
		andIf(f.Dimension != "", "dimension = ?", f.Dimension).
		andIf(f.Commission != "", "commission = ?", f.Commission).
		andIf(f.Title != "", "title = ?", f.Title)
}

func (q *Queries) ListCouncilMembers(ctx context.Context, f CouncilFilter, p Paging) ([]CouncilMember, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(councilColumns, tableCouncil, w, "sort_order ASC, name ASC, id ASC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCouncilMember)
}

func (q *Queries) CountCouncilMembers(ctx context.Context, f CouncilFilter) (int64, error) {
	return q.countLive(ctx, tableCouncil, f.where())
}

func (q *Queries) SoftDeleteCouncilMember(ctx context.Context, id int64, now time.Time) error {
	return q.softDelete(ctx, tableCouncil, id, now)
}

// CouncilFacets holds the distinct grouping values present among live members.
type CouncilFacets struct {
	Dimensions  []string
	Commissions []string
	Titles      []string
}

func (q *Queries) ListCouncilFacets(ctx context.Context, activeOnly bool) (CouncilFacets, error) {
	var facets CouncilFacets
	var err error
	if facets.Dimensions, err = q.distinctLive(ctx, tableCouncil, "dimension", activeOnly); err != nil {
		return facets, err
	}
	if facets.Commissions, err = q.distinctLive(ctx, tableCouncil, "commission", activeOnly); err != nil {
		return facets, err
	}
	if facets.Titles, err = q.distinctLive(ctx, tableCouncil, "title", activeOnly); err != nil {
		return facets, err
	}
	return facets, nil
}

// distinctLive returns the sorted non-empty values of column across live rows.
func (q *Queries) distinctLive(ctx context.Context, table, column string, activeOnly bool) ([]string, error) {
	w := live().and(column+" <> ''").andIf(activeOnly, "is_active = 1")
	rows, err := q.db.QueryContext(ctx,
		"SELECT DISTINCT "+column+" FROM "+table+w.String()+" ORDER BY "+column, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s.%s: %w", table, column, err)
	}
	return collect(rows, func(s scanner) (string, error) {
		var v string
		err := s.Scan(&v)
		return v, err
	})
}
