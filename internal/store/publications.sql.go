// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/instcms/internal/model"
)

// Circulars and NewsLine issues share one row shape; every query takes the
// publication kind and resolves the table from it.

const publicationColumns = `id, title, month, year, file_path, description, is_active,
	created_at, updated_at, deleted_at`

func scanPublication(row scanner) (Publication, error) {
	var i Publication
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Month,
		&i.Year,
		&i.FilePath,
		&i.Description,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

type CreatePublicationParams struct {
	Title       string
	Month       int64
	Year        int64
	FilePath    string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreatePublication(ctx context.Context, kind model.PublicationKind, arg CreatePublicationParams) (Publication, error) {
	query := `INSERT INTO ` + kind.Table() + ` (
	title, month, year, file_path, description, is_active, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + publicationColumns
	row := q.db.QueryRowContext(ctx, query,
		arg.Title,
		arg.Month,
		arg.Year,
		arg.FilePath,
		arg.Description,
		arg.IsActive,
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanPublication(row)
}

type UpdatePublicationParams struct {
	ID          int64
	Title       string
	Month       int64
	Year        int64
	FilePath    string
	Description string
	IsActive    bool
	UpdatedAt   time.Time
}

func (q *Queries) UpdatePublication(ctx context.Context, kind model.PublicationKind, arg UpdatePublicationParams) (Publication, error) {
	query := `UPDATE ` + kind.Table() + ` SET
	title = ?, month = ?, year = ?, file_path = ?, description = ?, is_active = ?, updated_at = ?
WHERE id = ? AND ` + liveRows + `
RETURNING ` + publicationColumns
	row := q.db.QueryRowContext(ctx, query,
		arg.Title,
		arg.Month,
		arg.Year,
		arg.FilePath,
		arg.Description,
		arg.IsActive,
		utc(arg.UpdatedAt),
		arg.ID,
	)
	return scanPublication(row)
}

func (q *Queries) GetPublicationByID(ctx context.Context, kind model.PublicationKind, id int64) (Publication, error) {
	w := live().and("id = ?", id)
	return scanPublication(q.db.QueryRowContext(ctx, selectLive(publicationColumns, kind.Table(), w, ""), w.args...))
}

// PublicationFilter narrows publication listings. Zero values do not filter.
type PublicationFilter struct {
	ActiveOnly bool
	Year       int64
	Month      int64
}

func (f PublicationFilter) where() *where {
	return live().
		andIf(f.ActiveOnly, "is_active = 1").
		andIf(f.Year > 0, "year = ?", f.Year).
		andIf(f.Month > 0, "month = ?", f.Month)
}

func (q *Queries) ListPublications(ctx context.Context, kind model.PublicationKind, f PublicationFilter, p Paging) ([]Publication, error) {
	w := f.where()
	rows, err := q.db.QueryContext(ctx,
		selectLive(publicationColumns, kind.Table(), w, "year DESC, month DESC, id DESC")+pagingClause,
		p.args(w)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPublication)
}

func (q *Queries) CountPublications(ctx context.Context, kind model.PublicationKind, f PublicationFilter) (int64, error) {
	return q.countLive(ctx, kind.Table(), f.where())
}

// PublicationPeriodExists reports whether a live row already covers (year, month).
// excludeID skips the row being updated; pass 0 on create.
func (q *Queries) PublicationPeriodExists(ctx context.Context, kind model.PublicationKind, year, month, excludeID int64) (bool, error) {
	w := live().and("year = ?", year).and("month = ?", month).andIf(excludeID > 0, "id <> ?", excludeID)
	n, err := q.countLive(ctx, kind.Table(), w)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ArchiveCounts groups live, active rows by (year, month), newest first.
func (q *Queries) ArchiveCounts(ctx context.Context, kind model.PublicationKind) ([]ArchiveCount, error) {
	w := live().and("is_active = 1")
	rows, err := q.db.QueryContext(ctx,
		"SELECT year, month, COUNT(*) FROM "+kind.Table()+w.String()+
			" GROUP BY year, month ORDER BY year DESC, month DESC",
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("archive counts for %s: %w", kind, err)
	}
	return collect(rows, func(s scanner) (ArchiveCount, error) {
		var c ArchiveCount
		err := s.Scan(&c.Year, &c.Month, &c.Count)
		return c, err
	})
}

func (q *Queries) SoftDeletePublication(ctx context.Context, kind model.PublicationKind, id int64, now time.Time) error {
	return q.softDelete(ctx, kind.Table(), id, now)
}
