// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// liveRows is the predicate carried by every read of a soft-deletable table.
// Queries never spell it out themselves; they start from live() instead.
const liveRows = "deleted_at IS NULL"

// Soft-deletable tables.
const (
	tablePages       = "pages"
	tableNews        = "news"
	tableBanners     = "banners"
	tableCouncil     = "council_members"
	tableProvincials = "provincials"
	tableGallery     = "gallery_items"
)

// where accumulates AND-ed predicates and their arguments.
type where struct {
	conds []string
	args  []any
}

// live starts a predicate list restricted to rows that are not soft-deleted.
func live() *where {
	return &where{conds: []string{liveRows}}
}

// and appends cond with its bind arguments.
func (w *where) and(cond string, args ...any) *where {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
	return w
}

// andIf appends cond only when ok is true.
func (w *where) andIf(ok bool, cond string, args ...any) *where {
	if ok {
		w.and(cond, args...)
	}
	return w
}

// String renders the WHERE clause.
func (w *where) String() string {
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// selectLive renders a SELECT of cols from table limited to live rows matching w.
func selectLive(cols, table string, w *where, orderBy string) string {
	q := "SELECT " + cols + " FROM " + table + w.String()
	if orderBy != "" {
		q += " ORDER BY " + orderBy
	}
	return q
}

// countLive counts live rows of table matching w.
func (q *Queries) countLive(ctx context.Context, table string, w *where) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+w.String(), w.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// softDelete stamps deleted_at on a live row.
// Returns sql.ErrNoRows when id does not name a live row.
func (q *Queries) softDelete(ctx context.Context, table string, id int64, now time.Time) error {
	w := live().and("id = ?", id)
	res, err := q.db.ExecContext(ctx,
		"UPDATE "+table+" SET deleted_at = ?, updated_at = ?"+w.String(),
		append([]any{utc(now), utc(now)}, w.args...)...)
	if err != nil {
		return fmt.Errorf("soft deleting %s %d: %w", table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// slugTaken reports whether a live row of table already uses slug.
// excludeID skips the row being updated; pass 0 on create.
func (q *Queries) slugTaken(ctx context.Context, table, slug string, excludeID int64) (bool, error) {
	w := live().and("slug = ?", slug).andIf(excludeID > 0, "id <> ?", excludeID)
	n, err := q.countLive(ctx, table, w)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Paging bounds a list query.
type Paging struct {
	Limit  int64
	Offset int64
}

const pagingClause = " LIMIT ? OFFSET ?"

// args returns the predicate arguments followed by limit and offset.
func (p Paging) args(w *where) []any {
	return append(append([]any{}, w.args...), p.Limit, p.Offset)
}
