// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const auditColumns = `id, level, category, action, entity_type, entity_id, message, user_id,
	ip_address, request_url, metadata, created_at`

func scanAuditEntry(row scanner) (AuditEntry, error) {
	var i AuditEntry
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.Category,
		&i.Action,
		&i.EntityType,
		&i.EntityID,
		&i.Message,
		&i.UserID,
		&i.IpAddress,
		&i.RequestUrl,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const createAuditEntry = `INSERT INTO audit_log (
	level, category, action, entity_type, entity_id, message, user_id, ip_address, request_url, metadata, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + auditColumns

type CreateAuditEntryParams struct {
	Level      string
	Category   string
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	Message    string
	UserID     sql.NullInt64
	IpAddress  string
	RequestUrl string
	Metadata   string
	CreatedAt  time.Time
}

func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) (AuditEntry, error) {
	row := q.db.QueryRowContext(ctx, createAuditEntry,
		arg.Level,
		arg.Category,
		arg.Action,
		arg.EntityType,
		arg.EntityID,
		arg.Message,
		arg.UserID,
		arg.IpAddress,
		arg.RequestUrl,
		arg.Metadata,
		utc(arg.CreatedAt),
	)
	return scanAuditEntry(row)
}

// AuditFilter narrows audit listings. Zero values do not filter.
type AuditFilter struct {
	Level      string
	Category   string
	EntityType string
	EntityID   int64
	UserID     int64
}

func (f AuditFilter) clause() (string, []any) {
	var conds []string
	var args []any
	add := func(ok bool, cond string, v any) {
		if ok {
			conds = append(conds, cond)
			args = append(args, v)
		}
	}
	add(f.Level != "", "level = ?", f.Level)
	add(f.Category != "", "category = ?", f.Category)
	add(f.EntityType != "", "entity_type = ?", f.EntityType)
	add(f.EntityID > 0, "entity_id = ?", f.EntityID)
	add(f.UserID > 0, "user_id = ?", f.UserID)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (q *Queries) ListAuditEntries(ctx context.Context, f AuditFilter, p Paging) ([]AuditEntry, error) {
	clause, args := f.clause()
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+auditColumns+" FROM audit_log"+clause+" ORDER BY created_at DESC, id DESC"+pagingClause,
		append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAuditEntry)
}

func (q *Queries) CountAuditEntries(ctx context.Context, f AuditFilter) (int64, error) {
	clause, args := f.clause()
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log"+clause, args...).Scan(&n)
	return n, err
}

const deleteAuditEntriesBefore = `DELETE FROM audit_log WHERE created_at < ?`

// DeleteAuditEntriesBefore purges entries older than before and returns how many went.
func (q *Queries) DeleteAuditEntriesBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteAuditEntriesBefore, utc(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
