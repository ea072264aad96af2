// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const adminUserColumns = `id, username, password_hash, role, failed_attempts, locked_until,
	last_login_at, created_at, updated_at`

func scanAdminUser(row scanner) (AdminUser, error) {
	var i AdminUser
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.PasswordHash,
		&i.Role,
		&i.FailedAttempts,
		&i.LockedUntil,
		&i.LastLoginAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `INSERT INTO admin_users (username, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + adminUserColumns

type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.PasswordHash,
		arg.Role,
		utc(arg.CreatedAt),
		utc(arg.UpdatedAt),
	)
	return scanAdminUser(row)
}

const getUserByID = `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `SELECT ` + adminUserColumns + ` FROM admin_users WHERE username = ?`

// GetUserByUsername matches case-insensitively (the column collates NOCASE).
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const listUsers = `SELECT ` + adminUserColumns + ` FROM admin_users ORDER BY username LIMIT ? OFFSET ?`

func (q *Queries) ListUsers(ctx context.Context, p Paging) ([]AdminUser, error) {
	rows, err := q.db.QueryContext(ctx, listUsers, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAdminUser)
}

const countUsers = `SELECT COUNT(*) FROM admin_users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

const countUsersByRole = `SELECT COUNT(*) FROM admin_users WHERE role = ?`

func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByRole, role).Scan(&n)
	return n, err
}

const usernameExists = `SELECT COUNT(*) FROM admin_users WHERE username = ? AND id <> ?`

// UsernameExists reports whether another account already uses username.
func (q *Queries) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, usernameExists, username, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

const updateUsername = `UPDATE admin_users SET username = ?, updated_at = ? WHERE id = ?
RETURNING ` + adminUserColumns

func (q *Queries) UpdateUsername(ctx context.Context, id int64, username string, now time.Time) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, updateUsername, username, utc(now), id))
}

const updatePassword = `UPDATE admin_users SET password_hash = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdatePassword(ctx context.Context, id int64, hash string, now time.Time) error {
	_, err := q.db.ExecContext(ctx, updatePassword, hash, utc(now), id)
	return err
}

const updateRole = `UPDATE admin_users SET role = ?, updated_at = ? WHERE id = ?
RETURNING ` + adminUserColumns

func (q *Queries) UpdateRole(ctx context.Context, id int64, role string, now time.Time) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, updateRole, role, utc(now), id))
}

const recordLoginFailure = `UPDATE admin_users SET failed_attempts = ?, locked_until = ?, updated_at = ? WHERE id = ?`

// RecordLoginFailure stores the new failure count and, when set, the lock expiry.
func (q *Queries) RecordLoginFailure(ctx context.Context, id, attempts int64, lockedUntil sql.NullTime, now time.Time) error {
	_, err := q.db.ExecContext(ctx, recordLoginFailure, attempts, nullTimeUTC(lockedUntil), utc(now), id)
	return err
}

const recordLoginSuccess = `UPDATE admin_users SET failed_attempts = 0, locked_until = NULL, last_login_at = ?, updated_at = ? WHERE id = ?`

func (q *Queries) RecordLoginSuccess(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, recordLoginSuccess, utc(now), utc(now), id)
	return err
}

const unlockUser = `UPDATE admin_users SET failed_attempts = 0, locked_until = NULL, updated_at = ? WHERE id = ?`

func (q *Queries) UnlockUser(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, unlockUser, utc(now), id)
	return err
}

const resetStaleFailures = `UPDATE admin_users SET failed_attempts = 0, locked_until = NULL
WHERE failed_attempts > 0
  AND (locked_until IS NULL OR locked_until <= ?)
  AND updated_at < ?`

// ResetStaleFailures forgives failed logins on unlocked accounts whose last
// failure happened before cutoff. Returns how many accounts were reset.
func (q *Queries) ResetStaleFailures(ctx context.Context, now, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, resetStaleFailures, utc(now), utc(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteUser = `DELETE FROM admin_users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return err
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
