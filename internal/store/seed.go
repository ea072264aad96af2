// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/model"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "changeme"
)

// Seed creates the initial admin account when none exists.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	admins, err := queries.CountUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if admins > 0 {
		slog.Info("an admin account exists, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Warn("created default admin user; change the password after first login",
		"id", user.ID,
		"username", user.Username,
	)

	return nil
}
