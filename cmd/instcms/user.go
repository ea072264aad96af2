// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
)

var userCreateArgs struct {
	Username string
	Password string
	Role     string
}

func newUserCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "user",
		Short: "Manage admin accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long:  "Create an admin account. The password is read from standard input when --password is omitted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := userCreateArgs.Password
			if password == "" {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, true)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			u, err := createUser(cmd.Context(), db, userCreateArgs.Username, password, userCreateArgs.Role)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", u.Role, u.Username, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&userCreateArgs.Username, "username", "", "login name")
	create.Flags().StringVar(&userCreateArgs.Password, "password", "", "password (prompted when empty)")
	create.Flags().StringVar(&userCreateArgs.Role, "role", model.RoleEditor, "admin or editor")
	_ = create.MarkFlagRequired("username")

	command.AddCommand(create)
	return command
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// createUser validates and inserts an admin account.
func createUser(ctx context.Context, db *sql.DB, username, password, role string) (store.AdminUser, error) {
	username = strings.TrimSpace(username)
	if msg := auth.ValidateUsername(username); msg != "" {
		return store.AdminUser{}, errors.New(msg)
	}
	if msg := auth.ValidatePassword(password); msg != "" {
		return store.AdminUser{}, errors.New(msg)
	}
	if !model.IsValidRole(role) {
		return store.AdminUser{}, fmt.Errorf("role must be one of %s", strings.Join(model.ValidRoles, ", "))
	}

	queries := store.New(db)
	taken, err := queries.UsernameExists(ctx, username, 0)
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return store.AdminUser{}, fmt.Errorf("username %q is already taken", username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	u, err := queries.CreateUser(ctx, store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}
