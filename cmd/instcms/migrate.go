// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/instcms/internal/store"
)

func newMigrateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	command.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, true)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			v, err := store.MigrationVersion(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("reading schema version: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", v)
			return nil
		},
	})

	command.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, false)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			return store.MigrationStatus(db)
		},
	})

	return command
}
