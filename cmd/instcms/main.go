// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command instcms runs the institute website backend and its maintenance
// tasks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "instcms",
		Short:         "Content backend for the institute website",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// Load .env files if present (development)
			_ = godotenv.Load()
		},
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newUserCommand(),
		newImportCommand(),
		newVersionCommand(),
	)
	return root
}
