// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olegiv/instcms/internal/config"
	"github.com/olegiv/instcms/internal/logging"
	"github.com/olegiv/instcms/internal/store"
)

// bootstrap loads the configuration and installs the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logger := slog.New(logging.NewBaseHandler(os.Stdout, level, cfg.IsDevelopment()))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openDatabase opens the SQLite database, creating its directory first.
// Migrations run unless migrate is false.
func openDatabase(cfg *config.Config, migrate bool) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if migrate {
		slog.Info("running database migrations")
		if err := store.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	return db, nil
}

func closeDatabase(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	}
}
