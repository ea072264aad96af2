// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/geoip"
	"github.com/olegiv/instcms/internal/handler"
	"github.com/olegiv/instcms/internal/handler/api"
	"github.com/olegiv/instcms/internal/imaging"
	"github.com/olegiv/instcms/internal/logging"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/scheduler"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/session"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/version"
)

// uploadsMaxAge is the browser cache lifetime of uploaded files (one week).
const uploadsMaxAge = 604800

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	dev := cfg.IsDevelopment()
	slog.Info("starting instcms", "version", version.Short(), "env", cfg.Env)

	db, err := openDatabase(cfg, true)
	if err != nil {
		return err
	}
	defer closeDatabase(db)
	slog.Info("database ready")

	// WARN and ERROR records also land in the audit log
	base := logging.NewBaseHandler(os.Stdout, logging.ParseLevel(cfg.LogLevel), dev)
	logger = slog.New(logging.NewAuditLogHandler(base, db))
	slog.SetDefault(logger)

	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	cacher, err := cache.New(cache.Options{
		Type:       cfg.CacheType,
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacher.Close() }()
	slog.Info("cache initialized", "backend", cfg.CacheType)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, country lookups disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	sessionManager := session.New(db, dev)
	audit := service.NewAuditService(db, geo)

	apiHandler := api.NewHandler(api.Deps{
		DB:       db,
		Sessions: sessionManager,
		CSRF:     middleware.NewCSRFTokens(sessionManager),
		Audit:    audit,
		Menu:     service.NewMenuService(db, cacher, cfg.CacheTTL),
		Archive:  service.NewArchiveService(db, cacher, cfg.CacheTTL),
		Settings: service.NewSettingsService(db, cacher, cfg.CacheTTL),
		Uploads: service.NewUploadService(cfg.UploadsDir, cfg.MaxUploadBytes(),
			imaging.NewProcessor(imaging.DefaultOptions())),
		Options: api.Options{
			DefaultLimit: cfg.DefaultPageSize,
			MaxLimit:     cfg.MaxPageSize,
			Development:  dev,
			BaseURL:      cfg.BaseURL,
		},
	})

	var pinger handler.Pinger
	if p, ok := cacher.(handler.Pinger); ok {
		pinger = p
	}
	healthHandler := handler.NewHealthHandler(db, pinger, cfg.UploadsDir)

	globalLimiter := middleware.NewGlobalRateLimiter(cfg.GlobalRateLimit, cfg.GlobalRateBurst)
	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: cfg.LoginRateLimit,
		IPBurst:     cfg.LoginRateBurst,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(dev)))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(globalLimiter.Middleware())
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.TrustedOrigins, dev)))

	apiHandler.Routes(r, api.RouteConfig{
		LoginProtection: loginProtection,
		Health:          healthHandler,
		UploadsDir:      cfg.UploadsDir,
		UploadsMaxAge:   uploadsMaxAge,
	})

	maintenance := scheduler.Maintenance{
		DB:             db,
		Audit:          audit,
		AuditRetention: time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour,
		Limiters:       []scheduler.Pruner{globalLimiter, loginProtection},
	}
	if cfg.GeoIPEnabled() {
		maintenance.GeoIP = geo
	}

	sched := scheduler.New(logger)
	if err := sched.RegisterMaintenance(maintenance); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
