// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/instcms/internal/geoip"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
)

// Names of the built-in jobs.
const (
	JobAuditPurge    = "audit-purge"
	JobLoginFailures = "login-failures"
	JobGeoIPReload   = "geoip-reload"
	JobLimiterPrune  = "limiter-prune"
)

// DefaultFailureWindow is how long failed logins on an unlocked account
// are remembered.
const DefaultFailureWindow = 24 * time.Hour

// Pruner is a rate limiter whose per-client state can be trimmed.
type Pruner interface {
	Prune()
}

// Maintenance holds the collaborators of the built-in jobs. Nil or zero
// fields disable the matching job. GeoIP should only be set when a
// database path is configured.
type Maintenance struct {
	DB             *sql.DB
	Audit          *service.AuditService
	AuditRetention time.Duration
	FailureWindow  time.Duration
	GeoIP          *geoip.Locator
	Limiters       []Pruner
}

// RegisterMaintenance adds the jobs m has collaborators for.
func (s *Scheduler) RegisterMaintenance(m Maintenance) error {
	if m.Audit != nil && m.AuditRetention > 0 {
		if err := s.Add(JobAuditPurge, "Delete audit entries past the retention period",
			"@daily", purgeAudit(m.Audit, m.AuditRetention, s.logger)); err != nil {
			return err
		}
	}

	if m.DB != nil {
		window := m.FailureWindow
		if window <= 0 {
			window = DefaultFailureWindow
		}
		if err := s.Add(JobLoginFailures, "Forgive stale failed-login counters",
			"@hourly", resetLoginFailures(store.New(m.DB), window, time.Now, s.logger)); err != nil {
			return err
		}
	}

	if m.GeoIP != nil {
		if err := s.Add(JobGeoIPReload, "Reload the GeoIP country database",
			"@weekly", reloadGeoIP(m.GeoIP)); err != nil {
			return err
		}
	}

	if len(m.Limiters) > 0 {
		if err := s.Add(JobLimiterPrune, "Trim rate limiter client maps",
			"*/10 * * * *", pruneLimiters(m.Limiters)); err != nil {
			return err
		}
	}
	return nil
}

func purgeAudit(audit *service.AuditService, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := audit.Purge(ctx, retention)
		if err != nil {
			return fmt.Errorf("purging audit log: %w", err)
		}
		if n > 0 {
			logger.Info("purged audit entries", "count", n, "retention", retention.String())
		}
		return nil
	}
}

func resetLoginFailures(q *store.Queries, window time.Duration, now func() time.Time, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		t := now()
		n, err := q.ResetStaleFailures(ctx, t, t.Add(-window))
		if err != nil {
			return fmt.Errorf("resetting login failures: %w", err)
		}
		if n > 0 {
			logger.Info("reset stale login failures", "accounts", n)
		}
		return nil
	}
}

func reloadGeoIP(loc *geoip.Locator) JobFunc {
	return func(context.Context) error {
		return loc.Reload()
	}
}

func pruneLimiters(limiters []Pruner) JobFunc {
	return func(context.Context) error {
		for _, l := range limiters {
			l.Prune()
		}
		return nil
	}
}
