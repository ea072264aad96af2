// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/testutil"
)

type countingPruner struct{ n int }

func (p *countingPruner) Prune() { p.n++ }

func TestRegisterMaintenance(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	s := New(testLogger())

	p := &countingPruner{}
	err := s.RegisterMaintenance(Maintenance{
		DB:             db,
		Audit:          service.NewAuditService(db, nil),
		AuditRetention: 90 * 24 * time.Hour,
		Limiters:       []Pruner{p},
	})
	require.NoError(t, err)

	var names []string
	for _, j := range s.List() {
		names = append(names, j.Name)
	}
	// No GeoIP database configured.
	assert.Equal(t, []string{JobAuditPurge, JobLimiterPrune, JobLoginFailures}, names)

	require.NoError(t, s.TriggerNow(JobLimiterPrune))
	assert.Equal(t, 1, p.n)
}

func TestRegisterMaintenanceEmpty(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, s.RegisterMaintenance(Maintenance{}))
	assert.Empty(t, s.List())
}

func TestPurgeAudit(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	ctx := context.Background()
	q := store.New(db)

	for _, age := range []time.Duration{200 * 24 * time.Hour, time.Hour} {
		_, err := q.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
			Level:     model.EventLevelInfo,
			Category:  model.EventCategorySystem,
			Action:    model.ActionUpdate,
			Message:   "entry",
			Metadata:  "{}",
			CreatedAt: time.Now().Add(-age),
		})
		require.NoError(t, err)
	}

	job := purgeAudit(service.NewAuditService(db, nil), 90*24*time.Hour, testLogger())
	require.NoError(t, job(ctx))

	n, err := q.CountAuditEntries(ctx, store.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResetLoginFailures(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	ctx := context.Background()
	q := store.New(db)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := testutil.CreateUser(t, db, "stale", "password-123", model.RoleEditor)
	fresh := testutil.CreateUser(t, db, "fresh", "password-123", model.RoleEditor)
	locked := testutil.CreateUser(t, db, "locked", "password-123", model.RoleEditor)

	require.NoError(t, q.RecordLoginFailure(ctx, stale.ID, 3, sql.NullTime{}, now.Add(-48*time.Hour)))
	require.NoError(t, q.RecordLoginFailure(ctx, fresh.ID, 2, sql.NullTime{}, now.Add(-time.Hour)))
	require.NoError(t, q.RecordLoginFailure(ctx, locked.ID, 5,
		sql.NullTime{Time: now.Add(time.Hour), Valid: true}, now.Add(-48*time.Hour)))

	job := resetLoginFailures(q, DefaultFailureWindow, func() time.Time { return now }, testLogger())
	require.NoError(t, job(ctx))

	got := func(id int64) store.AdminUser {
		u, err := q.GetUserByID(ctx, id)
		require.NoError(t, err)
		return u
	}
	assert.Equal(t, int64(0), got(stale.ID).FailedAttempts)
	assert.Equal(t, int64(2), got(fresh.ID).FailedAttempts)
	assert.Equal(t, int64(5), got(locked.ID).FailedAttempts, "a still-locked account keeps its counter")
}
