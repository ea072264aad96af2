// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/testutil"
)

func TestAuditLogHandler_PersistsWarnAndAbove(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	var buf bytes.Buffer
	logger := slog.New(NewAuditLogHandler(NewBaseHandler(&buf, slog.LevelDebug, true), db))

	logger.Info("routine")
	logger.Warn("menu page has unknown parent_menu", "category", model.EventCategoryContent, "slug", "lost")
	logger.With("component", "scheduler").Error("job failed")

	if !bytes.Contains(buf.Bytes(), []byte("routine")) {
		t.Error("inner handler should receive info records")
	}

	entries, err := store.New(db).ListAuditEntries(context.Background(), store.AuditFilter{}, store.Paging{Limit: 10})
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(entries))
	}

	byMsg := map[string]store.AuditEntry{}
	for _, e := range entries {
		byMsg[e.Message] = e
	}

	warn := byMsg["menu page has unknown parent_menu"]
	if warn.Level != model.EventLevelWarning || warn.Category != model.EventCategoryContent {
		t.Errorf("warn entry = %s/%s", warn.Level, warn.Category)
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(warn.Metadata), &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["slug"] != "lost" {
		t.Errorf("metadata slug = %q", meta["slug"])
	}

	errEntry := byMsg["job failed"]
	if errEntry.Level != model.EventLevelError || errEntry.Category != model.EventCategorySystem {
		t.Errorf("error entry = %s/%s", errEntry.Level, errEntry.Category)
	}
	if !bytes.Contains([]byte(errEntry.Metadata), []byte("scheduler")) {
		t.Errorf("WithAttrs attributes missing from metadata: %s", errEntry.Metadata)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
