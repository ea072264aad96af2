// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/testutil"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "status"},
		{"user", "create"},
		{"import", "legacy"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not found: %v", path, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "instcms ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCreateUser(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	ctx := context.Background()

	u, err := createUser(ctx, db, " chief ", "long-enough-password", model.RoleAdmin)
	if err != nil {
		t.Fatalf("createUser() error = %v", err)
	}
	if u.Username != "chief" || u.Role != model.RoleAdmin {
		t.Errorf("created = %+v", u)
	}
	if ok, _ := auth.CheckPassword("long-enough-password", u.PasswordHash); !ok {
		t.Error("stored hash does not verify")
	}

	tests := []struct {
		name     string
		username string
		password string
		role     string
	}{
		{"duplicate", "CHIEF", "long-enough-password", model.RoleEditor},
		{"bad username", "chief writer", "long-enough-password", model.RoleEditor},
		{"short password", "writer", "short", model.RoleEditor},
		{"bad role", "writer", "long-enough-password", "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := createUser(ctx, db, tt.username, tt.password, tt.role); err == nil {
				t.Error("createUser() should fail")
			}
		})
	}
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("s3cret-pass\r\nignored\n"))
	if err != nil || got != "s3cret-pass" {
		t.Errorf("readLine() = %q, %v", got, err)
	}
	got, err = readLine(strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Errorf("readLine() without newline = %q, %v", got, err)
	}
}
