// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"os"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"empty is noop", Options{}, "noop", false},
		{"none", Options{Type: TypeNone}, "noop", false},
		{"memory", Options{Type: TypeMemory, DefaultTTL: time.Minute}, "memory", false},
		{"redis without url", Options{Type: TypeRedis}, "", true},
		{"unknown", Options{Type: "memcached"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() { _ = c.Close() }()

			switch tt.want {
			case "noop":
				if _, ok := c.(Noop); !ok {
					t.Errorf("got %T, want Noop", c)
				}
			case "memory":
				if _, ok := c.(*MemoryCache); !ok {
					t.Errorf("got %T, want *MemoryCache", c)
				}
			}
		})
	}
}

func TestNew_Redis(t *testing.T) {
	url := os.Getenv("INSTCMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("INSTCMS_TEST_REDIS_URL not set")
	}

	c, err := New(Options{Type: TypeRedis, RedisURL: url, Prefix: "instcms-test:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	rc := c.(*RedisCache)
	if err := rc.Ping(t.Context()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := rc.Set(t.Context(), KeyMenu, []byte("m"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := rc.Get(t.Context(), KeyMenu); err != nil || string(got) != "m" {
		t.Errorf("Get = %q, %v", got, err)
	}
	if err := rc.Clear(t.Context()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
}
