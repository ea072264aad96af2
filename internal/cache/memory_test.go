// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(ttl time.Duration, maxItems int) *MemoryCache {
	return NewMemoryCache(MemoryOptions{DefaultTTL: ttl, MaxItems: maxItems})
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "menu", []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "menu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get = %q, want v1", got)
	}

	// Returned slices are copies.
	got[0] = 'x'
	again, _ := c.Get(ctx, "menu")
	if string(again) != "v1" {
		t.Errorf("cached value mutated through returned slice: %q", again)
	}

	if err := c.Delete(ctx, "menu"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "menu"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("x"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, ArchiveKey("circulars"), []byte("a"), 0)
	_ = c.Set(ctx, ArchiveKey("newsline_issues"), []byte("b"), 0)
	_ = c.Set(ctx, KeyMenu, []byte("m"), 0)

	if err := c.DeleteByPrefix(ctx, "archive:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if c.Stats().Items != 1 {
		t.Errorf("Items = %d, want 1", c.Stats().Items)
	}
	if _, err := c.Get(ctx, KeyMenu); err != nil {
		t.Errorf("menu should survive archive prefix delete: %v", err)
	}
}

func TestMemoryCache_MaxItemsEvicts(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 2)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	_ = c.Set(ctx, "c", []byte("3"), time.Hour)

	if n := c.Stats().Items; n != 2 {
		t.Fatalf("Items = %d, want 2", n)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("entry closest to expiry should have been evicted")
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	_ = c.Close()
	_ = c.Close()

	if err := c.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close err = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 50)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := ArchiveKey(string(rune('a' + n)))
			_ = c.Set(ctx, key, []byte{byte(n)}, 0)
			_, _ = c.Get(ctx, key)
			_ = c.DeleteByPrefix(ctx, "nothing:")
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", s.HitRate)
	}
}
