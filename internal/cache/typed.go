// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache stores values of T as JSON in a Cacher.
type TypedCache[T any] struct {
	cache Cacher
	ttl   time.Duration
}

// NewTypedCache wraps c. A nil c yields a cache that always misses.
func NewTypedCache[T any](c Cacher, ttl time.Duration) *TypedCache[T] {
	if c == nil {
		c = Noop{}
	}
	return &TypedCache[T]{cache: c, ttl: ttl}
}

// Get returns the cached value and true, or nil and false on miss or decode failure.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.ttl)
}

func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetOrSet returns the cached value or computes it with fn and stores it.
// A failed store does not fail the call.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, v)
	return v, nil
}
