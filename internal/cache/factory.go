// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Type       string
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	MaxItems   int
}

// New builds the backend named by opts.Type. "none" (or empty) returns Noop.
func New(opts Options) (Cacher, error) {
	switch opts.Type {
	case "", TypeNone:
		return Noop{}, nil
	case TypeMemory:
		return NewMemoryCache(MemoryOptions{
			DefaultTTL:      opts.DefaultTTL,
			MaxItems:        opts.MaxItems,
			CleanupInterval: time.Minute,
		}), nil
	case TypeRedis:
		ro := DefaultRedisOptions()
		ro.URL = opts.RedisURL
		if opts.Prefix != "" {
			ro.Prefix = opts.Prefix
		}
		if opts.DefaultTTL > 0 {
			ro.DefaultTTL = opts.DefaultTTL
		}
		rc, err := NewRedisCache(ro)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", opts.Type)
	}
}

// Noop is a Cacher that stores nothing.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error { return nil }
func (Noop) DeleteByPrefix(context.Context, string) error { return nil }
func (Noop) Clear(context.Context) error { return nil }
func (Noop) Close() error { return nil }

var _ Cacher = Noop{}
