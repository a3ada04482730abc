// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects Redis when set; otherwise memory is used.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	// FallbackToMemory uses a memory cache when Redis is unreachable
	// instead of failing.
	FallbackToMemory bool
}

// New creates the backend described by cfg.
func New(cfg Config) (Cache, error) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Minute
	}
	if cfg.RedisURL == "" {
		return NewMemoryCache(cfg.DefaultTTL, time.Minute), nil
	}

	rc, err := NewRedisCache(RedisOptions{
		URL:        cfg.RedisURL,
		Prefix:     cfg.Prefix,
		DefaultTTL: cfg.DefaultTTL,
	})
	if err != nil {
		if !cfg.FallbackToMemory {
			return nil, err
		}
		slog.Warn("redis unavailable, using memory cache", "error", err)
		return NewMemoryCache(cfg.DefaultTTL, time.Minute), nil
	}
	return rc, nil
}
