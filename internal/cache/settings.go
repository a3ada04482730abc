// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

const settingsKey = "settings:all"

// SettingsSource loads site settings. A nil or empty key list means all.
type SettingsSource interface {
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)
}

// SettingsCache is a read-through cache of the whole settings table. It
// satisfies SettingsSource itself, so it can stand in for the store.
type SettingsCache struct {
	cache  Cache
	source SettingsSource
	ttl    time.Duration
}

// NewSettingsCache wraps source with c. ttl bounds staleness when another
// process changes settings without invalidating.
func NewSettingsCache(c Cache, source SettingsSource, ttl time.Duration) *SettingsCache {
	return &SettingsCache{cache: c, source: source, ttl: ttl}
}

// GetSettings returns the requested keys, reading the source on a miss.
func (s *SettingsCache) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return all, nil
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Invalidate drops the cached copy; the next read goes to the source.
func (s *SettingsCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, settingsKey)
}

func (s *SettingsCache) all(ctx context.Context) (map[string]string, error) {
	data, err := s.cache.Get(ctx, settingsKey)
	switch {
	case err == nil:
		var m map[string]string
		if err := json.Unmarshal(data, &m); err == nil {
			return m, nil
		}
		slog.Warn("discarding corrupt settings cache entry")
	case !errors.Is(err, ErrCacheMiss):
		slog.Warn("settings cache read failed", "error", err)
	}

	m, err := s.source.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(m); err == nil {
		if err := s.cache.Set(ctx, settingsKey, data, s.ttl); err != nil {
			slog.Warn("settings cache write failed", "error", err)
		}
	}
	return m, nil
}
