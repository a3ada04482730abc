// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
	calls  int
	err    error
}

func (f *fakeSettings) GetSettings(_ context.Context, keys ...string) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

func TestSettingsCache_ReadThrough(t *testing.T) {
	src := &fakeSettings{values: map[string]string{"site_name": "Ada", "posts_per_page": "10"}}
	mc := NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mc.Close() })
	sc := NewSettingsCache(mc, src, time.Minute)
	ctx := context.Background()

	got, err := sc.GetSettings(ctx, "site_name", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"site_name": "Ada"}, got)

	all, err := sc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, src.calls, "second read served from cache")

	src.values["site_name"] = "Grace"
	got, _ = sc.GetSettings(ctx, "site_name")
	assert.Equal(t, "Ada", got["site_name"], "stale until invalidated")

	require.NoError(t, sc.Invalidate(ctx))
	got, _ = sc.GetSettings(ctx, "site_name")
	assert.Equal(t, "Grace", got["site_name"])
	assert.Equal(t, 2, src.calls)
}

func TestSettingsCache_SourceError(t *testing.T) {
	src := &fakeSettings{err: errors.New("db down")}
	mc := NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mc.Close() })
	sc := NewSettingsCache(mc, src, time.Minute)

	_, err := sc.GetSettings(context.Background(), "site_name")
	assert.EqualError(t, err, "db down")
	assert.Zero(t, mc.Len())
}

func TestSettingsCache_CorruptEntry(t *testing.T) {
	src := &fakeSettings{values: map[string]string{"site_name": "Ada"}}
	mc := NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mc.Close() })
	require.NoError(t, mc.Set(context.Background(), settingsKey, []byte("{not json"), 0))

	sc := NewSettingsCache(mc, src, time.Minute)
	got, err := sc.GetSettings(context.Background(), "site_name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got["site_name"])
}
