// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis returns SITEADMIN_TEST_REDIS_URL or skips the test.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SITEADMIN_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SITEADMIN_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	c, err := NewRedisCache(RedisOptions{URL: url, Prefix: "siteadmin-test:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = c.Close() }()
	ctx := context.Background()
	_ = c.Clear(ctx)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get missing: err = %v, want ErrCacheMiss", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("deleted key still present")
	}
}

func TestRedisCache_ClearKeepsOtherPrefixes(t *testing.T) {
	url := skipIfNoRedis(t)
	ctx := context.Background()

	a, err := NewRedisCache(RedisOptions{URL: url, Prefix: "siteadmin-test-a:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := NewRedisCache(RedisOptions{URL: url, Prefix: "siteadmin-test-b:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = b.Close() }()

	_ = a.Set(ctx, "k", []byte("a"), time.Minute)
	_ = b.Set(ctx, "k", []byte("b"), time.Minute)

	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Errorf("other prefix cleared: %v", err)
	}
	_ = b.Clear(ctx)
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}
