// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *fakeClock) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Close)

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.Now
	return lp, clock
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Close()

	def := DefaultLoginProtectionConfig()
	assert.Equal(t, def.MaxFailedAttempts, lp.maxFailedAttempts)
	assert.Equal(t, def.LockoutDuration, lp.lockoutDuration)
	assert.Equal(t, def.AttemptWindow, lp.attemptWindow)
}

func TestLoginProtectionCloseIsIdempotent(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())
	lp.Close()
	lp.Close()
}

func TestLoginProtectionLocksAfterMaxAttempts(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	email := "staff@example.com"

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt(email)
		require.False(t, locked, "attempt %d", i+1)
	}
	assert.Equal(t, 1, lp.GetRemainingAttempts(email))

	locked, d := lp.RecordFailedAttempt(email)
	require.True(t, locked)
	assert.Equal(t, time.Minute, d)

	locked, remaining := lp.IsAccountLocked(email)
	assert.True(t, locked)
	assert.Equal(t, time.Minute, remaining)

	clock.Advance(time.Minute + time.Second)
	locked, _ = lp.IsAccountLocked(email)
	assert.False(t, locked)
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("Staff@Example.com")
	locked, _ := lp.RecordFailedAttempt(" staff@example.com ")
	require.True(t, locked)

	locked, _ = lp.IsAccountLocked("STAFF@EXAMPLE.COM")
	assert.True(t, locked)
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 1, time.Minute, time.Hour)
	email := "staff@example.com"

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute, 8 * time.Minute}
	for i, w := range want {
		locked, d := lp.RecordFailedAttempt(email)
		require.True(t, locked, "lockout %d", i+1)
		assert.Equal(t, w, d, "lockout %d", i+1)
		clock.Advance(d + time.Second)
	}
}

func TestLoginProtectionBackoffCapped(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 1, 10*time.Hour, 48*time.Hour)
	email := "staff@example.com"

	_, d := lp.RecordFailedAttempt(email)
	assert.Equal(t, 10*time.Hour, d)
	clock.Advance(d)

	_, d = lp.RecordFailedAttempt(email)
	assert.Equal(t, 20*time.Hour, d)
	clock.Advance(d)

	_, d = lp.RecordFailedAttempt(email)
	assert.Equal(t, 24*time.Hour, d)
}

func TestLoginProtectionWindowResets(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "staff@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	assert.Equal(t, 1, lp.GetRemainingAttempts(email))

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 3, lp.GetRemainingAttempts(email))

	locked, _ := lp.RecordFailedAttempt(email)
	assert.False(t, locked)
	assert.Equal(t, 2, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	email := "staff@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	assert.Equal(t, 3, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("old@example.com")
	clock.Advance(20 * time.Minute)
	lp.RecordFailedAttempt("new@example.com")

	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	assert.NotContains(t, lp.failedAttempts, "old@example.com")
	assert.Contains(t, lp.failedAttempts, "new@example.com")
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Close()

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, post("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2:1111"), "other IPs are unaffected")

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "GET is never limited")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.5:4321", "192.168.1.5"},
		{"[::1]:8080", "::1"},
		{"203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, clientIP(req), tt.remote)
	}
}
