// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliohq/siteadmin/internal/cache"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/session"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/testutil"
)

// requestWithSession returns a request whose context holds a loaded scs
// session, with userID stored when non-zero.
func requestWithSession(t *testing.T, sm *scs.SessionManager, method, target string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	ctx, err := sm.Load(req.Context(), "")
	require.NoError(t, err)
	if userID != 0 {
		sm.Put(ctx, session.KeyUserID, userID)
	}
	return req.WithContext(ctx)
}

// userCapture records the user LoadUser placed in context.
type userCapture struct {
	called bool
	user   *model.User
}

func (c *userCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.user = GetUser(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadUser(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)
	staff := testutil.CreateUser(t, db, "staff@example.com", "password123", true)
	sm := scs.New()

	t.Run("anonymous session", func(t *testing.T) {
		var c userCapture
		req := requestWithSession(t, sm, http.MethodGet, "/", 0)
		LoadUser(sm, queries)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, c.called)
		assert.Nil(t, c.user)
	})

	t.Run("known user", func(t *testing.T) {
		var c userCapture
		req := requestWithSession(t, sm, http.MethodGet, "/", staff.ID)
		LoadUser(sm, queries)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, c.user)
		assert.Equal(t, staff.ID, c.user.ID)
		assert.Equal(t, "staff@example.com", c.user.Email)
	})

	t.Run("stale user id destroys session", func(t *testing.T) {
		var c userCapture
		req := requestWithSession(t, sm, http.MethodGet, "/", 9999)
		LoadUser(sm, queries)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, c.called)
		assert.Nil(t, c.user)
		assert.Zero(t, sm.GetInt64(req.Context(), session.KeyUserID))
	})
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name     string
		user     *model.User
		target   string
		wantCode int
		wantLoc  string
	}{
		{"anonymous", nil, "/blog?status=draft", http.StatusSeeOther, "/login?next=%2Fblog%3Fstatus%3Ddraft"},
		{"anonymous root", nil, "/", http.StatusSeeOther, "/login"},
		{"non-staff", &model.User{ID: 2, IsStaff: false}, "/settings", http.StatusSeeOther, "/login?next=%2Fsettings"},
		{"staff", &model.User{ID: 1, IsStaff: true}, "/settings", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.user != nil {
				req = WithUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
		})
	}
}

func TestRequireStaffDoesNotMutate(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)

	handler := RequireStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = queries.CreateEvent(r.Context(), &model.Event{Level: model.EventLevelInfo, Message: "should not run"})
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/blog/1/delete", nil))

	events, err := queries.ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetUserAndID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUser(req))
	assert.Zero(t, GetUserID(req))

	req = WithUser(req, &model.User{ID: 42, Email: "a@example.com"})
	require.NotNil(t, GetUser(req))
	assert.Equal(t, int64(42), GetUserID(req))
}

func TestLoadSiteConfig(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)

	var got string
	handler := LoadSiteConfig(queries)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSiteName(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, DefaultSiteName, got)

	require.NoError(t, queries.SetSettings(context.Background(), map[string]string{model.SettingSiteName: "Portfolio"}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Portfolio", got)
}

func TestLoadSiteConfig_Cached(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)
	mc := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mc.Close() })
	sc := cache.NewSettingsCache(mc, queries, time.Hour)
	ctx := context.Background()

	require.NoError(t, queries.SetSettings(ctx, map[string]string{model.SettingSiteName: "First"}))

	var got string
	handler := LoadSiteConfig(sc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSiteName(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "First", got)

	require.NoError(t, queries.SetSettings(ctx, map[string]string{model.SettingSiteName: "Second"}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "First", got)

	require.NoError(t, sc.Invalidate(ctx))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Second", got)
}

func TestGetSiteNameDefault(t *testing.T) {
	assert.Equal(t, DefaultSiteName, GetSiteName(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tools/ai/3?x=1", nil))

	assert.Equal(t, "/tools/ai/3", got)
	assert.Empty(t, GetRequestPath(context.Background()))
}
