// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/session"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/testutil"
	"github.com/portfoliohq/siteadmin/web"
)

const (
	testStaffEmail    = "staff@example.com"
	testStaffPassword = "correct-horse-battery"
)

// testEnv bundles what handler tests need: a migrated database, an in-memory
// session manager, the real templates and a staff user.
type testEnv struct {
	db       *gorm.DB
	queries  *store.Queries
	sm       *scs.SessionManager
	renderer *render.Renderer
	staff    *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	sm := testSessionManager(t)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		CurrentUser:    middleware.GetUser,
		SiteName:       middleware.GetSiteName,
		IsDev:          true,
	})
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		queries:  store.New(db),
		sm:       sm,
		renderer: renderer,
		staff:    testutil.CreateUser(t, db, testStaffEmail, testStaffPassword, true),
	}
}

// testSessionManager returns a session manager backed by the default
// in-memory store.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// requestWithURLParams attaches chi URL parameters to r.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession loads a fresh session into r's context.
func requestWithSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(r.Context(), "")
	require.NoError(t, err)
	return r.WithContext(ctx)
}

// newRequest builds a request with a loaded session. A non-nil form is sent
// url-encoded.
func (e *testEnv) newRequest(t *testing.T, method, target string, form url.Values) *http.Request {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return requestWithSession(t, e.sm, req)
}

// staffRequest is newRequest with the staff user signed in. id, when not
// empty, becomes the {id} URL parameter.
func (e *testEnv) staffRequest(t *testing.T, method, target, id string, form url.Values) *http.Request {
	t.Helper()
	req := e.newRequest(t, method, target, form)
	if id != "" {
		req = requestWithURLParams(req, map[string]string{"id": id})
	}
	e.sm.Put(req.Context(), session.KeyUserID, e.staff.ID)
	return middleware.WithUser(req, e.staff)
}

// flashes returns the flash messages queued in r's session.
func (e *testEnv) flashes(r *http.Request) []render.Flash {
	f, _ := e.sm.Get(r.Context(), session.KeyFlashes).([]render.Flash)
	return f
}

func (e *testEnv) hasFlash(r *http.Request, flashType, message string) bool {
	for _, f := range e.flashes(r) {
		if f.Type == flashType && f.Message == message {
			return true
		}
	}
	return false
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d, want %d", got, want)
	}
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}

// followUp builds a request that continues the session of prev, as a browser
// would after a redirect.
func followUp(prev *http.Request, method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(prev.Context())
}

// reloadStaff refreshes the cached staff user from the database.
func (e *testEnv) reloadStaff(t *testing.T) {
	t.Helper()
	u, err := e.queries.GetUserByID(context.Background(), e.staff.ID)
	require.NoError(t, err)
	e.staff = u
}
