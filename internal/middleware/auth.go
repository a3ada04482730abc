// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the staff gate, login
// throttling, CSRF protection and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/session"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeySiteName    ContextKey = "site_name"
	ContextKeyRequestPath ContextKey = "request_path"
)

// DefaultSiteName is used when no site_name setting exists.
const DefaultSiteName = "Site Admin"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// LoadUser creates middleware that loads the current user into the request
// context. A session pointing at a deleted user is destroyed.
func LoadUser(sm *scs.SessionManager, queries *store.Queries) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				if !store.IsNotFound(err) {
					slog.Error("failed to load session user", "error", err, "user_id", userID)
				}
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff lets a request through only when a staff user is in context.
// Anyone else is redirected to the login page with the original location in
// the next parameter. Must run after LoadUser.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if !user.CanAccessAdmin() {
				if user != nil {
					slog.Warn("access denied: not a staff account",
						"category", model.EventCategoryAuth,
						"user_id", user.ID,
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
					)
				}
				http.Redirect(w, r, LoginRedirectURL(r), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirectURL returns the login URL carrying r's location as next.
func LoginRedirectURL(r *http.Request) string {
	target := r.URL.RequestURI()
	if target == "" || target == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(target)
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(ContextKeyUser).(*model.User)
	return user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// WithUser returns a copy of r carrying user, for tests and internal calls.
func WithUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
}

// SettingsReader loads settings by key. Both *store.Queries and the settings
// cache implement it.
type SettingsReader interface {
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)
}

// LoadSiteConfig creates middleware that puts the site_name setting into the
// request context.
func LoadSiteConfig(settings SettingsReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			siteName := DefaultSiteName
			if values, err := settings.GetSettings(r.Context(), model.SettingSiteName); err == nil {
				if v := values[model.SettingSiteName]; v != "" {
					siteName = v
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeySiteName, siteName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSiteName retrieves the site name from the request context.
func GetSiteName(r *http.Request) string {
	siteName, ok := r.Context().Value(ContextKeySiteName).(string)
	if !ok || siteName == "" {
		return DefaultSiteName
	}
	return siteName
}

// RequestPath creates middleware that stores the request path in the context.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
