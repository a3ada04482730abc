// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/auth"
	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/session"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// Login error messages. Unknown account, wrong password and non-staff
// accounts share one message.
const (
	msgInvalidCredentials = "Please enter a correct email and password for a staff account."
	msgInvalidCode        = "Invalid verification code."
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	now             func() time.Time
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	queries := store.New(db)
	return &AuthHandler{
		queries:         queries,
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(queries),
		loginProtection: lp,
		now:             time.Now,
	}
}

// LoginData is the login template payload.
type LoginData struct {
	Email string
	Next  string
	Error string
}

// VerifyData is the 2FA verification template payload.
type VerifyData struct {
	Email string
	Error string
}

// LoginForm renders the login page. Signed-in staff go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionStaff(r) != nil {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, LoginData{Next: r.URL.Query().Get("next")})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	in := parseLoginInput(r)
	data := LoginData{Email: in.Email, Next: in.Next}

	if errs := validateInput(in); len(errs) > 0 {
		data.Error = "Email and password are required."
		h.renderLogin(w, r, data)
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(in.Email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", 0,
				clientMetadata(r, map[string]any{"email": in.Email}))
			data.Error = fmt.Sprintf("Too many failed login attempts. Try again in %s.", formatDuration(remaining))
			h.renderLogin(w, r, data)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), in.Email)
	if err != nil && !store.IsNotFound(err) {
		logAndInternalError(w, "database error during login", "error", err)
		return
	}

	if user == nil || !h.passwordMatches(user, in.Password) || !user.CanAccessAdmin() {
		h.loginFailed(w, r, user, data)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(in.Email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(in.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	next := util.SafeRedirectPath(in.Next, redirectDashboard)

	if user.Is2FAEnabled {
		if err := h.sessionManager.RenewToken(r.Context()); err != nil {
			logAndInternalError(w, "session renewal error", "error", err)
			return
		}
		h.sessionManager.Put(r.Context(), session.KeyPendingUserID, user.ID)
		h.sessionManager.Put(r.Context(), session.KeyPendingNext, next)
		slog.Info("password accepted, awaiting 2FA code", "user_id", user.ID)
		http.Redirect(w, r, redirectLoginVerify, http.StatusSeeOther)
		return
	}

	h.completeLogin(w, r, user, next)
}

// VerifyForm renders the second login step for a user whose password was
// accepted.
func (h *AuthHandler) VerifyForm(w http.ResponseWriter, r *http.Request) {
	user := h.pendingUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	h.renderVerify(w, r, http.StatusOK, VerifyData{Email: user.Email})
}

// Verify checks the TOTP code of the pending user and completes the login.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user := h.pendingUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectLoginVerify) {
		return
	}

	in := parseCodeInput(r)
	if len(validateInput(in)) > 0 || !auth.VerifyTOTP(user.TOTPSecret.String, in.Code, h.now()) {
		slog.Warn("invalid 2FA code at login", "category", model.EventCategoryAuth, "user_id", user.ID)
		if h.loginProtection != nil {
			if locked, _ := h.loginProtection.RecordFailedAttempt(user.Email); locked {
				h.sessionManager.Remove(r.Context(), session.KeyPendingUserID)
				h.sessionManager.Remove(r.Context(), session.KeyPendingNext)
				flashError(w, r, h.renderer, redirectLogin, "Too many failed attempts. Please sign in again later.")
				return
			}
		}
		h.renderVerify(w, r, http.StatusOK, VerifyData{Email: user.Email, Error: msgInvalidCode})
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(user.Email)
	}

	next := util.SafeRedirectPath(h.sessionManager.PopString(r.Context(), session.KeyPendingNext), redirectDashboard)
	h.sessionManager.Remove(r.Context(), session.KeyPendingUserID)
	h.completeLogin(w, r, user, next)
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", userID, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, render.FlashInfo, "You have been signed out.")
}

func (h *AuthHandler) completeLogin(w http.ResponseWriter, r *http.Request, user *model.User, next string) {
	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, h.now()); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// New token on privilege change so a pre-login cookie cannot be reused.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", user.ID,
		clientMetadata(r, map[string]any{"email": user.Email}))

	flashSuccess(w, r, h.renderer, next, fmt.Sprintf("Welcome back, %s!", user.DisplayName()))
}

func (h *AuthHandler) passwordMatches(user *model.User, password string) bool {
	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
		return false
	}
	return valid
}

// loginFailed records the failure and re-renders the form with the generic
// error. user is nil for unknown emails.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, user *model.User, data LoginData) {
	var userID int64
	if user != nil {
		userID = user.ID
	}
	slog.Debug("login failed", "email", data.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed", userID,
		clientMetadata(r, map[string]any{"email": data.Email}))

	data.Error = msgInvalidCredentials
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(data.Email); locked {
			data.Error = fmt.Sprintf("Too many failed login attempts. Try again in %s.", formatDuration(lockDuration))
		} else if remaining := h.loginProtection.GetRemainingAttempts(data.Email); remaining > 0 && remaining <= 2 {
			data.Error = fmt.Sprintf("%s %d attempts remaining.", msgInvalidCredentials, remaining)
		}
	}
	h.renderLogin(w, r, data)
}

// sessionStaff returns the signed-in staff user, or nil.
func (h *AuthHandler) sessionStaff(r *http.Request) *model.User {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)
	if userID == 0 {
		return nil
	}
	user, err := h.queries.GetUserByID(r.Context(), userID)
	if err != nil || !user.CanAccessAdmin() {
		return nil
	}
	return user
}

// pendingUser returns the user waiting for 2FA verification, or nil.
func (h *AuthHandler) pendingUser(r *http.Request) *model.User {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyPendingUserID)
	if userID == 0 {
		return nil
	}
	user, err := h.queries.GetUserByID(r.Context(), userID)
	if err != nil || !user.Is2FAEnabled || !user.CanAccessAdmin() {
		return nil
	}
	return user
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data LoginData) {
	data.Next = util.SafeRedirectPath(data.Next, "")
	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, "Sign in", data)
}

func (h *AuthHandler) renderVerify(w http.ResponseWriter, r *http.Request, status int, data VerifyData) {
	renderPage(w, r, h.renderer, status, tmplVerify, "Two-factor verification", data)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
