// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/auth"
	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 8

var profileDuplicateMessages = map[string]string{
	"email":    "That email address is already in use.",
	"username": "That username is already taken.",
}

// ProfileData holds the profile page data.
type ProfileData struct {
	Form         FormData
	Is2FAEnabled bool
	LastLoginAt  time.Time
}

// TwoFactorData holds the 2FA setup page data.
type TwoFactorData struct {
	QRCode  template.URL
	Secret  string
	Account string
	Issuer  string
}

// ProfileHandler handles the signed-in user's profile and two-factor setup.
type ProfileHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	issuer         string
	now            func() time.Time
}

// NewProfileHandler creates a new ProfileHandler. issuer names the account
// in authenticator apps.
func NewProfileHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager, issuer string) *ProfileHandler {
	queries := store.New(db)
	return &ProfileHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(queries),
		issuer:         issuer,
		now:            time.Now,
	}
}

// Profile handles GET /profile.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	data := ProfileData{
		Form: FormData{
			Values: map[string]string{
				"name":     user.Name,
				"email":    user.Email,
				"username": user.Username,
			},
			IsEdit: true,
			Action: redirectProfile,
		},
		Is2FAEnabled: user.Is2FAEnabled,
	}
	if user.LastLoginAt.Valid {
		data.LastLoginAt = user.LastLoginAt.Time
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplProfile, "Profile", data)
}

// UpdateProfile handles POST /profile. Blank name, email and username keep
// their stored values. The password changes only when both the current and
// a new password are given; a rejected password change does not stop the
// other fields from being saved.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	in := parseProfileInput(r)
	if errs := validateInput(in); len(errs) > 0 {
		flashError(w, r, h.renderer, redirectProfile, firstError(errs))
		return
	}

	current := middleware.GetUser(r)
	user := *current
	user.Name = profileUpdatePolicy.Apply("name", current.Name, in.Name)
	user.Email = profileUpdatePolicy.Apply("email", current.Email, in.Email)
	user.Username = profileUpdatePolicy.Apply("username", current.Username, in.Username)

	var (
		newHash  string
		pwFlash  render.Flash
		pwFailed bool
	)
	if in.wantsPasswordChange() {
		switch {
		case !h.checkPassword(current, in.CurrentPassword):
			pwFlash, pwFailed = render.Flash{Type: render.FlashError, Message: "Current password is incorrect."}, true
		case in.NewPassword != in.NewPasswordConfirm:
			pwFlash, pwFailed = render.Flash{Type: render.FlashError, Message: "New passwords do not match."}, true
		case len([]rune(in.NewPassword)) < MinPasswordLength:
			pwFlash, pwFailed = render.Flash{Type: render.FlashError, Message: "New password must be at least 8 characters."}, true
		default:
			hash, err := auth.HashPassword(in.NewPassword)
			if err != nil {
				logAndInternalError(w, "failed to hash password", "error", err, "user_id", user.ID)
				return
			}
			newHash = hash
			pwFlash = render.Flash{Type: render.FlashSuccess, Message: "Your password has been changed."}
		}
	}

	err := h.queries.Transaction(r.Context(), func(tx *store.Queries) error {
		if err := tx.UpdateUserProfile(r.Context(), &user); err != nil {
			return err
		}
		if newHash != "" {
			return tx.UpdateUserPassword(r.Context(), user.ID, newHash)
		}
		return nil
	})
	if err != nil {
		if fieldErrs, ok := duplicateFieldErrors(err, profileDuplicateMessages); ok {
			flashError(w, r, h.renderer, redirectProfile, firstError(fieldErrs))
			return
		}
		logAndInternalError(w, "failed to update profile", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("profile updated", "user_id", user.ID, "password_changed", newHash != "")
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryProfile, "Profile updated", user.ID,
		map[string]any{"password_changed": newHash != ""})
	if pwFailed {
		slog.Warn("password change rejected", "category", model.EventCategoryProfile, "user_id", user.ID, "reason", pwFlash.Message)
	}

	if pwFlash.Message != "" {
		h.renderer.AddFlash(r, pwFlash.Type, pwFlash.Message)
	}
	flashSuccess(w, r, h.renderer, redirectProfile, "Profile updated.")
}

// TwoFactorSetup handles GET /profile/2fa. A TOTP secret is generated and
// stored on first visit and reused until 2FA is enabled or disabled.
func (h *ProfileHandler) TwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user.Is2FAEnabled {
		flashAndRedirect(w, r, h.renderer, redirectProfile, render.FlashInfo, "Two-factor authentication is already enabled.")
		return
	}

	secret := user.TOTPSecret.String
	if !user.TOTPSecret.Valid || secret == "" {
		secret = auth.GenerateTOTPSecret()
		if err := h.queries.SetUserTOTPSecret(r.Context(), user.ID, secret); err != nil {
			logAndInternalError(w, "failed to store totp secret", "error", err, "user_id", user.ID)
			return
		}
		slog.Info("totp secret generated", "user_id", user.ID)
	}

	qr, err := auth.QRCodeDataURI(auth.ProvisioningURI(secret, user.Email, h.issuer))
	if err != nil {
		logAndInternalError(w, "failed to render qr code", "error", err, "user_id", user.ID)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplTwoFactor, "Two-factor authentication", TwoFactorData{
		QRCode:  template.URL(qr), // #nosec G203 -- data: URI built from our own PNG
		Secret:  secret,
		Account: user.Email,
		Issuer:  h.issuer,
	})
}

// EnableTwoFactor handles POST /profile/2fa.
func (h *ProfileHandler) EnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user.Is2FAEnabled {
		flashAndRedirect(w, r, h.renderer, redirectProfile, render.FlashInfo, "Two-factor authentication is already enabled.")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile2FA) {
		return
	}

	in := parseCodeInput(r)
	if !user.TOTPSecret.Valid || len(validateInput(in)) > 0 || !auth.VerifyTOTP(user.TOTPSecret.String, in.Code, h.now()) {
		slog.Warn("invalid 2FA setup code", "category", model.EventCategoryProfile, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectProfile2FA, msgInvalidCode)
		return
	}

	if err := h.queries.EnableUser2FA(r.Context(), user.ID); err != nil {
		logAndInternalError(w, "failed to enable 2fa", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("2fa enabled", "user_id", user.ID)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Two-factor authentication enabled", user.ID, nil)
	flashSuccess(w, r, h.renderer, redirectProfile, "Two-factor authentication enabled.")
}

// DisableTwoFactor handles POST /profile/2fa/disable. The current password
// is required.
func (h *ProfileHandler) DisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	user := middleware.GetUser(r)
	if !h.checkPassword(user, r.PostFormValue("password")) {
		flashError(w, r, h.renderer, redirectProfile, "Current password is incorrect.")
		return
	}

	if err := h.queries.DisableUser2FA(r.Context(), user.ID); err != nil {
		logAndInternalError(w, "failed to disable 2fa", "error", err, "user_id", user.ID)
		return
	}

	slog.Warn("2fa disabled", "category", model.EventCategoryAuth, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectProfile, "Two-factor authentication disabled.")
}

func (h *ProfileHandler) checkPassword(user *model.User, password string) bool {
	if password == "" {
		return false
	}
	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
		return false
	}
	return ok
}

// firstError returns one message from errs, picking the alphabetically first
// field so the choice is stable.
func firstError(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		return ""
	}
	return errs[keys[0]]
}
