// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/cache"
	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/seo"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// SEOStats summarises how well posts are prepared for search engines.
type SEOStats struct {
	TotalPosts       int64
	PostsWithTitle   int64
	PostsWithMeta    int64
	PublishedPosts   int64
	PostsMissingMeta int64
	Score            int
}

// SEOPageData holds the SEO form and the post statistics.
type SEOPageData struct {
	Form  FormData
	Stats SEOStats
}

// SettingsHandler handles site and SEO settings.
type SettingsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	settingsCache  *cache.SettingsCache
}

// NewSettingsHandler creates a new SettingsHandler. The form pages read the
// database directly; sc, if non-nil, is invalidated after every save.
func NewSettingsHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager, sc *cache.SettingsCache) *SettingsHandler {
	queries := store.New(db)
	return &SettingsHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(queries),
		settingsCache:  sc,
	}
}

// Settings handles GET /settings.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadSettings(w, r)
	if !ok {
		return
	}
	h.renderSettings(w, r, http.StatusOK, settingsInputFromMap(current).values(), nil)
}

// SaveSettings handles POST /settings.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSettings) {
		return
	}

	in := parseSettingsInput(r)
	if errs := validateInput(in); len(errs) > 0 {
		h.renderSettings(w, r, http.StatusUnprocessableEntity, in.values(), errs)
		return
	}

	if !h.save(w, r, in.settings(), "Settings updated") {
		return
	}
	flashSuccess(w, r, h.renderer, redirectSettings, "Settings saved.")
}

// SEO handles GET /seo.
func (h *SettingsHandler) SEO(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadSettings(w, r)
	if !ok {
		return
	}
	h.renderSEO(w, r, http.StatusOK, seoInputFromMap(current).values(), nil)
}

// SaveSEO handles POST /seo.
func (h *SettingsHandler) SaveSEO(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSEO) {
		return
	}

	in := parseSEOInput(r)
	errs := validateInput(in)
	if err := seo.ValidateRobots(in.RobotsTxt); err != nil && errs["robots_txt"] == "" {
		errs["robots_txt"] = "robots.txt " + err.Error()
	}
	if len(errs) > 0 {
		h.renderSEO(w, r, http.StatusUnprocessableEntity, in.values(), errs)
		return
	}

	if !h.save(w, r, in.settings(), "SEO settings updated") {
		return
	}
	flashSuccess(w, r, h.renderer, redirectSEO, "SEO settings saved.")
}

// loadSettings returns stored settings with defaults filled in for missing keys.
func (h *SettingsHandler) loadSettings(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	stored, err := h.queries.GetSettings(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load settings", "error", err)
		return nil, false
	}
	merged := maps.Clone(model.DefaultSettings)
	maps.Copy(merged, stored)
	return merged, true
}

func (h *SettingsHandler) save(w http.ResponseWriter, r *http.Request, values map[string]string, event string) bool {
	if err := h.queries.SetSettings(r.Context(), values); err != nil {
		logAndInternalError(w, "failed to save settings", "error", err)
		return false
	}
	if h.settingsCache != nil {
		if err := h.settingsCache.Invalidate(r.Context()); err != nil {
			slog.Warn("failed to invalidate settings cache", "error", err)
		}
	}

	userID := middleware.GetUserID(r)
	slog.Info("settings saved", "keys", len(values), "updated_by", userID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategorySettings, event, userID, nil)
	return true
}

func (h *SettingsHandler) renderSettings(w http.ResponseWriter, r *http.Request, status int, values, errs map[string]string) {
	renderPage(w, r, h.renderer, status, tmplSettings, "Settings", FormData{
		Values: values,
		Errors: errs,
		IsEdit: true,
		Action: redirectSettings,
	})
}

func (h *SettingsHandler) renderSEO(w http.ResponseWriter, r *http.Request, status int, values, errs map[string]string) {
	renderPage(w, r, h.renderer, status, tmplSEO, "SEO", SEOPageData{
		Form: FormData{
			Values: values,
			Errors: errs,
			IsEdit: true,
			Action: redirectSEO,
		},
		Stats: h.seoStats(r.Context()),
	})
}

func (h *SettingsHandler) seoStats(ctx context.Context) SEOStats {
	s := SEOStats{
		TotalPosts:     countOrZero(ctx, "posts", h.queries.CountPosts),
		PostsWithTitle: countOrZero(ctx, "posts with title", h.queries.CountPostsWithTitle),
		PostsWithMeta:  countOrZero(ctx, "posts with meta description", h.queries.CountPostsWithMetaDescription),
		PublishedPosts: countOrZero(ctx, "published posts", func(ctx context.Context) (int64, error) {
			return h.queries.CountPostsByStatus(ctx, model.PostStatusPublished)
		}),
	}
	s.PostsMissingMeta = max(s.TotalPosts-s.PostsWithMeta, 0)
	s.Score = seoScore(s.PostsWithMeta, s.TotalPosts)
	return s
}

// seoScore is the rounded percentage of posts carrying a meta description,
// zero when there are no posts.
func seoScore(withMeta, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(withMeta) / float64(total)))
}
