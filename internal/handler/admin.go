// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the admin back-office:
// authentication, the dashboard, content CRUD, settings and profile.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// Dashboard window sizes.
const (
	dashboardRecentDays   = 30
	dashboardRecentPosts  = 5
	dashboardRecentCyber  = 5
	dashboardRecentEvents = 10
)

// BlogStats summarises posts on the dashboard.
type BlogStats struct {
	Total     int64
	Recent    int64
	Published int64
	Draft     int64
	Views     int64
}

// ToolStats summarises the tools catalog.
type ToolStats struct {
	Total   int64
	Visible int64
}

// AIToolStats summarises the AI tools catalog.
type AIToolStats struct {
	Total    int64
	Featured int64
}

// CyberStats summarises cybersecurity resources.
type CyberStats struct {
	Total    int64
	Urgent   int64
	Critical int64
}

// PortfolioStats summarises portfolio content.
type PortfolioStats struct {
	Projects    int64
	SocialLinks int64
}

// DashboardData holds all dashboard data including stats and recent items.
type DashboardData struct {
	Blog          BlogStats
	Tools         ToolStats
	AITools       AIToolStats
	Cybersecurity CyberStats
	Portfolio     PortfolioStats

	RecentPosts  []model.Post
	RecentCyber  []model.CybersecurityResource
	RecentEvents []model.Event
}

// AdminHandler handles the dashboard.
type AdminHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	now            func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		now:            time.Now,
	}
}

// Dashboard renders the admin dashboard with stats and recent activity.
// Every figure is computed per request; a failing query is logged and leaves
// its zero value.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplDashboard, "Dashboard", h.collect(r.Context()))
}

func (h *AdminHandler) collect(ctx context.Context) DashboardData {
	var d DashboardData
	since := h.now().AddDate(0, 0, -dashboardRecentDays)

	d.Blog.Total = countOrZero(ctx, "posts", h.queries.CountPosts)
	d.Blog.Recent = countOrZero(ctx, "recent posts", func(ctx context.Context) (int64, error) {
		return h.queries.CountPostsSince(ctx, since)
	})
	d.Blog.Published = countOrZero(ctx, "published posts", func(ctx context.Context) (int64, error) {
		return h.queries.CountPostsByStatus(ctx, model.PostStatusPublished)
	})
	d.Blog.Draft = countOrZero(ctx, "draft posts", func(ctx context.Context) (int64, error) {
		return h.queries.CountPostsByStatus(ctx, model.PostStatusDraft)
	})
	d.Blog.Views = countOrZero(ctx, "post views", h.queries.SumPostViews)

	d.Tools.Total = countOrZero(ctx, "tools", h.queries.CountTools)
	d.Tools.Visible = countOrZero(ctx, "visible tools", h.queries.CountVisibleTools)
	d.AITools.Total = countOrZero(ctx, "ai tools", h.queries.CountAITools)
	d.AITools.Featured = countOrZero(ctx, "featured ai tools", h.queries.CountFeaturedAITools)

	d.Cybersecurity.Total = countOrZero(ctx, "cybersecurity resources", h.queries.CountCybersecurityResources)
	d.Cybersecurity.Urgent = countOrZero(ctx, "urgent resources", h.queries.CountUrgentCybersecurityResources)
	d.Cybersecurity.Critical = countOrZero(ctx, "critical resources", func(ctx context.Context) (int64, error) {
		return h.queries.CountCybersecurityBySeverityLevel(ctx, model.SeverityCritical)
	})

	d.Portfolio.Projects = countOrZero(ctx, "projects", h.queries.CountProjects)
	d.Portfolio.SocialLinks = countOrZero(ctx, "social links", h.queries.CountSocialLinks)

	var err error
	if d.RecentPosts, err = h.queries.RecentPosts(ctx, dashboardRecentPosts); err != nil {
		slog.Error("failed to load recent posts", "error", err)
	}
	if d.RecentCyber, err = h.queries.RecentCybersecurityResources(ctx, dashboardRecentCyber); err != nil {
		slog.Error("failed to load recent cybersecurity resources", "error", err)
	}
	if d.RecentEvents, err = h.queries.ListRecentEvents(ctx, dashboardRecentEvents); err != nil {
		slog.Error("failed to load recent events", "error", err)
	}
	return d
}

func countOrZero(ctx context.Context, what string, fn func(context.Context) (int64, error)) int64 {
	n, err := fn(ctx)
	if err != nil {
		slog.Error("failed to count "+what, "error", err)
		return 0
	}
	return n
}
