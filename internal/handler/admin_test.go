// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/service"
)

func TestDashboard_EmptyDatabase(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.sm)

	d := h.collect(context.Background())
	assert.Zero(t, d.Blog.Total)
	assert.Zero(t, d.Tools.Total)
	assert.Zero(t, d.Cybersecurity.Total)
	assert.Empty(t, d.RecentPosts)

	w := httptest.NewRecorder()
	h.Dashboard(w, e.staffRequest(t, http.MethodGet, "/", "", nil))
	assertStatus(t, w.Code, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Dashboard")
}

func TestDashboard_Counts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for _, p := range []*model.Post{
		{Title: "Live", Content: "c", Status: model.PostStatusPublished, AuthorID: e.staff.ID, ViewCount: 7},
		{Title: "Wip", Content: "c", Status: model.PostStatusDraft, AuthorID: e.staff.ID, ViewCount: 3},
	} {
		require.NoError(t, e.queries.CreatePost(ctx, p))
	}
	require.NoError(t, e.queries.CreateTool(ctx, &model.Tool{Title: "A", URL: "https://a.example", IsVisible: true}))
	require.NoError(t, e.queries.CreateTool(ctx, &model.Tool{Title: "B", URL: "https://b.example"}))
	require.NoError(t, e.queries.CreateAITool(ctx, &model.AITool{Name: "C", URL: "https://c.example", IsFeatured: true}))
	require.NoError(t, e.queries.CreateCybersecurityResource(ctx, &model.CybersecurityResource{
		Title: "Zero day", Description: "d", Type: model.CyberTypeVulnerability, SeverityLevel: model.SeverityCritical, IsUrgent: true,
	}))
	require.NoError(t, e.queries.CreateProject(ctx, &model.Project{Title: "P"}))
	require.NoError(t, e.queries.CreateSocialLink(ctx, &model.SocialLink{Platform: "GitHub", URL: "https://github.com/x"}))

	h := NewAdminHandler(e.db, e.renderer, e.sm)
	d := h.collect(ctx)

	assert.Equal(t, BlogStats{Total: 2, Recent: 2, Published: 1, Draft: 1, Views: 10}, d.Blog)
	assert.Equal(t, ToolStats{Total: 2, Visible: 1}, d.Tools)
	assert.Equal(t, AIToolStats{Total: 1, Featured: 1}, d.AITools)
	assert.Equal(t, CyberStats{Total: 1, Urgent: 1, Critical: 1}, d.Cybersecurity)
	assert.Equal(t, PortfolioStats{Projects: 1, SocialLinks: 1}, d.Portfolio)
	assert.Len(t, d.RecentPosts, 2)
	assert.Len(t, d.RecentCyber, 1)

	w := httptest.NewRecorder()
	h.Dashboard(w, e.staffRequest(t, http.MethodGet, "/", "", nil))
	assertStatus(t, w.Code, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Zero day")
}

func TestDashboard_RecentEventsShowSubject(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.sm)

	require.NoError(t, service.NewEventService(e.queries).LogAuthEvent(context.Background(),
		model.EventLevelWarning, "Login failed", 0, map[string]any{"email": "intruder@example.com"}))

	w := httptest.NewRecorder()
	h.Dashboard(w, e.staffRequest(t, http.MethodGet, "/", "", nil))
	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	assert.Contains(t, body, "Login failed")
	assert.Contains(t, body, "intruder@example.com")
	assert.Contains(t, body, "level-warning")
}
