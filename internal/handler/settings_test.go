// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliohq/siteadmin/internal/cache"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
)

func TestSettingsPage_ShowsDefaults(t *testing.T) {
	e := newTestEnv(t)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	w := httptest.NewRecorder()
	h.Settings(w, e.staffRequest(t, http.MethodGet, "/settings", "", nil))

	assertStatus(t, w.Code, http.StatusOK)
	assert.Contains(t, w.Body.String(), model.DefaultSettings[model.SettingSiteName])
}

func TestSaveSettings(t *testing.T) {
	e := newTestEnv(t)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	form := url.Values{
		"site_name":        {"Ada's Corner"},
		"site_description": {"Notes"},
		"contact_email":    {"hello@example.com"},
		"posts_per_page":   {"25"},
		"maintenance_mode": {"true"},
	}
	req := e.staffRequest(t, http.MethodPost, "/settings", "", form)
	w := httptest.NewRecorder()
	h.SaveSettings(w, req)

	assertRedirect(t, w, "/settings")
	assert.True(t, e.hasFlash(req, render.FlashSuccess, "Settings saved."))

	got, err := e.queries.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada's Corner", got[model.SettingSiteName])
	assert.Equal(t, "25", got[model.SettingPostsPerPage])
	assert.Equal(t, "true", got[model.SettingMaintenanceMode])
}

func TestSaveSettings_InvalidatesCache(t *testing.T) {
	e := newTestEnv(t)
	mc := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mc.Close() })
	sc := cache.NewSettingsCache(mc, e.queries, time.Hour)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, sc)

	before, err := sc.GetSettings(context.Background(), model.SettingSiteName)
	require.NoError(t, err)
	assert.NotEqual(t, "Cached Name", before[model.SettingSiteName])

	form := url.Values{
		"site_name":      {"Cached Name"},
		"posts_per_page": {"10"},
	}
	w := httptest.NewRecorder()
	h.SaveSettings(w, e.staffRequest(t, http.MethodPost, "/settings", "", form))
	assertRedirect(t, w, "/settings")

	after, err := sc.GetSettings(context.Background(), model.SettingSiteName)
	require.NoError(t, err)
	assert.Equal(t, "Cached Name", after[model.SettingSiteName])
}

func TestSaveSettings_Invalid(t *testing.T) {
	e := newTestEnv(t)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{"zero page size", url.Values{"site_name": {"S"}, "posts_per_page": {"0"}}, "Posts per page must be at least 1"},
		{"page size too big", url.Values{"site_name": {"S"}, "posts_per_page": {"101"}}, "Posts per page must be at most 100"},
		{"blank site name", url.Values{"site_name": {""}, "posts_per_page": {"10"}}, "Site name is required"},
		{"bad email", url.Values{"site_name": {"S"}, "contact_email": {"x"}}, "Enter a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.SaveSettings(w, e.staffRequest(t, http.MethodPost, "/settings", "", tt.form))
			assertStatus(t, w.Code, http.StatusUnprocessableEntity)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}

	got, err := e.queries.GetSettings(context.Background(), model.SettingSiteName)
	require.NoError(t, err)
	assert.NotEqual(t, "S", got[model.SettingSiteName])
}

func TestSaveSEO(t *testing.T) {
	e := newTestEnv(t)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	form := url.Values{
		"default_title":       {"Ada"},
		"title_separator":     {" - "},
		"default_description": {"Personal site"},
		"robots_txt":          {"User-agent: *\r\nDisallow: /private"},
	}
	req := e.staffRequest(t, http.MethodPost, "/seo", "", form)
	w := httptest.NewRecorder()
	h.SaveSEO(w, req)

	assertRedirect(t, w, "/seo")
	assert.True(t, e.hasFlash(req, render.FlashSuccess, "SEO settings saved."))

	got, err := e.queries.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, " - ", got[model.SettingSEOTitleSeparator])
	assert.Equal(t, "User-agent: *\nDisallow: /private", got[model.SettingSEORobotsTxt])
}

func TestSaveSEO_InvalidRobots(t *testing.T) {
	e := newTestEnv(t)
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	form := url.Values{
		"default_title": {"Ada"},
		"robots_txt":    {"User-agent: *\r\nNoindex: /private"},
	}
	w := httptest.NewRecorder()
	h.SaveSEO(w, e.staffRequest(t, http.MethodPost, "/seo", "", form))

	assertStatus(t, w.Code, http.StatusUnprocessableEntity)
	assert.Contains(t, w.Body.String(), "robots.txt line 2")

	got, err := e.queries.GetSettings(context.Background(), model.SettingSEODefaultTitle)
	require.NoError(t, err)
	assert.NotEqual(t, "Ada", got[model.SettingSEODefaultTitle])
}

func TestSEOPage_Stats(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for i, meta := range []string{"has meta", "", ""} {
		p := &model.Post{Title: "P", Content: "c", Status: model.PostStatusDraft, AuthorID: e.staff.ID, MetaDescription: meta}
		if i == 0 {
			p.Status = model.PostStatusPublished
		}
		require.NoError(t, e.queries.CreatePost(ctx, p))
	}
	h := NewSettingsHandler(e.db, e.renderer, e.sm, nil)

	stats := h.seoStats(ctx)
	assert.EqualValues(t, 3, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.PostsWithMeta)
	assert.EqualValues(t, 2, stats.PostsMissingMeta)
	assert.EqualValues(t, 1, stats.PublishedPosts)
	assert.Equal(t, 33, stats.Score)

	w := httptest.NewRecorder()
	h.SEO(w, e.staffRequest(t, http.MethodGet, "/seo", "", nil))
	assertStatus(t, w.Code, http.StatusOK)
}

func TestSEOScore(t *testing.T) {
	tests := []struct {
		withMeta, total int64
		want            int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 67},
		{1, 8, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, seoScore(tt.withMeta, tt.total), "%d/%d", tt.withMeta, tt.total)
	}
}
