// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/store"
)

func postForm(title, slug, status string) url.Values {
	return url.Values{
		"title":            {title},
		"content":          {"# Heading\n\nBody text."},
		"excerpt":          {"<b>Short</b> &amp; sweet"},
		"slug":             {slug},
		"status":           {status},
		"meta_description": {"About " + title},
		"tags":             {"go, web , "},
	}
}

func createTestPost(t *testing.T, e *testEnv, title, slug, status string) *model.Post {
	t.Helper()
	p := &model.Post{
		Title:    title,
		Content:  "content",
		Status:   status,
		AuthorID: e.staff.ID,
	}
	if slug != "" {
		p.Slug = sql.NullString{String: slug, Valid: true}
	}
	require.NoError(t, e.queries.CreatePost(context.Background(), p))
	return p
}

func onlyPost(t *testing.T, e *testEnv) model.Post {
	t.Helper()
	posts, err := e.queries.ListPosts(context.Background(), store.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	return posts[0]
}

func TestPostsCreate(t *testing.T) {
	e := newTestEnv(t)
	h := NewPostsHandler(e.db, e.renderer, e.sm)

	req := e.staffRequest(t, http.MethodPost, "/blog/create", "", postForm("Hello World", "hello-world", "published"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assertRedirect(t, w, "/blog")
	assert.True(t, e.hasFlash(req, render.FlashSuccess, `Post "Hello World" created.`))

	p := onlyPost(t, e)
	assert.Equal(t, "hello-world", p.SlugValue())
	assert.Equal(t, e.staff.ID, p.AuthorID)
	assert.Equal(t, "Short & sweet", p.Excerpt)
	assert.Equal(t, []string{"go", "web"}, p.Tags)
	assert.True(t, p.IsPublished())
}

func TestPostsCreate_BlankSlugStoredAsNull(t *testing.T) {
	e := newTestEnv(t)
	h := NewPostsHandler(e.db, e.renderer, e.sm)

	req := e.staffRequest(t, http.MethodPost, "/blog/create", "", postForm("No Slug Here", "", "draft"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assertRedirect(t, w, "/blog")
	p := onlyPost(t, e)
	assert.False(t, p.Slug.Valid)
	assert.Equal(t, "no-slug-here", p.DisplaySlug())

	// A second blank slug is not a uniqueness conflict.
	req = e.staffRequest(t, http.MethodPost, "/blog/create", "", postForm("Another", "", "draft"))
	w = httptest.NewRecorder()
	h.Create(w, req)
	assertRedirect(t, w, "/blog")
}

func TestPostsCreate_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)
	createTestPost(t, e, "Existing", "taken", model.PostStatusDraft)
	h := NewPostsHandler(e.db, e.renderer, e.sm)

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{"duplicate slug", postForm("New", "taken", "draft"), "Slug already exists"},
		{"bad slug", postForm("New", "Not A Slug!", "draft"), "Invalid slug format"},
		{"bad status", postForm("New", "", "archived"), "Choose a valid status"},
		{"missing title", postForm("", "", "draft"), "Title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.staffRequest(t, http.MethodPost, "/blog/create", "", tt.form)
			w := httptest.NewRecorder()
			h.Create(w, req)

			assertStatus(t, w.Code, http.StatusUnprocessableEntity)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}

	n, err := e.queries.CountPosts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPostsUpdate_BlankSlugKeepsExisting(t *testing.T) {
	e := newTestEnv(t)
	p := createTestPost(t, e, "Original", "original", model.PostStatusDraft)
	h := NewPostsHandler(e.db, e.renderer, e.sm)
	id := strconv.FormatInt(p.ID, 10)

	req := e.staffRequest(t, http.MethodPost, "/blog/"+id, id, postForm("Renamed", "", "published"))
	w := httptest.NewRecorder()
	h.Update(w, req)

	assertRedirect(t, w, "/blog")
	assert.True(t, e.hasFlash(req, render.FlashSuccess, `Post "Renamed" updated.`))

	got, err := e.queries.GetPostByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "original", got.SlugValue())
	assert.Equal(t, model.PostStatusPublished, got.Status)
}

func TestPostsUpdate_OwnSlugIsNotDuplicate(t *testing.T) {
	e := newTestEnv(t)
	p := createTestPost(t, e, "Mine", "mine", model.PostStatusDraft)
	h := NewPostsHandler(e.db, e.renderer, e.sm)
	id := strconv.FormatInt(p.ID, 10)

	req := e.staffRequest(t, http.MethodPost, "/blog/"+id, id, postForm("Mine", "mine", "draft"))
	w := httptest.NewRecorder()
	h.Update(w, req)

	assertRedirect(t, w, "/blog")
}

func TestPostsEditForm(t *testing.T) {
	e := newTestEnv(t)
	p := createTestPost(t, e, "Editable", "editable", model.PostStatusDraft)
	h := NewPostsHandler(e.db, e.renderer, e.sm)

	t.Run("existing", func(t *testing.T) {
		id := strconv.FormatInt(p.ID, 10)
		w := httptest.NewRecorder()
		h.EditForm(w, e.staffRequest(t, http.MethodGet, "/blog/"+id, id, nil))
		assertStatus(t, w.Code, http.StatusOK)
		assert.Contains(t, w.Body.String(), "Editable")
	})

	for _, id := range []string{"999", "abc", "0"} {
		t.Run("missing "+id, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.EditForm(w, e.staffRequest(t, http.MethodGet, "/blog/"+id, id, nil))
			assertStatus(t, w.Code, http.StatusNotFound)
		})
	}
}

func TestPostsDelete(t *testing.T) {
	e := newTestEnv(t)
	p := createTestPost(t, e, "Doomed", "", model.PostStatusDraft)
	h := NewPostsHandler(e.db, e.renderer, e.sm)
	id := strconv.FormatInt(p.ID, 10)

	req := e.staffRequest(t, http.MethodPost, "/blog/"+id+"/delete", id, url.Values{})
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assertRedirect(t, w, "/blog")
	assert.True(t, e.hasFlash(req, render.FlashSuccess, `Post "Doomed" deleted.`))
	_, err := e.queries.GetPostByID(context.Background(), p.ID)
	assert.True(t, store.IsNotFound(err))

	w = httptest.NewRecorder()
	h.Delete(w, e.staffRequest(t, http.MethodPost, "/blog/"+id+"/delete", id, url.Values{}))
	assertStatus(t, w.Code, http.StatusNotFound)
}

func TestPostsList_StatusFilterAndPagination(t *testing.T) {
	e := newTestEnv(t)
	for i := range PostsPerPage + 3 {
		createTestPost(t, e, fmt.Sprintf("Draft %02d", i), "", model.PostStatusDraft)
	}
	createTestPost(t, e, "The Published One", "", model.PostStatusPublished)
	h := NewPostsHandler(e.db, e.renderer, e.sm)

	t.Run("published only", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, e.staffRequest(t, http.MethodGet, "/blog?status=published", "", nil))
		assertStatus(t, w.Code, http.StatusOK)
		body := w.Body.String()
		assert.Contains(t, body, "The Published One")
		assert.NotContains(t, body, "Draft 00")
	})

	t.Run("second page", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, e.staffRequest(t, http.MethodGet, "/blog?status=draft&page=2", "", nil))
		assertStatus(t, w.Code, http.StatusOK)
		body := w.Body.String()
		// Newest first: the oldest three drafts spill onto page two.
		assert.Contains(t, body, "Draft 00")
		assert.NotContains(t, body, "The Published One")
	})

	t.Run("unknown status lists everything", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, e.staffRequest(t, http.MethodGet, "/blog?status=bogus", "", nil))
		assertStatus(t, w.Code, http.StatusOK)
		assert.Contains(t, w.Body.String(), "The Published One")
	})
}

func TestPostsPreview(t *testing.T) {
	e := newTestEnv(t)
	p := &model.Post{
		Title:    "Preview Me",
		Content:  "## Subtitle\n\n<script>alert(1)</script>\n\n**bold**",
		Status:   model.PostStatusDraft,
		AuthorID: e.staff.ID,
	}
	require.NoError(t, e.queries.CreatePost(context.Background(), p))
	h := NewPostsHandler(e.db, e.renderer, e.sm)
	id := strconv.FormatInt(p.ID, 10)

	w := httptest.NewRecorder()
	h.Preview(w, e.staffRequest(t, http.MethodGet, "/blog/"+id+"/preview", id, nil))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	assert.Contains(t, body, "<strong>bold</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}
