// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/util"
)

var postDuplicateMessages = map[string]string{
	"slug": "Slug already exists",
}

// PostsListData holds the blog list page data.
type PostsListData struct {
	Posts          []model.Post
	Status         string
	Statuses       []string
	TotalCount     int64
	PublishedCount int64
	DraftCount     int64
	TotalViews     int64
	Pagination     AdminPagination
}

// PostPreviewData holds a rendered post preview.
type PostPreviewData struct {
	Post *model.Post
	HTML template.HTML
}

// PostsHandler handles blog post management.
type PostsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager) *PostsHandler {
	queries := store.New(db)
	return &PostsHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(queries),
	}
}

// List handles GET /blog.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if !slices.Contains(model.ValidPostStatuses, status) {
		status = ""
	}

	data := PostsListData{Status: status, Statuses: model.ValidPostStatuses}
	data.TotalCount = countOrZero(ctx, "posts", h.queries.CountPosts)
	data.PublishedCount = countOrZero(ctx, "published posts", func(ctx context.Context) (int64, error) {
		return h.queries.CountPostsByStatus(ctx, model.PostStatusPublished)
	})
	data.DraftCount = countOrZero(ctx, "draft posts", func(ctx context.Context) (int64, error) {
		return h.queries.CountPostsByStatus(ctx, model.PostStatusDraft)
	})
	data.TotalViews = countOrZero(ctx, "post views", h.queries.SumPostViews)

	filtered := data.TotalCount
	switch status {
	case model.PostStatusPublished:
		filtered = data.PublishedCount
	case model.PostStatusDraft:
		filtered = data.DraftCount
	}

	page := NormalizePagination(ParsePageParam(r), filtered, PostsPerPage)
	posts, err := h.queries.ListPosts(ctx, store.PostFilter{
		Status: status,
		Limit:  PostsPerPage,
		Offset: (page - 1) * PostsPerPage,
	})
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}
	data.Posts = posts
	data.Pagination = BuildAdminPagination(page, filtered, PostsPerPage, redirectBlog, r.URL.Query())

	renderPage(w, r, h.renderer, http.StatusOK, tmplPostsList, "Blog posts", data)
}

// NewForm handles GET /blog/create.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	in := postInput{Status: model.PostStatusDraft}
	h.renderForm(w, r, http.StatusOK, "New post", in.values(), nil, false, redirectBlog+RouteSuffixCreate)
}

// Create handles POST /blog/create.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	action := redirectBlog + RouteSuffixCreate
	if !parseFormOrRedirect(w, r, h.renderer, action) {
		return
	}

	in := parsePostInput(r)
	errs := h.validate(r.Context(), in, 0)
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "New post", in.values(), errs, false, action)
		return
	}

	user := middleware.GetUser(r)
	post := &model.Post{
		Title:           in.Title,
		Content:         in.Content,
		Excerpt:         plainText(in.Excerpt),
		Slug:            util.NullString(in.Slug),
		Status:          in.Status,
		MetaDescription: in.MetaDescription,
		Tags:            util.ParseTags(in.Tags),
		AuthorID:        user.ID,
	}

	if err := h.queries.CreatePost(r.Context(), post); err != nil {
		if fieldErrs, ok := duplicateFieldErrors(err, postDuplicateMessages); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "New post", in.values(), fieldErrs, false, action)
			return
		}
		logAndInternalError(w, "failed to create post", "error", err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.SlugValue(), "created_by", user.ID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryPost, "Post created", user.ID,
		map[string]any{"post_id": post.ID, "title": post.Title})

	flashSuccess(w, r, h.renderer, redirectBlog, fmt.Sprintf("Post %q created.", post.Title))
}

// EditForm handles GET /blog/{id}.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntity(w, r, "Post", h.getPost(r))
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, "Edit post", postInputFromModel(post).values(), nil, true, editURL(redirectBlog, post.ID))
}

// Update handles POST /blog/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntity(w, r, "Post", h.getPost(r))
	if !ok {
		return
	}
	action := editURL(redirectBlog, post.ID)
	if !parseFormOrRedirect(w, r, h.renderer, action) {
		return
	}

	in := parsePostInput(r)
	in.Slug = postUpdatePolicy.Apply("slug", post.SlugValue(), in.Slug)

	errs := h.validate(r.Context(), in, post.ID)
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit post", in.values(), errs, true, action)
		return
	}

	post.Title = in.Title
	post.Content = in.Content
	post.Excerpt = plainText(in.Excerpt)
	post.Slug = util.NullString(in.Slug)
	post.Status = in.Status
	post.MetaDescription = in.MetaDescription
	post.Tags = util.ParseTags(in.Tags)

	if err := h.queries.UpdatePost(r.Context(), post); err != nil {
		if fieldErrs, ok := duplicateFieldErrors(err, postDuplicateMessages); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit post", in.values(), fieldErrs, true, action)
			return
		}
		if store.IsNotFound(err) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to update post", "error", err, "post_id", post.ID)
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info("post updated", "post_id", post.ID, "updated_by", userID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryPost, "Post updated", userID,
		map[string]any{"post_id": post.ID, "title": post.Title})

	flashSuccess(w, r, h.renderer, redirectBlog, fmt.Sprintf("Post %q updated.", post.Title))
}

// Delete handles POST /blog/{id}/delete.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleteEntity(w, r, h.renderer, h.eventService, model.EventCategoryPost, "Post", redirectBlog,
		h.getPost(r),
		func(p *model.Post) string { return p.Title },
		func(id int64) error { return h.queries.DeletePost(r.Context(), id) },
	)
}

// Preview handles GET /blog/{id}/preview, rendering the content as Markdown.
func (h *PostsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntity(w, r, "Post", h.getPost(r))
	if !ok {
		return
	}
	body, err := renderMarkdown(post.Content)
	if err != nil {
		logAndInternalError(w, "failed to render post preview", "error", err, "post_id", post.ID)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplPostPreview, "Preview: "+post.Title, PostPreviewData{Post: post, HTML: body})
}

func (h *PostsHandler) getPost(r *http.Request) func(int64) (*model.Post, error) {
	return func(id int64) (*model.Post, error) {
		return h.queries.GetPostByID(r.Context(), id)
	}
}

// validate checks the input schema and, for a non-blank slug, its
// uniqueness among posts other than excludeID.
func (h *PostsHandler) validate(ctx context.Context, in postInput, excludeID int64) map[string]string {
	errs := validateInput(in)
	if in.Slug != "" && errs["slug"] == "" {
		msg := ValidateSlugWithChecker(in.Slug, func() (bool, error) {
			return h.queries.PostSlugExists(ctx, in.Slug, excludeID)
		})
		if msg != "" {
			errs["slug"] = msg
		}
	}
	return errs
}

func (h *PostsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, values, errs map[string]string, isEdit bool, action string) {
	renderPage(w, r, h.renderer, status, tmplPostForm, title, FormData{
		Values:   values,
		Errors:   errs,
		IsEdit:   isEdit,
		Action:   action,
		Statuses: model.ValidPostStatuses,
	})
}
