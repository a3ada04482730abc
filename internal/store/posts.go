// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// PostFilter narrows ListPosts.
type PostFilter struct {
	Status string // empty means any
	Limit  int
	Offset int
}

// ListPosts returns posts newest first with their authors loaded.
func (q *Queries) ListPosts(ctx context.Context, f PostFilter) ([]model.Post, error) {
	tx := q.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Order("id DESC")
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit).Offset(f.Offset)
	}
	var posts []model.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// RecentPosts returns the n newest posts.
func (q *Queries) RecentPosts(ctx context.Context, n int) ([]model.Post, error) {
	return q.ListPosts(ctx, PostFilter{Limit: n})
}

// GetPostByID returns a post with its author loaded.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := q.db.WithContext(ctx).Preload("Author").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// CreatePost inserts a post.
func (q *Queries) CreatePost(ctx context.Context, p *model.Post) error {
	return create(ctx, q.db, p)
}

// UpdatePost saves every editable column of p.
func (q *Queries) UpdatePost(ctx context.Context, p *model.Post) error {
	return update(ctx, q.db, p, "title", "content", "excerpt", "slug", "status", "meta_description", "tags")
}

// DeletePost removes a post.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	return deleteByID[model.Post](ctx, q.db, id)
}

// PostSlugExists reports whether slug is used by a post other than excludeID.
func (q *Queries) PostSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	n, err := count[model.Post](ctx, q.db, "slug = ? AND id <> ?", slug, excludeID)
	return n > 0, err
}

// CountPosts returns the number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	return count[model.Post](ctx, q.db, nil)
}

// CountPostsByStatus returns the number of posts with the given status.
func (q *Queries) CountPostsByStatus(ctx context.Context, status string) (int64, error) {
	return count[model.Post](ctx, q.db, "status = ?", status)
}

// CountPostsSince returns the number of posts created at or after since.
func (q *Queries) CountPostsSince(ctx context.Context, since time.Time) (int64, error) {
	return count[model.Post](ctx, q.db, "created_at >= ?", since.UTC())
}

// CountPostsWithMetaDescription returns the number of posts that have a
// non-blank meta description.
func (q *Queries) CountPostsWithMetaDescription(ctx context.Context) (int64, error) {
	return count[model.Post](ctx, q.db, "TRIM(meta_description) <> ''")
}

// CountPostsWithTitle returns the number of posts that have a non-blank title.
func (q *Queries) CountPostsWithTitle(ctx context.Context) (int64, error) {
	return count[model.Post](ctx, q.db, "TRIM(title) <> ''")
}

// SumPostViews returns the total view count, zero when there are no posts.
func (q *Queries) SumPostViews(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.WithContext(ctx).Model(&model.Post{}).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	return total, err
}
