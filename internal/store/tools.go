// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// ListTools returns tools ordered by category then title.
func (q *Queries) ListTools(ctx context.Context) ([]model.Tool, error) {
	var items []model.Tool
	err := q.db.WithContext(ctx).Order("category").Order("title").Find(&items).Error
	return items, err
}

// GetTool returns a tool by id.
func (q *Queries) GetTool(ctx context.Context, id int64) (*model.Tool, error) {
	return getByID[model.Tool](ctx, q.db, id)
}

// CreateTool inserts a tool.
func (q *Queries) CreateTool(ctx context.Context, t *model.Tool) error {
	return create(ctx, q.db, t)
}

// UpdateTool saves every editable column of t.
func (q *Queries) UpdateTool(ctx context.Context, t *model.Tool) error {
	return update(ctx, q.db, t, "title", "description", "url", "category", "is_visible")
}

// DeleteTool removes a tool.
func (q *Queries) DeleteTool(ctx context.Context, id int64) error {
	return deleteByID[model.Tool](ctx, q.db, id)
}

// CountTools returns the number of tools.
func (q *Queries) CountTools(ctx context.Context) (int64, error) {
	return count[model.Tool](ctx, q.db, nil)
}

// CountVisibleTools returns the number of visible tools.
func (q *Queries) CountVisibleTools(ctx context.Context) (int64, error) {
	return count[model.Tool](ctx, q.db, "is_visible = ?", true)
}

// ListAITools returns AI tools ordered by category then name.
func (q *Queries) ListAITools(ctx context.Context) ([]model.AITool, error) {
	var items []model.AITool
	err := q.db.WithContext(ctx).Order("category").Order("name").Find(&items).Error
	return items, err
}

// GetAITool returns an AI tool by id.
func (q *Queries) GetAITool(ctx context.Context, id int64) (*model.AITool, error) {
	return getByID[model.AITool](ctx, q.db, id)
}

// CreateAITool inserts an AI tool.
func (q *Queries) CreateAITool(ctx context.Context, t *model.AITool) error {
	return create(ctx, q.db, t)
}

// UpdateAITool saves every editable column of t.
func (q *Queries) UpdateAITool(ctx context.Context, t *model.AITool) error {
	return update(ctx, q.db, t, "name", "description", "url", "category", "is_featured", "is_visible")
}

// DeleteAITool removes an AI tool.
func (q *Queries) DeleteAITool(ctx context.Context, id int64) error {
	return deleteByID[model.AITool](ctx, q.db, id)
}

// CountAITools returns the number of AI tools.
func (q *Queries) CountAITools(ctx context.Context) (int64, error) {
	return count[model.AITool](ctx, q.db, nil)
}

// CountFeaturedAITools returns the number of featured AI tools.
func (q *Queries) CountFeaturedAITools(ctx context.Context) (int64, error) {
	return count[model.AITool](ctx, q.db, "is_featured = ?", true)
}

// ListUsefulResources returns useful resources ordered by category then name.
func (q *Queries) ListUsefulResources(ctx context.Context) ([]model.UsefulResource, error) {
	var items []model.UsefulResource
	err := q.db.WithContext(ctx).Order("category").Order("name").Find(&items).Error
	return items, err
}

// GetUsefulResource returns a useful resource by id.
func (q *Queries) GetUsefulResource(ctx context.Context, id int64) (*model.UsefulResource, error) {
	return getByID[model.UsefulResource](ctx, q.db, id)
}

// CreateUsefulResource inserts a useful resource.
func (q *Queries) CreateUsefulResource(ctx context.Context, r *model.UsefulResource) error {
	return create(ctx, q.db, r)
}

// UpdateUsefulResource saves every editable column of r.
func (q *Queries) UpdateUsefulResource(ctx context.Context, r *model.UsefulResource) error {
	return update(ctx, q.db, r, "name", "description", "url", "category", "is_visible")
}

// DeleteUsefulResource removes a useful resource.
func (q *Queries) DeleteUsefulResource(ctx context.Context, id int64) error {
	return deleteByID[model.UsefulResource](ctx, q.db, id)
}
