// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// TypeCount is one row of the advisories-by-type breakdown.
type TypeCount struct {
	Type  string
	Count int64
}

// SeverityCount is one row of the advisories-by-severity breakdown.
type SeverityCount struct {
	SeverityLevel int
	Count         int64
}

// Label returns the human label of the severity level.
func (s SeverityCount) Label() string {
	return model.SeverityLabel(s.SeverityLevel)
}

// ListCybersecurityResources returns resources ordered by severity then age,
// most severe and newest first.
func (q *Queries) ListCybersecurityResources(ctx context.Context, limit int) ([]model.CybersecurityResource, error) {
	tx := q.db.WithContext(ctx).Order("severity_level DESC").Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var items []model.CybersecurityResource
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RecentCybersecurityResources returns the n newest resources.
func (q *Queries) RecentCybersecurityResources(ctx context.Context, n int) ([]model.CybersecurityResource, error) {
	var items []model.CybersecurityResource
	err := q.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(n).Find(&items).Error
	return items, err
}

// GetCybersecurityResource returns a resource by id.
func (q *Queries) GetCybersecurityResource(ctx context.Context, id int64) (*model.CybersecurityResource, error) {
	return getByID[model.CybersecurityResource](ctx, q.db, id)
}

// CreateCybersecurityResource inserts a resource.
func (q *Queries) CreateCybersecurityResource(ctx context.Context, c *model.CybersecurityResource) error {
	return create(ctx, q.db, c)
}

// UpdateCybersecurityResource saves every editable column of c.
func (q *Queries) UpdateCybersecurityResource(ctx context.Context, c *model.CybersecurityResource) error {
	return update(ctx, q.db, c, "title", "description", "type", "severity_level", "is_urgent", "url")
}

// DeleteCybersecurityResource removes a resource.
func (q *Queries) DeleteCybersecurityResource(ctx context.Context, id int64) error {
	return deleteByID[model.CybersecurityResource](ctx, q.db, id)
}

// CountCybersecurityResources returns the number of resources.
func (q *Queries) CountCybersecurityResources(ctx context.Context) (int64, error) {
	return count[model.CybersecurityResource](ctx, q.db, nil)
}

// CountUrgentCybersecurityResources returns the number of urgent resources.
func (q *Queries) CountUrgentCybersecurityResources(ctx context.Context) (int64, error) {
	return count[model.CybersecurityResource](ctx, q.db, "is_urgent = ?", true)
}

// CountCybersecurityBySeverityLevel returns the number of resources at level.
func (q *Queries) CountCybersecurityBySeverityLevel(ctx context.Context, level int) (int64, error) {
	return count[model.CybersecurityResource](ctx, q.db, "severity_level = ?", level)
}

// CybersecurityCountsByType groups resources by type.
func (q *Queries) CybersecurityCountsByType(ctx context.Context) ([]TypeCount, error) {
	var rows []TypeCount
	err := q.db.WithContext(ctx).Model(&model.CybersecurityResource{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("type").
		Scan(&rows).Error
	return rows, err
}

// CybersecurityCountsBySeverity groups resources by severity level.
func (q *Queries) CybersecurityCountsBySeverity(ctx context.Context) ([]SeverityCount, error) {
	var rows []SeverityCount
	err := q.db.WithContext(ctx).Model(&model.CybersecurityResource{}).
		Select("severity_level, COUNT(*) AS count").
		Group("severity_level").
		Order("severity_level DESC").
		Scan(&rows).Error
	return rows, err
}
