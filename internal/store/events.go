// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// CreateEvent appends an entry to the activity log.
func (q *Queries) CreateEvent(ctx context.Context, e *model.Event) error {
	if e.Metadata == "" {
		e.Metadata = "{}"
	}
	return create(ctx, q.db, e)
}

// ListRecentEvents returns the n newest events.
func (q *Queries) ListRecentEvents(ctx context.Context, n int) ([]model.Event, error) {
	var events []model.Event
	err := q.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(n).Find(&events).Error
	return events, err
}

// DeleteEventsBefore removes events older than cutoff and returns how many
// were deleted.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := q.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&model.Event{})
	return res.RowsAffected, res.Error
}
