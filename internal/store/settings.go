// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// GetSettings returns the values of keys. Missing keys are absent from the map.
func (q *Queries) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []model.Setting
	tx := q.db.WithContext(ctx)
	if len(keys) > 0 {
		tx = tx.Where(`"key" IN ?`, keys)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Key] = r.Value
	}
	return m, nil
}

// SetSettings upserts every pair in one transaction.
func (q *Queries) SetSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]model.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, model.Setting{Key: k, Value: v})
	}
	return q.Transaction(ctx, func(tx *Queries) error {
		return tx.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

// EnsureSettings inserts values for keys that do not exist yet.
func (q *Queries) EnsureSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]model.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, model.Setting{Key: k, Value: v})
	}
	return q.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
