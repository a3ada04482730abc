// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/portfoliohq/siteadmin/internal/model"
)

// GetPersonalInfoMap returns every text entry keyed by its key.
func (q *Queries) GetPersonalInfoMap(ctx context.Context) (map[string]string, error) {
	var rows []model.PersonalInfo
	if err := q.db.WithContext(ctx).Where("type = ?", model.PersonalInfoText).Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Key] = r.Value
	}
	return m, nil
}

// ListSkills returns skill entries in insertion order.
func (q *Queries) ListSkills(ctx context.Context) ([]model.PersonalInfo, error) {
	var rows []model.PersonalInfo
	err := q.db.WithContext(ctx).Where("type = ?", model.PersonalInfoSkill).Order("id").Find(&rows).Error
	return rows, err
}

// CountSkills returns the number of skill entries.
func (q *Queries) CountSkills(ctx context.Context) (int64, error) {
	return count[model.PersonalInfo](ctx, q.db, "type = ?", model.PersonalInfoSkill)
}

// UpsertPersonalInfo inserts or replaces the entry with the given key.
func (q *Queries) UpsertPersonalInfo(ctx context.Context, key, typ, value string) error {
	row := model.PersonalInfo{Key: key, Type: typ, Value: value}
	return translate(q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "value", "updated_at"}),
	}).Create(&row).Error)
}

// SavePersonalInfo upserts the text entries and replaces the skill set in a
// single transaction. Skills differing only in case are stored once.
func (q *Queries) SavePersonalInfo(ctx context.Context, text map[string]string, skills []string) error {
	return q.Transaction(ctx, func(tx *Queries) error {
		for key, value := range text {
			if err := tx.UpsertPersonalInfo(ctx, key, model.PersonalInfoText, value); err != nil {
				return err
			}
		}
		if err := tx.db.WithContext(ctx).
			Where("type = ?", model.PersonalInfoSkill).
			Delete(&model.PersonalInfo{}).Error; err != nil {
			return err
		}
		seen := make(map[string]bool, len(skills))
		for _, skill := range skills {
			key := model.SkillKeyPrefix + strings.ToLower(skill)
			if seen[key] {
				continue
			}
			seen[key] = true
			row := model.PersonalInfo{Key: key, Type: model.PersonalInfoSkill, Value: skill}
			if err := create(ctx, tx.db, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListProjects returns projects by sort order.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	var items []model.Project
	err := q.db.WithContext(ctx).Order("sort_order").Order("id").Find(&items).Error
	return items, err
}

// GetProject returns a project by id.
func (q *Queries) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return getByID[model.Project](ctx, q.db, id)
}

// CreateProject inserts a project.
func (q *Queries) CreateProject(ctx context.Context, p *model.Project) error {
	return create(ctx, q.db, p)
}

// UpdateProject saves every editable column of p.
func (q *Queries) UpdateProject(ctx context.Context, p *model.Project) error {
	return update(ctx, q.db, p, "title", "description", "url", "repo_url", "technologies", "is_featured", "is_visible", "sort_order")
}

// DeleteProject removes a project.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	return deleteByID[model.Project](ctx, q.db, id)
}

// CountProjects returns the number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	return count[model.Project](ctx, q.db, nil)
}

// CountFeaturedProjects returns the number of featured projects.
func (q *Queries) CountFeaturedProjects(ctx context.Context) (int64, error) {
	return count[model.Project](ctx, q.db, "is_featured = ?", true)
}

// ListSocialLinks returns every social link by sort order.
func (q *Queries) ListSocialLinks(ctx context.Context) ([]model.SocialLink, error) {
	var items []model.SocialLink
	err := q.db.WithContext(ctx).Order("sort_order").Order("id").Find(&items).Error
	return items, err
}

// GetSocialLink returns a social link by id.
func (q *Queries) GetSocialLink(ctx context.Context, id int64) (*model.SocialLink, error) {
	return getByID[model.SocialLink](ctx, q.db, id)
}

// CreateSocialLink inserts a social link.
func (q *Queries) CreateSocialLink(ctx context.Context, l *model.SocialLink) error {
	return create(ctx, q.db, l)
}

// UpdateSocialLink saves every editable column of l.
func (q *Queries) UpdateSocialLink(ctx context.Context, l *model.SocialLink) error {
	return update(ctx, q.db, l, "platform", "url", "icon", "sort_order", "is_visible")
}

// DeleteSocialLink removes a social link.
func (q *Queries) DeleteSocialLink(ctx context.Context, id int64) error {
	return deleteByID[model.SocialLink](ctx, q.db, id)
}

// CountSocialLinks returns the number of social links.
func (q *Queries) CountSocialLinks(ctx context.Context) (int64, error) {
	return count[model.SocialLink](ctx, q.db, nil)
}

// CountVisibleSocialLinks returns the number of visible social links.
func (q *Queries) CountVisibleSocialLinks(ctx context.Context) (int64, error) {
	return count[model.SocialLink](ctx, q.db, "is_visible = ?", true)
}
