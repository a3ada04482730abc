// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/portfoliohq/siteadmin/internal/util"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// ValidPostStatuses lists the accepted post statuses.
var ValidPostStatuses = []string{PostStatusDraft, PostStatusPublished}

// Post represents a blog post.
type Post struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Excerpt         string         `json:"excerpt"`
	Slug            sql.NullString `json:"slug"`
	Status          string         `json:"status"`
	MetaDescription string         `json:"meta_description"`
	Tags            []string       `gorm:"serializer:json" json:"tags"`
	AuthorID        int64          `json:"author_id"`
	Author          *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ViewCount       int64          `json:"view_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (Post) TableName() string { return "posts" }

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// DisplaySlug returns the stored slug, or one derived from the title when
// none was given.
func (p *Post) DisplaySlug() string {
	if p.Slug.Valid && p.Slug.String != "" {
		return p.Slug.String
	}
	return util.Slugify(p.Title)
}

// SlugValue returns the stored slug or an empty string.
func (p *Post) SlugValue() string {
	if p.Slug.Valid {
		return p.Slug.String
	}
	return ""
}

// AuthorName returns the author's display name if the author was loaded.
func (p *Post) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.DisplayName()
}
