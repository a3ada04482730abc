// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Personal info types
const (
	PersonalInfoText  = "text"
	PersonalInfoSkill = "skill"
)

// Personal info keys edited on the portfolio page.
const (
	PersonalKeyName     = "name"
	PersonalKeyTitle    = "title"
	PersonalKeyBio      = "bio"
	PersonalKeyLocation = "location"
	PersonalKeyEmail    = "email"
)

// PersonalTextKeys lists the text keys in form order.
var PersonalTextKeys = []string{
	PersonalKeyName,
	PersonalKeyTitle,
	PersonalKeyBio,
	PersonalKeyLocation,
	PersonalKeyEmail,
}

// SkillKeyPrefix prefixes the key of every skill row.
const SkillKeyPrefix = "skill:"

// PersonalInfo is a single keyed fact about the site owner.
type PersonalInfo struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (PersonalInfo) TableName() string { return "personal_info" }

// Project is a portfolio project.
type Project struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `gorm:"column:url" json:"url"`
	RepoURL      string    `gorm:"column:repo_url" json:"repo_url"`
	Technologies []string  `gorm:"serializer:json" json:"technologies"`
	IsFeatured   bool      `json:"is_featured"`
	IsVisible    bool      `json:"is_visible"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (Project) TableName() string { return "projects" }

// SocialLink is a profile link shown on the portfolio.
type SocialLink struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Platform  string    `json:"platform"`
	URL       string    `gorm:"column:url" json:"url"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (SocialLink) TableName() string { return "social_links" }
