// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Site setting keys
const (
	SettingSiteName        = "site_name"
	SettingSiteDescription = "site_description"
	SettingContactEmail    = "contact_email"
	SettingPostsPerPage    = "posts_per_page"
	SettingMaintenanceMode = "maintenance_mode"
)

// SEO setting keys
const (
	SettingSEODefaultTitle       = "seo.default_title"
	SettingSEOTitleSeparator     = "seo.title_separator"
	SettingSEODefaultDescription = "seo.default_description"
	SettingSEOGoogleVerification = "seo.google_verification"
	SettingSEORobotsTxt          = "seo.robots_txt"
)

// DefaultSettings are inserted on first start when missing.
var DefaultSettings = map[string]string{
	SettingSiteName:              "My Site",
	SettingSiteDescription:       "",
	SettingContactEmail:          "",
	SettingPostsPerPage:          "10",
	SettingMaintenanceMode:       "false",
	SettingSEODefaultTitle:       "",
	SettingSEOTitleSeparator:     " | ",
	SettingSEODefaultDescription: "",
	SettingSEOGoogleVerification: "",
	SettingSEORobotsTxt:          "User-agent: *\nAllow: /",
}

// Setting is a site-wide key/value configuration item.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (Setting) TableName() string { return "settings" }
