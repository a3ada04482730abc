// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth          = "auth"
	EventCategoryPost          = "post"
	EventCategoryCybersecurity = "cybersecurity"
	EventCategoryTool          = "tool"
	EventCategoryPortfolio     = "portfolio"
	EventCategorySettings      = "settings"
	EventCategoryProfile       = "profile"
	EventCategorySystem        = "system"
)

// Event represents an activity log entry.
type Event struct {
	ID        int64         `gorm:"primaryKey"`
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}

// TableName implements gorm's tabler interface.
func (Event) TableName() string { return "events" }

// subjectKeys are the metadata keys that name what an event is about, in
// order of preference.
var subjectKeys = []string{"email", "title", "name"}

// Subject returns the first of email, title or name found in the metadata,
// or "" when none is present or the metadata is not a JSON object.
func (e Event) Subject() string {
	if e.Metadata == "" || e.Metadata == "{}" {
		return ""
	}
	var md map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &md); err != nil {
		return ""
	}
	for _, key := range subjectKeys {
		switch v := md[key].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
