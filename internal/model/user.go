// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain models persisted by the back-office
// (users, posts, advisories, tool catalogs, portfolio data, settings and
// events) together with their enumerations.
package model

import (
	"database/sql"
	"time"
)

// User represents an account that may sign in to the back-office.
type User struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"` // Never expose in JSON
	IsStaff      bool           `gorm:"column:is_staff" json:"is_staff"`
	Is2FAEnabled bool           `gorm:"column:is_2fa_enabled" json:"is_2fa_enabled"`
	TOTPSecret   sql.NullString `gorm:"column:totp_secret" json:"-"`
	LastLoginAt  sql.NullTime   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (User) TableName() string { return "users" }

// CanAccessAdmin reports whether the user passes the staff gate.
func (u *User) CanAccessAdmin() bool {
	return u != nil && u.IsStaff
}

// DisplayName returns the name, falling back to the username.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
