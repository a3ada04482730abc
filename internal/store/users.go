// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return getByID[model.User](ctx, q.db, id)
}

// GetUserByEmail returns the user with the given email, ignoring case.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := q.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// CreateUser inserts a new user.
func (q *Queries) CreateUser(ctx context.Context, u *model.User) error {
	return create(ctx, q.db, u)
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return count[model.User](ctx, q.db, nil)
}

// UpdateUserProfile saves name, email and username.
func (q *Queries) UpdateUserProfile(ctx context.Context, u *model.User) error {
	return update(ctx, q.db, u, "name", "email", "username")
}

// UpdateUserPassword stores a new password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	return q.updateUserColumns(ctx, id, map[string]any{"password_hash": hash})
}

// UpdateUserLastLogin records a successful sign-in.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	return q.updateUserColumns(ctx, id, map[string]any{"last_login_at": util.NullTime(at)})
}

// SetUserTOTPSecret stores a pending TOTP secret without enabling 2FA.
func (q *Queries) SetUserTOTPSecret(ctx context.Context, id int64, secret string) error {
	return q.updateUserColumns(ctx, id, map[string]any{"totp_secret": util.NullString(secret)})
}

// EnableUser2FA turns on two-factor authentication.
func (q *Queries) EnableUser2FA(ctx context.Context, id int64) error {
	return q.updateUserColumns(ctx, id, map[string]any{"is_2fa_enabled": true})
}

// DisableUser2FA turns off two-factor authentication and forgets the secret.
func (q *Queries) DisableUser2FA(ctx context.Context, id int64) error {
	return q.updateUserColumns(ctx, id, map[string]any{
		"is_2fa_enabled": false,
		"totp_secret":    sql.NullString{},
	})
}

func (q *Queries) updateUserColumns(ctx context.Context, id int64, columns map[string]any) error {
	columns["updated_at"] = q.db.NowFunc()
	res := q.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
