// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/portfoliohq/siteadmin/internal/auth"
	"github.com/portfoliohq/siteadmin/internal/model"
)

// SeedOptions configures bootstrap seeding.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed creates initial data in the database: default settings, and a staff
// account when no users exist and credentials were supplied.
func Seed(ctx context.Context, q *Queries, opts SeedOptions) error {
	if err := q.EnsureSettings(ctx, model.DefaultSettings); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}

	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil
	}

	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		slog.Debug("users exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	username, _, _ := strings.Cut(opts.AdminEmail, "@")
	user := &model.User{
		Email:        opts.AdminEmail,
		Username:     username,
		Name:         "Administrator",
		PasswordHash: passwordHash,
		IsStaff:      true,
	}
	if err := q.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created bootstrap staff user", "id", user.ID, "email", user.Email)
	return nil
}
