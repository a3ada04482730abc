// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"strings"
)

// FieldPolicy decides how a submitted edit value replaces the stored one.
type FieldPolicy int

const (
	// Overwrite stores the submitted value, blank included.
	Overwrite FieldPolicy = iota
	// KeepIfBlank leaves the stored value alone when the submission is blank.
	KeepIfBlank
)

// UpdatePolicy maps form field names to their policy. Unlisted fields overwrite.
type UpdatePolicy map[string]FieldPolicy

// postUpdatePolicy: an edit that clears the slug keeps the existing one.
var postUpdatePolicy = UpdatePolicy{
	"slug": KeepIfBlank,
}

var profileUpdatePolicy = UpdatePolicy{
	"name":     KeepIfBlank,
	"email":    KeepIfBlank,
	"username": KeepIfBlank,
}

// For returns the policy of field.
func (p UpdatePolicy) For(field string) FieldPolicy {
	if policy, ok := p[field]; ok {
		return policy
	}
	return Overwrite
}

// Apply returns the value to store for field.
func (p UpdatePolicy) Apply(field, current, submitted string) string {
	if p.For(field) == KeepIfBlank && strings.TrimSpace(submitted) == "" {
		return current
	}
	return submitted
}

// eventLogger records audit events for mutations.
type eventLogger interface {
	LogInfo(ctx context.Context, category, message string, userID int64, metadata map[string]any) error
}
