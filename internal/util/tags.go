// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// ParseTags splits a comma-separated list, trims every item and drops empty
// ones. Order is preserved and the result is never nil.
func ParseTags(s string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags for form display.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
