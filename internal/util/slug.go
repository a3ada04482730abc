// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: URL slug generation and
// validation, comma-separated list parsing and nullable value conversion.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds post slugs, matching the blog form limit.
const MaxSlugLength = 200

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	stripMarks   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a slug from a post title. Accents are dropped, other
// scripts are transliterated to ASCII, and every run of anything else
// becomes one hyphen. Long results are cut at the last hyphen that fits.
func Slugify(s string) string {
	s, _, _ = transform.String(stripMarks, s)
	s = strings.ToLower(unidecode.Unidecode(s))
	s = strings.Trim(nonSlugChars.ReplaceAllString(s, "-"), "-")

	if len(s) <= MaxSlugLength {
		return s
	}
	s = s[:MaxSlugLength]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "-")
}

// IsValidSlug reports whether s is lowercase ASCII words joined by single
// hyphens and no longer than MaxSlugLength.
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && validSlug.MatchString(s)
}
