// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
)

func TestPostStatus(t *testing.T) {
	p := &Post{Status: PostStatusDraft}
	if !p.IsDraft() || p.IsPublished() {
		t.Errorf("draft post: IsDraft=%v IsPublished=%v", p.IsDraft(), p.IsPublished())
	}

	p.Status = PostStatusPublished
	if p.IsDraft() || !p.IsPublished() {
		t.Errorf("published post: IsDraft=%v IsPublished=%v", p.IsDraft(), p.IsPublished())
	}
}

func TestPostDisplaySlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		slug  sql.NullString
		want  string
	}{
		{"stored slug wins", "Hello World", sql.NullString{String: "custom", Valid: true}, "custom"},
		{"null slug derives from title", "Hello World", sql.NullString{}, "hello-world"},
		{"empty valid slug derives from title", "Go Tips", sql.NullString{String: "", Valid: true}, "go-tips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Title: tt.title, Slug: tt.slug}
			if got := p.DisplaySlug(); got != tt.want {
				t.Errorf("DisplaySlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostAuthorName(t *testing.T) {
	p := &Post{}
	if got := p.AuthorName(); got != "" {
		t.Errorf("AuthorName() without author = %q, want empty", got)
	}

	p.Author = &User{Name: "Ada", Username: "ada"}
	if got := p.AuthorName(); got != "Ada" {
		t.Errorf("AuthorName() = %q, want %q", got, "Ada")
	}
}
