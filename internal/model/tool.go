// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Tool is an entry in the general tools catalog.
type Tool struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `gorm:"column:url" json:"url"`
	Category    string    `json:"category"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (Tool) TableName() string { return "tools" }

// AITool is an entry in the AI tools catalog.
type AITool struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `gorm:"column:url" json:"url"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"is_featured"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (AITool) TableName() string { return "ai_tools" }

// UsefulResource is an entry in the useful resources catalog.
type UsefulResource struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `gorm:"column:url" json:"url"`
	Category    string    `json:"category"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (UsefulResource) TableName() string { return "useful_resources" }
