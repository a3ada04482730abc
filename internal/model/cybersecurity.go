// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Severity levels
const (
	SeverityLow      = 1
	SeverityMedium   = 2
	SeverityHigh     = 3
	SeverityCritical = 4
)

// Cybersecurity resource types
const (
	CyberTypeVulnerability = "vulnerability"
	CyberTypeThreat        = "threat"
	CyberTypeAdvisory      = "advisory"
	CyberTypeGuide         = "guide"
	CyberTypeTool          = "tool"
	CyberTypeNews          = "news"
)

// ValidCyberTypes lists the accepted cybersecurity resource types.
var ValidCyberTypes = []string{
	CyberTypeVulnerability,
	CyberTypeThreat,
	CyberTypeAdvisory,
	CyberTypeGuide,
	CyberTypeTool,
	CyberTypeNews,
}

var severityLabels = map[int]string{
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

// SeverityLabel returns the human label for a severity level.
func SeverityLabel(level int) string {
	if l, ok := severityLabels[level]; ok {
		return l
	}
	return "Unknown"
}

// CybersecurityResource is a security advisory or reference.
type CybersecurityResource struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	SeverityLevel int       `json:"severity_level"`
	IsUrgent      bool      `json:"is_urgent"`
	URL           string    `gorm:"column:url" json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler interface.
func (CybersecurityResource) TableName() string { return "cybersecurity_resources" }

// SeverityLabel returns the human label of the resource's severity.
func (c *CybersecurityResource) SeverityLabel() string {
	return SeverityLabel(c.SeverityLevel)
}

// IsCritical reports whether the resource has the highest severity.
func (c *CybersecurityResource) IsCritical() bool {
	return c.SeverityLevel == SeverityCritical
}
