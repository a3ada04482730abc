// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// FormData is handed to every create/edit template.
type FormData struct {
	Values map[string]string
	Errors map[string]string
	IsEdit bool
	Action string

	Statuses   []string
	CyberTypes []string
	Severities []SeverityOption
}

// SeverityOption is a select option for the severity field.
type SeverityOption struct {
	Level int
	Label string
}

func severityOptions() []SeverityOption {
	opts := make([]SeverityOption, 0, model.SeverityCritical)
	for level := model.SeverityLow; level <= model.SeverityCritical; level++ {
		opts = append(opts, SeverityOption{Level: level, Label: model.SeverityLabel(level)})
	}
	return opts
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// formBool reads a checkbox.
func formBool(r *http.Request, key string) bool {
	switch r.PostFormValue(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

// formInt returns def when the field is empty and -1 when it is not a number,
// so that range validation rejects garbage.
func formInt(r *http.Request, key string, def int) int {
	s := formString(r, key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// =============================================================================
// AUTH
// =============================================================================

type loginInput struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func parseLoginInput(r *http.Request) loginInput {
	return loginInput{
		Email:    formString(r, "email"),
		Password: r.PostFormValue("password"),
		Next:     r.PostFormValue("next"),
	}
}

type codeInput struct {
	Code string `form:"code" validate:"required,len=6,numeric"`
}

func parseCodeInput(r *http.Request) codeInput {
	return codeInput{Code: strings.ReplaceAll(formString(r, "code"), " ", "")}
}

// =============================================================================
// POSTS
// =============================================================================

type postInput struct {
	Title           string `form:"title" validate:"required,max=200"`
	Content         string `form:"content" validate:"required"`
	Excerpt         string `form:"excerpt" validate:"max=500"`
	Slug            string `form:"slug" validate:"omitempty,max=200,slug"`
	Status          string `form:"status" validate:"required,oneof=draft published"`
	MetaDescription string `form:"meta_description" validate:"max=300"`
	Tags            string `form:"tags"`
}

func parsePostInput(r *http.Request) postInput {
	in := postInput{
		Title:           formString(r, "title"),
		Content:         r.PostFormValue("content"),
		Excerpt:         formString(r, "excerpt"),
		Slug:            formString(r, "slug"),
		Status:          formString(r, "status"),
		MetaDescription: formString(r, "meta_description"),
		Tags:            r.PostFormValue("tags"),
	}
	if in.Status == "" {
		in.Status = model.PostStatusDraft
	}
	if strings.TrimSpace(in.Content) == "" {
		in.Content = ""
	}
	return in
}

func postInputFromModel(p *model.Post) postInput {
	return postInput{
		Title:           p.Title,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		Slug:            p.SlugValue(),
		Status:          p.Status,
		MetaDescription: p.MetaDescription,
		Tags:            util.JoinTags(p.Tags),
	}
}

func (in postInput) values() map[string]string {
	return map[string]string{
		"title":            in.Title,
		"content":          in.Content,
		"excerpt":          in.Excerpt,
		"slug":             in.Slug,
		"status":           in.Status,
		"meta_description": in.MetaDescription,
		"tags":             in.Tags,
	}
}

// =============================================================================
// CYBERSECURITY
// =============================================================================

type cyberInput struct {
	Title         string `form:"title" validate:"required,max=200"`
	Description   string `form:"description" validate:"required"`
	Type          string `form:"type" validate:"required,oneof=vulnerability threat advisory guide tool news"`
	SeverityLevel int    `form:"severity_level" validate:"min=1,max=4"`
	IsUrgent      bool   `form:"is_urgent"`
	URL           string `form:"url" validate:"omitempty,url,max=500"`
}

func parseCyberInput(r *http.Request) cyberInput {
	return cyberInput{
		Title:         formString(r, "title"),
		Description:   formString(r, "description"),
		Type:          formString(r, "type"),
		SeverityLevel: formInt(r, "severity_level", model.SeverityLow),
		IsUrgent:      formBool(r, "is_urgent"),
		URL:           formString(r, "url"),
	}
}

func cyberInputFromModel(c *model.CybersecurityResource) cyberInput {
	return cyberInput{
		Title:         c.Title,
		Description:   c.Description,
		Type:          c.Type,
		SeverityLevel: c.SeverityLevel,
		IsUrgent:      c.IsUrgent,
		URL:           c.URL,
	}
}

func (in cyberInput) values() map[string]string {
	return map[string]string{
		"title":          in.Title,
		"description":    in.Description,
		"type":           in.Type,
		"severity_level": strconv.Itoa(in.SeverityLevel),
		"is_urgent":      boolValue(in.IsUrgent),
		"url":            in.URL,
	}
}

// =============================================================================
// TOOLS
// =============================================================================

type toolInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"required,url,max=500"`
	Category    string `form:"category" validate:"max=100"`
	IsVisible   bool   `form:"is_visible"`
}

func parseToolInput(r *http.Request) toolInput {
	return toolInput{
		Title:       formString(r, "title"),
		Description: formString(r, "description"),
		URL:         formString(r, "url"),
		Category:    formString(r, "category"),
		IsVisible:   formBool(r, "is_visible"),
	}
}

func toolInputFromModel(t *model.Tool) toolInput {
	return toolInput{Title: t.Title, Description: t.Description, URL: t.URL, Category: t.Category, IsVisible: t.IsVisible}
}

func (in toolInput) values() map[string]string {
	return map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"url":         in.URL,
		"category":    in.Category,
		"is_visible":  boolValue(in.IsVisible),
	}
}

type aiToolInput struct {
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"required,url,max=500"`
	Category    string `form:"category" validate:"max=100"`
	IsFeatured  bool   `form:"is_featured"`
	IsVisible   bool   `form:"is_visible"`
}

func parseAIToolInput(r *http.Request) aiToolInput {
	return aiToolInput{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		URL:         formString(r, "url"),
		Category:    formString(r, "category"),
		IsFeatured:  formBool(r, "is_featured"),
		IsVisible:   formBool(r, "is_visible"),
	}
}

func aiToolInputFromModel(t *model.AITool) aiToolInput {
	return aiToolInput{Name: t.Name, Description: t.Description, URL: t.URL, Category: t.Category, IsFeatured: t.IsFeatured, IsVisible: t.IsVisible}
}

func (in aiToolInput) values() map[string]string {
	return map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"url":         in.URL,
		"category":    in.Category,
		"is_featured": boolValue(in.IsFeatured),
		"is_visible":  boolValue(in.IsVisible),
	}
}

type resourceInput struct {
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"required,url,max=500"`
	Category    string `form:"category" validate:"max=100"`
	IsVisible   bool   `form:"is_visible"`
}

func parseResourceInput(r *http.Request) resourceInput {
	return resourceInput{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		URL:         formString(r, "url"),
		Category:    formString(r, "category"),
		IsVisible:   formBool(r, "is_visible"),
	}
}

func resourceInputFromModel(u *model.UsefulResource) resourceInput {
	return resourceInput{Name: u.Name, Description: u.Description, URL: u.URL, Category: u.Category, IsVisible: u.IsVisible}
}

func (in resourceInput) values() map[string]string {
	return map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"url":         in.URL,
		"category":    in.Category,
		"is_visible":  boolValue(in.IsVisible),
	}
}

// =============================================================================
// PORTFOLIO
// =============================================================================

type personalInfoInput struct {
	Name     string `form:"name" validate:"max=200"`
	Title    string `form:"title" validate:"max=200"`
	Bio      string `form:"bio" validate:"max=5000"`
	Location string `form:"location" validate:"max=200"`
	Email    string `form:"email" validate:"omitempty,email"`
	Skills   string `form:"skills"`
}

func parsePersonalInfoInput(r *http.Request) personalInfoInput {
	return personalInfoInput{
		Name:     formString(r, model.PersonalKeyName),
		Title:    formString(r, model.PersonalKeyTitle),
		Bio:      formString(r, model.PersonalKeyBio),
		Location: formString(r, model.PersonalKeyLocation),
		Email:    formString(r, model.PersonalKeyEmail),
		Skills:   r.PostFormValue("skills"),
	}
}

// textValues returns the text entries keyed by personal-info key.
func (in personalInfoInput) textValues() map[string]string {
	return map[string]string{
		model.PersonalKeyName:     in.Name,
		model.PersonalKeyTitle:    in.Title,
		model.PersonalKeyBio:      in.Bio,
		model.PersonalKeyLocation: in.Location,
		model.PersonalKeyEmail:    in.Email,
	}
}

func (in personalInfoInput) values() map[string]string {
	v := in.textValues()
	v["skills"] = in.Skills
	return v
}

type projectInput struct {
	Title        string `form:"title" validate:"required,max=200"`
	Description  string `form:"description"`
	URL          string `form:"url" validate:"omitempty,url,max=500"`
	RepoURL      string `form:"repo_url" validate:"omitempty,url,max=500"`
	Technologies string `form:"technologies"`
	IsFeatured   bool   `form:"is_featured"`
	IsVisible    bool   `form:"is_visible"`
	SortOrder    int    `form:"sort_order" validate:"min=0"`
}

func parseProjectInput(r *http.Request) projectInput {
	return projectInput{
		Title:        formString(r, "title"),
		Description:  formString(r, "description"),
		URL:          formString(r, "url"),
		RepoURL:      formString(r, "repo_url"),
		Technologies: r.PostFormValue("technologies"),
		IsFeatured:   formBool(r, "is_featured"),
		IsVisible:    formBool(r, "is_visible"),
		SortOrder:    formInt(r, "sort_order", 0),
	}
}

func projectInputFromModel(p *model.Project) projectInput {
	return projectInput{
		Title:        p.Title,
		Description:  p.Description,
		URL:          p.URL,
		RepoURL:      p.RepoURL,
		Technologies: util.JoinTags(p.Technologies),
		IsFeatured:   p.IsFeatured,
		IsVisible:    p.IsVisible,
		SortOrder:    p.SortOrder,
	}
}

func (in projectInput) values() map[string]string {
	return map[string]string{
		"title":        in.Title,
		"description":  in.Description,
		"url":          in.URL,
		"repo_url":     in.RepoURL,
		"technologies": in.Technologies,
		"is_featured":  boolValue(in.IsFeatured),
		"is_visible":   boolValue(in.IsVisible),
		"sort_order":   strconv.Itoa(in.SortOrder),
	}
}

type socialLinkInput struct {
	Platform  string `form:"platform" validate:"required,max=50"`
	URL       string `form:"url" validate:"required,url,max=500"`
	Icon      string `form:"icon" validate:"max=50"`
	SortOrder int    `form:"sort_order" validate:"min=0"`
	IsVisible bool   `form:"is_visible"`
}

func parseSocialLinkInput(r *http.Request) socialLinkInput {
	return socialLinkInput{
		Platform:  formString(r, "platform"),
		URL:       formString(r, "url"),
		Icon:      formString(r, "icon"),
		SortOrder: formInt(r, "sort_order", 0),
		IsVisible: formBool(r, "is_visible"),
	}
}

func socialLinkInputFromModel(l *model.SocialLink) socialLinkInput {
	return socialLinkInput{Platform: l.Platform, URL: l.URL, Icon: l.Icon, SortOrder: l.SortOrder, IsVisible: l.IsVisible}
}

func (in socialLinkInput) values() map[string]string {
	return map[string]string{
		"platform":   in.Platform,
		"url":        in.URL,
		"icon":       in.Icon,
		"sort_order": strconv.Itoa(in.SortOrder),
		"is_visible": boolValue(in.IsVisible),
	}
}

// =============================================================================
// SETTINGS AND PROFILE
// =============================================================================

type settingsInput struct {
	SiteName        string `form:"site_name" validate:"required,max=200"`
	SiteDescription string `form:"site_description" validate:"max=500"`
	ContactEmail    string `form:"contact_email" validate:"omitempty,email"`
	PostsPerPage    int    `form:"posts_per_page" validate:"min=1,max=100"`
	MaintenanceMode bool   `form:"maintenance_mode"`
}

func parseSettingsInput(r *http.Request) settingsInput {
	return settingsInput{
		SiteName:        formString(r, "site_name"),
		SiteDescription: formString(r, "site_description"),
		ContactEmail:    formString(r, "contact_email"),
		PostsPerPage:    formInt(r, "posts_per_page", 10),
		MaintenanceMode: formBool(r, "maintenance_mode"),
	}
}

func settingsInputFromMap(m map[string]string) settingsInput {
	n, err := strconv.Atoi(m[model.SettingPostsPerPage])
	if err != nil {
		n = 10
	}
	return settingsInput{
		SiteName:        m[model.SettingSiteName],
		SiteDescription: m[model.SettingSiteDescription],
		ContactEmail:    m[model.SettingContactEmail],
		PostsPerPage:    n,
		MaintenanceMode: m[model.SettingMaintenanceMode] == "true",
	}
}

// settings returns the key/value rows to persist.
func (in settingsInput) settings() map[string]string {
	return map[string]string{
		model.SettingSiteName:        in.SiteName,
		model.SettingSiteDescription: in.SiteDescription,
		model.SettingContactEmail:    in.ContactEmail,
		model.SettingPostsPerPage:    strconv.Itoa(in.PostsPerPage),
		model.SettingMaintenanceMode: strconv.FormatBool(in.MaintenanceMode),
	}
}

func (in settingsInput) values() map[string]string {
	return map[string]string{
		"site_name":        in.SiteName,
		"site_description": in.SiteDescription,
		"contact_email":    in.ContactEmail,
		"posts_per_page":   strconv.Itoa(in.PostsPerPage),
		"maintenance_mode": boolValue(in.MaintenanceMode),
	}
}

type seoInput struct {
	DefaultTitle       string `form:"default_title" validate:"max=200"`
	TitleSeparator     string `form:"title_separator" validate:"max=10"`
	DefaultDescription string `form:"default_description" validate:"max=300"`
	GoogleVerification string `form:"google_verification" validate:"max=200"`
	RobotsTxt          string `form:"robots_txt" validate:"max=5000"`
}

func parseSEOInput(r *http.Request) seoInput {
	return seoInput{
		DefaultTitle:       formString(r, "default_title"),
		TitleSeparator:     r.PostFormValue("title_separator"),
		DefaultDescription: formString(r, "default_description"),
		GoogleVerification: formString(r, "google_verification"),
		RobotsTxt:          strings.ReplaceAll(r.PostFormValue("robots_txt"), "\r\n", "\n"),
	}
}

func seoInputFromMap(m map[string]string) seoInput {
	return seoInput{
		DefaultTitle:       m[model.SettingSEODefaultTitle],
		TitleSeparator:     m[model.SettingSEOTitleSeparator],
		DefaultDescription: m[model.SettingSEODefaultDescription],
		GoogleVerification: m[model.SettingSEOGoogleVerification],
		RobotsTxt:          m[model.SettingSEORobotsTxt],
	}
}

func (in seoInput) settings() map[string]string {
	return map[string]string{
		model.SettingSEODefaultTitle:       in.DefaultTitle,
		model.SettingSEOTitleSeparator:     in.TitleSeparator,
		model.SettingSEODefaultDescription: in.DefaultDescription,
		model.SettingSEOGoogleVerification: in.GoogleVerification,
		model.SettingSEORobotsTxt:          in.RobotsTxt,
	}
}

func (in seoInput) values() map[string]string {
	return map[string]string{
		"default_title":       in.DefaultTitle,
		"title_separator":     in.TitleSeparator,
		"default_description": in.DefaultDescription,
		"google_verification": in.GoogleVerification,
		"robots_txt":          in.RobotsTxt,
	}
}

type profileInput struct {
	Name               string `form:"name" validate:"max=150"`
	Email              string `form:"email" validate:"omitempty,email,max=254"`
	Username           string `form:"username" validate:"omitempty,max=150"`
	CurrentPassword    string `form:"current_password"`
	NewPassword        string `form:"new_password"`
	NewPasswordConfirm string `form:"new_password_confirm"`
}

func parseProfileInput(r *http.Request) profileInput {
	return profileInput{
		Name:               formString(r, "name"),
		Email:              formString(r, "email"),
		Username:           formString(r, "username"),
		CurrentPassword:    r.PostFormValue("current_password"),
		NewPassword:        r.PostFormValue("new_password"),
		NewPasswordConfirm: r.PostFormValue("new_password_confirm"),
	}
}

// wantsPasswordChange reports whether both current and new password were given.
func (in profileInput) wantsPasswordChange() bool {
	return in.CurrentPassword != "" && in.NewPassword != ""
}
