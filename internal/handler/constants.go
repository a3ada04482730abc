// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "strconv"

// Route pattern constants for chi router registration.
const (
	RouteRoot         = "/"
	RouteParamID      = "/{id}"
	RouteSuffixCreate = "/create"
	RouteSuffixDelete = "/{id}/delete"
	RouteSuffixPrev   = "/{id}/preview"
)

// Redirect targets.
const (
	redirectDashboard     = "/"
	redirectLogin         = "/login"
	redirectLoginVerify   = "/login/verify"
	redirectBlog          = "/blog"
	redirectCybersecurity = "/cybersecurity"
	redirectTools         = "/tools"
	pathAITools           = "/tools/ai"
	pathResources         = "/tools/resources"
	redirectPortfolio     = "/portfolio"
	pathPersonal          = "/portfolio/personal"
	pathProjects          = "/portfolio/projects"
	pathSocialLinks       = "/portfolio/social"
	redirectSettings      = "/settings"
	redirectSEO           = "/seo"
	redirectProfile       = "/profile"
	redirectProfile2FA    = "/profile/2fa"
)

// Template names.
const (
	tmplLogin          = "auth/login"
	tmplVerify         = "auth/verify"
	tmplDashboard      = "admin/dashboard"
	tmplPostsList      = "admin/posts_list"
	tmplPostForm       = "admin/post_form"
	tmplPostPreview    = "admin/post_preview"
	tmplCyberList      = "admin/cybersecurity_list"
	tmplCyberForm      = "admin/cybersecurity_form"
	tmplTools          = "admin/tools"
	tmplToolForm       = "admin/tool_form"
	tmplAIToolForm     = "admin/ai_tool_form"
	tmplResourceForm   = "admin/resource_form"
	tmplPortfolio      = "admin/portfolio"
	tmplPersonalForm   = "admin/personal_form"
	tmplProjectForm    = "admin/project_form"
	tmplSocialLinkForm = "admin/social_form"
	tmplSettings       = "admin/settings"
	tmplSEO            = "admin/seo"
	tmplProfile        = "admin/profile"
	tmplTwoFactor      = "admin/twofa"
)

// PostsPerPage is the page size of the blog list.
const PostsPerPage = 20

// editURL returns the edit page of the entity id under base.
func editURL(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
