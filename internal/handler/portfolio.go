// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// PortfolioData holds the portfolio overview page data.
type PortfolioData struct {
	Name  string
	Title string

	Skills      []string
	SkillsCount int64

	Projects      []model.Project
	ProjectsCount int64
	FeaturedCount int64

	SocialLinks  []model.SocialLink
	VisibleLinks int64
}

// PortfolioHandler handles personal info, projects and social links.
type PortfolioHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService

	projects    *resourceCRUD[model.Project, projectInput]
	socialLinks *resourceCRUD[model.SocialLink, socialLinkInput]
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager) *PortfolioHandler {
	queries := store.New(db)
	events := service.NewEventService(queries)

	return &PortfolioHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		eventService:   events,
		projects: &resourceCRUD[model.Project, projectInput]{
			renderer:       renderer,
			events:         events,
			entityName:     "Project",
			category:       model.EventCategoryPortfolio,
			basePath:       pathProjects,
			listURL:        redirectPortfolio,
			template:       tmplProjectForm,
			parse:          parseProjectInput,
			fromModel:      projectInputFromModel,
			apply:          applyProjectInput,
			label:          func(p *model.Project) string { return p.Title },
			id:             func(p *model.Project) int64 { return p.ID },
			get:            queries.GetProject,
			create:         queries.CreateProject,
			update:         queries.UpdateProject,
			del:            queries.DeleteProject,
			createdMessage: "Project created.",
			updatedMessage: "Project updated.",
		},
		socialLinks: &resourceCRUD[model.SocialLink, socialLinkInput]{
			renderer:       renderer,
			events:         events,
			entityName:     "Social link",
			category:       model.EventCategoryPortfolio,
			basePath:       pathSocialLinks,
			listURL:        redirectPortfolio,
			template:       tmplSocialLinkForm,
			parse:          parseSocialLinkInput,
			fromModel:      socialLinkInputFromModel,
			apply:          applySocialLinkInput,
			label:          func(l *model.SocialLink) string { return l.Platform },
			id:             func(l *model.SocialLink) int64 { return l.ID },
			get:            queries.GetSocialLink,
			create:         queries.CreateSocialLink,
			update:         queries.UpdateSocialLink,
			del:            queries.DeleteSocialLink,
			createdMessage: "Social link created.",
			updatedMessage: "Social link updated.",
		},
	}
}

// Overview handles GET /portfolio.
func (h *PortfolioHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.queries.GetPersonalInfoMap(ctx)
	if err != nil {
		logAndInternalError(w, "failed to load personal info", "error", err)
		return
	}
	skills, err := h.queries.ListSkills(ctx)
	if err != nil {
		logAndInternalError(w, "failed to load skills", "error", err)
		return
	}
	projects, err := h.queries.ListProjects(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list projects", "error", err)
		return
	}
	links, err := h.queries.ListSocialLinks(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list social links", "error", err)
		return
	}

	data := PortfolioData{
		Name:          info[model.PersonalKeyName],
		Title:         info[model.PersonalKeyTitle],
		Skills:        skillValues(skills),
		SkillsCount:   countOrZero(ctx, "skills", h.queries.CountSkills),
		Projects:      projects,
		ProjectsCount: countOrZero(ctx, "projects", h.queries.CountProjects),
		FeaturedCount: countOrZero(ctx, "featured projects", h.queries.CountFeaturedProjects),
		SocialLinks:   links,
		VisibleLinks:  countOrZero(ctx, "visible social links", h.queries.CountVisibleSocialLinks),
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplPortfolio, "Portfolio", data)
}

// PersonalForm handles GET /portfolio/personal.
func (h *PortfolioHandler) PersonalForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.queries.GetPersonalInfoMap(ctx)
	if err != nil {
		logAndInternalError(w, "failed to load personal info", "error", err)
		return
	}
	skills, err := h.queries.ListSkills(ctx)
	if err != nil {
		logAndInternalError(w, "failed to load skills", "error", err)
		return
	}

	in := personalInfoInput{
		Name:     info[model.PersonalKeyName],
		Title:    info[model.PersonalKeyTitle],
		Bio:      info[model.PersonalKeyBio],
		Location: info[model.PersonalKeyLocation],
		Email:    info[model.PersonalKeyEmail],
		Skills:   util.JoinTags(skillValues(skills)),
	}
	h.renderPersonalForm(w, r, http.StatusOK, in.values(), nil)
}

// SavePersonal handles POST /portfolio/personal: text entries are upserted
// and the skill set is replaced.
func (h *PortfolioHandler) SavePersonal(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, pathPersonal) {
		return
	}

	in := parsePersonalInfoInput(r)
	if errs := validateInput(in); len(errs) > 0 {
		h.renderPersonalForm(w, r, http.StatusUnprocessableEntity, in.values(), errs)
		return
	}

	skills := util.ParseTags(in.Skills)
	if err := h.queries.SavePersonalInfo(r.Context(), in.textValues(), skills); err != nil {
		if fieldErrs, ok := duplicateFieldErrors(err, map[string]string{"key": "Duplicate entry"}); ok {
			h.renderPersonalForm(w, r, http.StatusUnprocessableEntity, in.values(), fieldErrs)
			return
		}
		logAndInternalError(w, "failed to save personal info", "error", err)
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info("personal info saved", "skills", len(skills), "updated_by", userID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryPortfolio, "Personal info updated", userID,
		map[string]any{"skills": len(skills)})

	flashSuccess(w, r, h.renderer, redirectPortfolio, "Personal information updated.")
}

// NewProject handles GET /portfolio/projects/create.
func (h *PortfolioHandler) NewProject(w http.ResponseWriter, r *http.Request) {
	h.projects.NewForm(w, r, projectInput{IsVisible: true})
}

// CreateProject handles POST /portfolio/projects/create.
func (h *PortfolioHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.projects.Create(w, r)
}

// EditProject handles GET /portfolio/projects/{id}.
func (h *PortfolioHandler) EditProject(w http.ResponseWriter, r *http.Request) {
	h.projects.EditForm(w, r)
}

// UpdateProject handles POST /portfolio/projects/{id}.
func (h *PortfolioHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	h.projects.Update(w, r)
}

// DeleteProject handles POST /portfolio/projects/{id}/delete.
func (h *PortfolioHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.projects.Delete(w, r)
}

// NewSocialLink handles GET /portfolio/social/create.
func (h *PortfolioHandler) NewSocialLink(w http.ResponseWriter, r *http.Request) {
	h.socialLinks.NewForm(w, r, socialLinkInput{IsVisible: true})
}

// CreateSocialLink handles POST /portfolio/social/create.
func (h *PortfolioHandler) CreateSocialLink(w http.ResponseWriter, r *http.Request) {
	h.socialLinks.Create(w, r)
}

// EditSocialLink handles GET /portfolio/social/{id}.
func (h *PortfolioHandler) EditSocialLink(w http.ResponseWriter, r *http.Request) {
	h.socialLinks.EditForm(w, r)
}

// UpdateSocialLink handles POST /portfolio/social/{id}.
func (h *PortfolioHandler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	h.socialLinks.Update(w, r)
}

// DeleteSocialLink handles POST /portfolio/social/{id}/delete.
func (h *PortfolioHandler) DeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	h.socialLinks.Delete(w, r)
}

func (h *PortfolioHandler) renderPersonalForm(w http.ResponseWriter, r *http.Request, status int, values, errs map[string]string) {
	renderPage(w, r, h.renderer, status, tmplPersonalForm, "Personal information", FormData{
		Values: values,
		Errors: errs,
		IsEdit: true,
		Action: pathPersonal,
	})
}

func skillValues(rows []model.PersonalInfo) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Value)
	}
	return out
}

func applyProjectInput(p *model.Project, in projectInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.URL = in.URL
	p.RepoURL = in.RepoURL
	p.Technologies = util.ParseTags(in.Technologies)
	p.IsFeatured = in.IsFeatured
	p.IsVisible = in.IsVisible
	p.SortOrder = in.SortOrder
}

func applySocialLinkInput(l *model.SocialLink, in socialLinkInput) {
	l.Platform = in.Platform
	l.URL = in.URL
	l.Icon = in.Icon
	l.SortOrder = in.SortOrder
	l.IsVisible = in.IsVisible
}
