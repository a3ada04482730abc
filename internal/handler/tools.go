// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/service"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// ToolsPageData holds the three catalogs shown on the tools page.
type ToolsPageData struct {
	Tools     []model.Tool
	AITools   []model.AITool
	Resources []model.UsefulResource
}

// ToolsHandler handles the tools, AI tools and useful resources catalogs.
type ToolsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager

	tools     *resourceCRUD[model.Tool, toolInput]
	aiTools   *resourceCRUD[model.AITool, aiToolInput]
	resources *resourceCRUD[model.UsefulResource, resourceInput]
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager) *ToolsHandler {
	queries := store.New(db)
	events := service.NewEventService(queries)

	return &ToolsHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		tools: &resourceCRUD[model.Tool, toolInput]{
			renderer:       renderer,
			events:         events,
			entityName:     "Tool",
			category:       model.EventCategoryTool,
			basePath:       redirectTools,
			listURL:        redirectTools,
			template:       tmplToolForm,
			parse:          parseToolInput,
			fromModel:      toolInputFromModel,
			apply:          applyToolInput,
			label:          func(t *model.Tool) string { return t.Title },
			id:             func(t *model.Tool) int64 { return t.ID },
			get:            queries.GetTool,
			create:         queries.CreateTool,
			update:         queries.UpdateTool,
			del:            queries.DeleteTool,
			createdMessage: "Tool created.",
			updatedMessage: "Tool updated.",
		},
		aiTools: &resourceCRUD[model.AITool, aiToolInput]{
			renderer:       renderer,
			events:         events,
			entityName:     "AI tool",
			category:       model.EventCategoryTool,
			basePath:       pathAITools,
			listURL:        redirectTools,
			template:       tmplAIToolForm,
			parse:          parseAIToolInput,
			fromModel:      aiToolInputFromModel,
			apply:          applyAIToolInput,
			label:          func(t *model.AITool) string { return t.Name },
			id:             func(t *model.AITool) int64 { return t.ID },
			get:            queries.GetAITool,
			create:         queries.CreateAITool,
			update:         queries.UpdateAITool,
			del:            queries.DeleteAITool,
			createdMessage: "AI tool created.",
			updatedMessage: "AI tool updated.",
		},
		resources: &resourceCRUD[model.UsefulResource, resourceInput]{
			renderer:       renderer,
			events:         events,
			entityName:     "Resource",
			category:       model.EventCategoryTool,
			basePath:       pathResources,
			listURL:        redirectTools,
			template:       tmplResourceForm,
			parse:          parseResourceInput,
			fromModel:      resourceInputFromModel,
			apply:          applyResourceInput,
			label:          func(u *model.UsefulResource) string { return u.Name },
			id:             func(u *model.UsefulResource) int64 { return u.ID },
			get:            queries.GetUsefulResource,
			create:         queries.CreateUsefulResource,
			update:         queries.UpdateUsefulResource,
			del:            queries.DeleteUsefulResource,
			createdMessage: "Resource created.",
			updatedMessage: "Resource updated.",
		},
	}
}

// List handles GET /tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tools, err := h.queries.ListTools(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list tools", "error", err)
		return
	}

	data := ToolsPageData{Tools: tools}
	if data.AITools, err = h.queries.ListAITools(ctx); err != nil {
		logAndInternalError(w, "failed to list ai tools", "error", err)
		return
	}
	if data.Resources, err = h.queries.ListUsefulResources(ctx); err != nil {
		logAndInternalError(w, "failed to list useful resources", "error", err)
		return
	}

	slog.Debug("tools page loaded", "tools", len(data.Tools), "ai_tools", len(data.AITools), "resources", len(data.Resources))
	renderPage(w, r, h.renderer, http.StatusOK, tmplTools, "Tools", data)
}

// NewTool handles GET /tools/create.
func (h *ToolsHandler) NewTool(w http.ResponseWriter, r *http.Request) {
	h.tools.NewForm(w, r, toolInput{IsVisible: true})
}

// CreateTool handles POST /tools/create.
func (h *ToolsHandler) CreateTool(w http.ResponseWriter, r *http.Request) { h.tools.Create(w, r) }

// EditTool handles GET /tools/{id}.
func (h *ToolsHandler) EditTool(w http.ResponseWriter, r *http.Request) { h.tools.EditForm(w, r) }

// UpdateTool handles POST /tools/{id}.
func (h *ToolsHandler) UpdateTool(w http.ResponseWriter, r *http.Request) { h.tools.Update(w, r) }

// DeleteTool handles POST /tools/{id}/delete.
func (h *ToolsHandler) DeleteTool(w http.ResponseWriter, r *http.Request) { h.tools.Delete(w, r) }

// NewAITool handles GET /tools/ai/create.
func (h *ToolsHandler) NewAITool(w http.ResponseWriter, r *http.Request) {
	h.aiTools.NewForm(w, r, aiToolInput{IsVisible: true})
}

// CreateAITool handles POST /tools/ai/create.
func (h *ToolsHandler) CreateAITool(w http.ResponseWriter, r *http.Request) { h.aiTools.Create(w, r) }

// EditAITool handles GET /tools/ai/{id}.
func (h *ToolsHandler) EditAITool(w http.ResponseWriter, r *http.Request) { h.aiTools.EditForm(w, r) }

// UpdateAITool handles POST /tools/ai/{id}.
func (h *ToolsHandler) UpdateAITool(w http.ResponseWriter, r *http.Request) { h.aiTools.Update(w, r) }

// DeleteAITool handles POST /tools/ai/{id}/delete.
func (h *ToolsHandler) DeleteAITool(w http.ResponseWriter, r *http.Request) { h.aiTools.Delete(w, r) }

// NewResource handles GET /tools/resources/create.
func (h *ToolsHandler) NewResource(w http.ResponseWriter, r *http.Request) {
	h.resources.NewForm(w, r, resourceInput{IsVisible: true})
}

// CreateResource handles POST /tools/resources/create.
func (h *ToolsHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	h.resources.Create(w, r)
}

// EditResource handles GET /tools/resources/{id}.
func (h *ToolsHandler) EditResource(w http.ResponseWriter, r *http.Request) {
	h.resources.EditForm(w, r)
}

// UpdateResource handles POST /tools/resources/{id}.
func (h *ToolsHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	h.resources.Update(w, r)
}

// DeleteResource handles POST /tools/resources/{id}/delete.
func (h *ToolsHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	h.resources.Delete(w, r)
}

func applyToolInput(t *model.Tool, in toolInput) {
	t.Title = in.Title
	t.Description = in.Description
	t.URL = in.URL
	t.Category = in.Category
	t.IsVisible = in.IsVisible
}

func applyAIToolInput(t *model.AITool, in aiToolInput) {
	t.Name = in.Name
	t.Description = in.Description
	t.URL = in.URL
	t.Category = in.Category
	t.IsFeatured = in.IsFeatured
	t.IsVisible = in.IsVisible
}

func applyResourceInput(u *model.UsefulResource, in resourceInput) {
	u.Name = in.Name
	u.Description = in.Description
	u.URL = in.URL
	u.Category = in.Category
	u.IsVisible = in.IsVisible
}
