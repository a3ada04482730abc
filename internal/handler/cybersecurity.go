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
)

// CyberListData holds the cybersecurity list page data.
type CyberListData struct {
	Resources   []model.CybersecurityResource
	ByType      []store.TypeCount
	BySeverity  []store.SeverityCount
	UrgentCount int64
	Total       int64
}

// CybersecurityHandler handles cybersecurity resource management.
type CybersecurityHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewCybersecurityHandler creates a new CybersecurityHandler.
func NewCybersecurityHandler(db *gorm.DB, renderer *render.Renderer, sm *scs.SessionManager) *CybersecurityHandler {
	queries := store.New(db)
	return &CybersecurityHandler{
		queries:        queries,
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(queries),
	}
}

// List handles GET /cybersecurity.
func (h *CybersecurityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resources, err := h.queries.ListCybersecurityResources(ctx, 0)
	if err != nil {
		logAndInternalError(w, "failed to list cybersecurity resources", "error", err)
		return
	}

	data := CyberListData{
		Resources: resources,
		Total:     int64(len(resources)),
	}
	if data.ByType, err = h.queries.CybersecurityCountsByType(ctx); err != nil {
		slog.Error("failed to count resources by type", "error", err)
	}
	if data.BySeverity, err = h.queries.CybersecurityCountsBySeverity(ctx); err != nil {
		slog.Error("failed to count resources by severity", "error", err)
	}
	data.UrgentCount = countOrZero(ctx, "urgent resources", h.queries.CountUrgentCybersecurityResources)

	renderPage(w, r, h.renderer, http.StatusOK, tmplCyberList, "Cybersecurity", data)
}

// NewForm handles GET /cybersecurity/create.
func (h *CybersecurityHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	in := cyberInput{Type: model.CyberTypeAdvisory, SeverityLevel: model.SeverityLow}
	h.renderForm(w, r, http.StatusOK, "New resource", in.values(), nil, false, redirectCybersecurity+RouteSuffixCreate)
}

// Create handles POST /cybersecurity/create.
func (h *CybersecurityHandler) Create(w http.ResponseWriter, r *http.Request) {
	action := redirectCybersecurity + RouteSuffixCreate
	if !parseFormOrRedirect(w, r, h.renderer, action) {
		return
	}

	in := parseCyberInput(r)
	if errs := validateInput(in); len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "New resource", in.values(), errs, false, action)
		return
	}

	res := &model.CybersecurityResource{}
	applyCyberInput(res, in)
	if err := h.queries.CreateCybersecurityResource(r.Context(), res); err != nil {
		logAndInternalError(w, "failed to create cybersecurity resource", "error", err)
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info("cybersecurity resource created", "resource_id", res.ID, "severity", res.SeverityLevel, "created_by", userID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryCybersecurity, "Cybersecurity resource created", userID,
		map[string]any{"resource_id": res.ID, "title": res.Title})

	flashSuccess(w, r, h.renderer, redirectCybersecurity, "Cybersecurity resource created.")
}

// EditForm handles GET /cybersecurity/{id}.
func (h *CybersecurityHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	res, ok := requireEntity(w, r, "Resource", h.getResource(r))
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, "Edit resource", cyberInputFromModel(res).values(), nil, true, editURL(redirectCybersecurity, res.ID))
}

// Update handles POST /cybersecurity/{id}.
func (h *CybersecurityHandler) Update(w http.ResponseWriter, r *http.Request) {
	res, ok := requireEntity(w, r, "Resource", h.getResource(r))
	if !ok {
		return
	}
	action := editURL(redirectCybersecurity, res.ID)
	if !parseFormOrRedirect(w, r, h.renderer, action) {
		return
	}

	in := parseCyberInput(r)
	if errs := validateInput(in); len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit resource", in.values(), errs, true, action)
		return
	}

	applyCyberInput(res, in)
	if err := h.queries.UpdateCybersecurityResource(r.Context(), res); err != nil {
		if store.IsNotFound(err) {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to update cybersecurity resource", "error", err, "resource_id", res.ID)
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info("cybersecurity resource updated", "resource_id", res.ID, "updated_by", userID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryCybersecurity, "Cybersecurity resource updated", userID,
		map[string]any{"resource_id": res.ID, "title": res.Title})

	flashSuccess(w, r, h.renderer, redirectCybersecurity, "Resource updated.")
}

// Delete handles POST /cybersecurity/{id}/delete.
func (h *CybersecurityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleteEntity(w, r, h.renderer, h.eventService, model.EventCategoryCybersecurity, "Resource", redirectCybersecurity,
		h.getResource(r),
		func(c *model.CybersecurityResource) string { return c.Title },
		func(id int64) error { return h.queries.DeleteCybersecurityResource(r.Context(), id) },
	)
}

func (h *CybersecurityHandler) getResource(r *http.Request) func(int64) (*model.CybersecurityResource, error) {
	return func(id int64) (*model.CybersecurityResource, error) {
		return h.queries.GetCybersecurityResource(r.Context(), id)
	}
}

func (h *CybersecurityHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, values, errs map[string]string, isEdit bool, action string) {
	renderPage(w, r, h.renderer, status, tmplCyberForm, title, FormData{
		Values:     values,
		Errors:     errs,
		IsEdit:     isEdit,
		Action:     action,
		CyberTypes: model.ValidCyberTypes,
		Severities: severityOptions(),
	})
}

func applyCyberInput(c *model.CybersecurityResource, in cyberInput) {
	c.Title = in.Title
	c.Description = in.Description
	c.Type = in.Type
	c.SeverityLevel = in.SeverityLevel
	c.IsUrgent = in.IsUrgent
	c.URL = in.URL
}
