// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/store"
)

type formInput interface {
	values() map[string]string
}

// resourceCRUD wires the create/edit/delete flow of a simple catalog entity.
// T is the stored model, I its form schema.
type resourceCRUD[T any, I formInput] struct {
	renderer *render.Renderer
	events   eventLogger

	entityName string // "Tool"
	category   string // event category
	basePath   string // "/tools/ai"
	listURL    string // redirect after success
	template   string

	parse     func(*http.Request) I
	fromModel func(*T) I
	apply     func(*T, I)
	label     func(*T) string
	id        func(*T) int64

	get    func(ctx context.Context, id int64) (*T, error)
	create func(ctx context.Context, v *T) error
	update func(ctx context.Context, v *T) error
	del    func(ctx context.Context, id int64) error

	createdMessage string
	updatedMessage string
}

func (c *resourceCRUD[T, I]) lower() string {
	return strings.ToLower(c.entityName)
}

func (c *resourceCRUD[T, I]) NewForm(w http.ResponseWriter, r *http.Request, defaults I) {
	c.renderForm(w, r, http.StatusOK, defaults.values(), nil, false, c.basePath+RouteSuffixCreate)
}

func (c *resourceCRUD[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	action := c.basePath + RouteSuffixCreate
	if !parseFormOrRedirect(w, r, c.renderer, action) {
		return
	}

	in := c.parse(r)
	if errs := validateInput(in); len(errs) > 0 {
		c.renderForm(w, r, http.StatusUnprocessableEntity, in.values(), errs, false, action)
		return
	}

	entity := new(T)
	c.apply(entity, in)
	if err := c.create(r.Context(), entity); err != nil {
		logAndInternalError(w, "failed to create "+c.lower(), "error", err)
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info(c.lower()+" created", "id", c.id(entity), "created_by", userID)
	_ = c.events.LogInfo(r.Context(), c.category, c.entityName+" created", userID,
		map[string]any{"id": c.id(entity), "name": c.label(entity)})

	flashSuccess(w, r, c.renderer, c.listURL, c.createdMessage)
}

func (c *resourceCRUD[T, I]) EditForm(w http.ResponseWriter, r *http.Request) {
	entity, ok := requireEntity(w, r, c.entityName, c.loader(r))
	if !ok {
		return
	}
	c.renderForm(w, r, http.StatusOK, c.fromModel(entity).values(), nil, true, editURL(c.basePath, c.id(entity)))
}

func (c *resourceCRUD[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	entity, ok := requireEntity(w, r, c.entityName, c.loader(r))
	if !ok {
		return
	}
	action := editURL(c.basePath, c.id(entity))
	if !parseFormOrRedirect(w, r, c.renderer, action) {
		return
	}

	in := c.parse(r)
	if errs := validateInput(in); len(errs) > 0 {
		c.renderForm(w, r, http.StatusUnprocessableEntity, in.values(), errs, true, action)
		return
	}

	c.apply(entity, in)
	if err := c.update(r.Context(), entity); err != nil {
		if store.IsNotFound(err) {
			http.Error(w, c.entityName+" not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to update "+c.lower(), "error", err, "id", c.id(entity))
		return
	}

	userID := middleware.GetUserID(r)
	slog.Info(c.lower()+" updated", "id", c.id(entity), "updated_by", userID)
	_ = c.events.LogInfo(r.Context(), c.category, c.entityName+" updated", userID,
		map[string]any{"id": c.id(entity), "name": c.label(entity)})

	flashSuccess(w, r, c.renderer, c.listURL, c.updatedMessage)
}

func (c *resourceCRUD[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	deleteEntity(w, r, c.renderer, c.events, c.category, c.entityName, c.listURL,
		c.loader(r), c.label,
		func(id int64) error { return c.del(r.Context(), id) },
	)
}

func (c *resourceCRUD[T, I]) loader(r *http.Request) func(int64) (*T, error) {
	return func(id int64) (*T, error) {
		return c.get(r.Context(), id)
	}
}

func (c *resourceCRUD[T, I]) renderForm(w http.ResponseWriter, r *http.Request, status int, values, errs map[string]string, isEdit bool, action string) {
	title := "New " + c.lower()
	if isEdit {
		title = "Edit " + c.lower()
	}
	renderPage(w, r, c.renderer, status, c.template, title, FormData{
		Values: values,
		Errors: errs,
		IsEdit: isEdit,
		Action: action,
	})
}
