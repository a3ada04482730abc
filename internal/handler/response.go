// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// flashAndRedirect sets a flash message and answers 303 to url.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, messageType, message string) {
	renderer.AddFlash(r, messageType, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, render.FlashError, message)
}

func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, render.FlashSuccess, message)
}

// parseFormOrRedirect parses the request form and redirects with an error on failure.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderPage renders name with the standard admin data, answering 500 on
// template failure.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name, title string, data any) {
	err := renderer.RenderStatus(w, r, status, name, render.TemplateData{
		Title:    title,
		SiteName: middleware.GetSiteName(r),
		User:     middleware.GetUser(r),
		Data:     data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// requireEntity resolves the {id} URL parameter and loads the entity.
// Unknown or malformed ids answer 404; other failures answer 500.
// The second return is false when a response has already been written.
func requireEntity[T any](w http.ResponseWriter, r *http.Request, entityName string, queryFn func(id int64) (*T, error)) (*T, bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	entity, err := queryFn(id)
	if err != nil {
		if store.IsNotFound(err) {
			slog.Debug(entityName+" not found", "id", id)
			http.Error(w, entityName+" not found", http.StatusNotFound)
		} else {
			logAndInternalError(w, "failed to load "+entityName, "error", err, "id", id)
		}
		return nil, false
	}
	return entity, true
}

// deleteEntity loads the entity named by {id}, removes it, records the
// event, flashes and redirects to listURL. entityName is capitalised ("Post").
func deleteEntity[T any](w http.ResponseWriter, r *http.Request, renderer *render.Renderer, events eventLogger,
	category, entityName, listURL string,
	load func(id int64) (*T, error), label func(*T) string, del func(id int64) error) {
	entity, ok := requireEntity(w, r, entityName, load)
	if !ok {
		return
	}
	id, _ := ParseIDParam(r)

	if err := del(id); err != nil {
		if store.IsNotFound(err) {
			http.Error(w, entityName+" not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to delete "+strings.ToLower(entityName), "error", err, "id", id)
		return
	}

	name := label(entity)
	userID := middleware.GetUserID(r)
	slog.Info(strings.ToLower(entityName)+" deleted", "id", id, "user_id", userID)
	_ = events.LogInfo(r.Context(), category, entityName+" deleted", userID, map[string]any{"id": id, "name": name})

	flashSuccess(w, r, renderer, listURL, fmt.Sprintf("%s %q deleted.", entityName, name))
}

// duplicateFieldErrors maps a unique violation onto the form field named by
// the violated column. messages holds the error text per column; columns not
// listed are not form-related and yield false.
func duplicateFieldErrors(err error, messages map[string]string) (map[string]string, bool) {
	column, ok := store.DuplicateColumn(err)
	if !ok {
		return nil, false
	}
	msg, ok := messages[column]
	if !ok {
		return nil, false
	}
	return map[string]string{column: msg}, true
}
