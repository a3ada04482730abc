// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newCRUDRouter(deleted *int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.GetHead)
	registerCRUD(r, "/blog", crudHandlers{
		NewForm:  okHandler,
		Create:   okHandler,
		EditForm: okHandler,
		Update:   okHandler,
		Delete: func(w http.ResponseWriter, _ *http.Request) {
			*deleted++
			w.WriteHeader(http.StatusOK)
		},
	})
	return r
}

func TestRegisterCRUD_DeleteRejectsSafeMethods(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			deleted := 0
			router := newCRUDRouter(&deleted)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/blog/5/delete", nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
			}
			if deleted != 0 {
				t.Errorf("%s ran the delete handler %d times", method, deleted)
			}
		})
	}
}

func TestRegisterCRUD_DeleteOnPost(t *testing.T) {
	deleted := 0
	router := newCRUDRouter(&deleted)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blog/5/delete", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if deleted != 1 {
		t.Errorf("delete handler ran %d times, want 1", deleted)
	}
}

func TestRegisterCRUD_Routes(t *testing.T) {
	deleted := 0
	router := newCRUDRouter(&deleted)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/blog/create", http.StatusOK},
		{http.MethodPost, "/blog/create", http.StatusOK},
		{http.MethodGet, "/blog/5", http.StatusOK},
		{http.MethodPost, "/blog/5", http.StatusOK},
		{http.MethodDelete, "/blog/5", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if deleted != 0 {
		t.Errorf("delete handler ran %d times, want 0", deleted)
	}
}
