// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutNormalRequest(t *testing.T) {
	handler := Timeout(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom-Header", "test-value")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := rec.Header().Get("X-Custom-Header"); got != "test-value" {
		t.Errorf("X-Custom-Header = %q, want test-value", got)
	}
	if rec.Body.String() != "created" {
		t.Errorf("body = %q, want created", rec.Body.String())
	}
}

func TestTimeoutKeepsOuterHeaders(t *testing.T) {
	handler := Timeout(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("X-Frame-Options") != "DENY" {
			t.Error("handler should see headers set before the timeout")
		}
		w.Header().Del("Cache-Control")
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Frame-Options", "DENY")
	rec.Header().Set("Cache-Control", "no-store")
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Cache-Control = %q, want it removed by the handler", got)
	}
}

func TestTimeoutSlowRequest(t *testing.T) {
	handler := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if rec.Body.String() != timeoutMessage {
		t.Errorf("body = %q, want %q", rec.Body.String(), timeoutMessage)
	}
}

func TestTimeoutLateHeadersNotApplied(t *testing.T) {
	finished := make(chan struct{})
	handler := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		// Give the timeout branch time to answer first.
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("X-Late", "1")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	<-finished

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if got := rec.Header().Get("X-Late"); got != "" {
		t.Errorf("X-Late = %q, header set after the timeout reached the response", got)
	}
}

func TestTimeoutPropagatesPanic(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("recovered %v, want boom", p)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestTimeoutWriter(t *testing.T) {
	t.Run("first status wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := newTimeoutWriter(rec)
		tw.WriteHeader(http.StatusOK)
		tw.WriteHeader(http.StatusNotFound)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("write implies 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := newTimeoutWriter(rec)
		n, err := tw.Write([]byte("hello"))
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if n != 5 {
			t.Errorf("n = %d, want 5", n)
		}
		if !tw.wroteHeader {
			t.Error("wroteHeader should be set")
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("headers copied on write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := newTimeoutWriter(rec)
		tw.Header().Set("Content-Type", "text/html")
		if rec.Header().Get("Content-Type") != "" {
			t.Error("headers must not reach the response before the first write")
		}
		tw.WriteHeader(http.StatusOK)
		if got := rec.Header().Get("Content-Type"); got != "text/html" {
			t.Errorf("Content-Type = %q, want text/html", got)
		}
	})

	t.Run("writes after timeout are dropped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tw := newTimeoutWriter(rec)
		tw.timedOut = true
		_, err := tw.Write([]byte("late"))
		if !errors.Is(err, http.ErrHandlerTimeout) {
			t.Errorf("err = %v, want ErrHandlerTimeout", err)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rec.Body.String())
		}
	})
}
