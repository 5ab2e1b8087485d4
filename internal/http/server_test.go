package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/config"
)

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		health HealthChecker
		status int
	}{
		{"ok", fakeHealth{}, http.StatusOK},
		{"store down", fakeHealth{err: errDown}, http.StatusServiceUnavailable},
		{"no store", nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemoryStore()
			svc := catalog.NewService(movieRepo{st}, reviewRepo{st}, nil)
			srv := New(config.Config{}, tt.health, svc, nil, nil)

			rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestMetricsDisabled(t *testing.T) {
	st := newMemoryStore()
	svc := catalog.NewService(movieRepo{st}, reviewRepo{st}, nil)
	srv := New(config.Config{}, fakeHealth{}, svc, nil, nil)
	h := srv.Handler()

	if rec := doRequest(t, h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("metrics status = %d, want 404", rec.Code)
	}
	createMovie(t, h, `{"title":"Heat"}`)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := buildTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/movies", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := buildTestServer(t)
	if rec := doRequest(t, srv.Handler(), http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := buildTestServer(t)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q, want abc-123", got)
	}

	rec = doRequest(t, h, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("generated X-Request-Id = %q, want a uuid", got)
	}
}

func waitStart(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatalf("Start did not return")
		return nil
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv, _ := buildTestServer(t)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()
	if err := waitStart(t, done); err != nil {
		t.Fatalf("Start after Shutdown = %v, want nil", err)
	}
}

func TestShutdownConcurrentWithStart(t *testing.T) {
	srv, _ := buildTestServer(t)

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := waitStart(t, done); err != nil {
		t.Fatalf("Start = %v, want nil", err)
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	srv, _ := buildTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	cancel()
	if err := waitStart(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start = %v, want context.Canceled", err)
	}
}
