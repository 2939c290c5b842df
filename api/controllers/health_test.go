package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/westwooddairy/storefront-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return cfg
}

func TestHealthReadyAllDependenciesUp(t *testing.T) {
	w := httptest.NewRecorder()
	handler := HealthReady(testConfig(), nil, &stubPinger{}, &stubPinger{})
	handler(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	w := httptest.NewRecorder()
	handler := HealthReady(testConfig(), nil, &stubPinger{err: errors.New("connection refused")}, &stubPinger{})
	handler(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHealthReadySkipsNilPingers(t *testing.T) {
	w := httptest.NewRecorder()
	handler := HealthReady(testConfig(), nil, nil, nil)
	handler(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
