package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mediflow/mediflow/internal/platform/auth"
)

// Mirrors the production wiring: auth guards the /api/v1 group only, the
// health probe stays open.
func newTestRouter() *echo.Echo {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     "https://auth.example.com",
		SigningKey: []byte("test-secret"),
	}))
	apiV1.GET("/encounters", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	return e
}

func TestHealthNeedsNoToken(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unauthenticated GET /health = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/encounters", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated GET /api/v1/encounters = %d, want 401", rec.Code)
	}
}
