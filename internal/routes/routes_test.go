package routes

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/craftfolio/craftfolio-backend/internal/config"
)

// Route matching only; no handler is invoked so no backing stores are
// needed.
func TestRouteShapes(t *testing.T) {
	r := chi.NewRouter()
	SetupRoutes(r, &config.Config{Environment: "development"})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/signup"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/forgot-password"},
		{http.MethodPut, "/api/auth/reset-password/sometoken"},
		{http.MethodGet, "/api/auth/verify-email/sometoken"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/templates/public"},
		{http.MethodGet, "/api/templates/64b7f3a1c9e77a0012345678"},
		{http.MethodPost, "/api/templates/64b7f3a1c9e77a0012345678/fork"},
		{http.MethodPost, "/api/templates/64b7f3a1c9e77a0012345678/export"},
		{http.MethodGet, "/health"},
	}
	for _, tc := range tests {
		rctx := chi.NewRouteContext()
		assert.True(t, r.Match(rctx, tc.method, tc.path), "%s %s should be routed", tc.method, tc.path)
	}

	// The token moved into the URL; the old body-token endpoints are gone.
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/reset-password"},
		{http.MethodPost, "/api/auth/verify-email"},
	} {
		rctx := chi.NewRouteContext()
		assert.False(t, r.Match(rctx, tc.method, tc.path), "%s %s should not be routed", tc.method, tc.path)
	}
}
