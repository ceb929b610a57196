package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// withTokenParam attaches a chi route context carrying the {token} path
// parameter, the way the router populates it.
func withTokenParam(r *http.Request, token string) *http.Request {
	rctx := chi.NewRouteContext()
	if token != "" {
		rctx.URLParams.Add("token", token)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestResetPasswordReadsTokenFromURL(t *testing.T) {
	// A present token reaches the password validation.
	r := httptest.NewRequest(http.MethodPut, "/api/auth/reset-password/tok123",
		strings.NewReader(`{"newPassword":"abc"}`))
	w := httptest.NewRecorder()
	ResetPassword(w, withTokenParam(r, "tok123"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters")
}

func TestResetPasswordRequiresToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/api/auth/reset-password/",
		strings.NewReader(`{"newPassword":"longenough"}`))
	w := httptest.NewRecorder()
	ResetPassword(w, withTokenParam(r, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Reset token is required")
}

func TestVerifyEmailRequiresToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email/", nil)
	w := httptest.NewRecorder()
	VerifyEmail(w, withTokenParam(r, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Verification token is required")
}
