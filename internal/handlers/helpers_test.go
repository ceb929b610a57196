package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, 400, "Title is required")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"Title is required"}`, w.Body.String())
}

// Login failures share one body regardless of which check failed, so a
// caller cannot probe which emails are registered.
func TestUniformCredentialMessage(t *testing.T) {
	assert.Equal(t, "Invalid email or password", MsgInvalidCredentials)

	unknownEmail := httptest.NewRecorder()
	writeError(unknownEmail, 401, MsgInvalidCredentials)

	wrongPassword := httptest.NewRecorder()
	writeError(wrongPassword, 401, MsgInvalidCredentials)

	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
}

func TestWriteJSONSetsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, 201, AuthResponse{Success: true, Message: "ok"})

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"success":true`)
}
