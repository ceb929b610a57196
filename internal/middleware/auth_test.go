package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/craftfolio/craftfolio-backend/internal/services"
)

func TestRequireAuthPlacesUserIDInContext(t *testing.T) {
	services.InitTokens("test-secret", 30*24*time.Hour, 24*time.Hour)

	userID := primitive.NewObjectID()
	token, err := services.GenerateToken(userID.Hex(), true)
	require.NoError(t, err)

	var seen primitive.ObjectID
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
	}))

	r := httptest.NewRequest("GET", "/api/templates", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)
}

func TestRequireAuthRejectsUniformly(t *testing.T) {
	services.InitTokens("test-secret", 30*24*time.Hour, 24*time.Hour)

	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not-a-jwt",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/templates", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Not authorized, token failed"}`, w.Body.String())
		})
	}
}

func TestUserIDFromContextWithoutAuth(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, ok := UserIDFromContext(r.Context())
	assert.False(t, ok)
}
