package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

func TestCreateTemplateSendsBearerAndReturnsID(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/templates", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":"abc123"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-1")
	id, err := client.CreateTemplate(context.Background(), "template1", models.PortfolioData{
		Personal: models.PersonalInfo{FullName: "Dana"},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", id)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "template1", gotBody["templateName"])
	assert.Contains(t, gotBody, "portfolioData")
}

func TestPatchTemplateHitsTemplatePath(t *testing.T) {
	var gotPath, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"success":true,"data":{"id":"abc123"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-1")
	err := client.PatchTemplate(context.Background(), "abc123", "template2", models.PortfolioData{})
	require.NoError(t, err)

	assert.Equal(t, "/api/templates/abc123", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
}

// Deleting the last entry of a section must still reach the server: the
// patch body carries the emptied list explicitly, otherwise the key-by-key
// merge on the other end would keep the stale entries forever.
func TestPatchCarriesEmptiedSections(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success":true,"data":{"id":"abc123"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-1")
	err := client.PatchTemplate(context.Background(), "abc123", "template1", models.PortfolioData{
		Experience: []models.Experience{},
		Skills:     []models.Skill{{ID: "1", Name: "Go", Level: "beginner"}},
	})
	require.NoError(t, err)

	data, ok := gotBody["portfolioData"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, data, "experience")
	assert.Empty(t, data["experience"])
	assert.Len(t, data["skills"], 1)
}

func TestErrorResponsesSurfaceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"message":"Not authorized to update this template"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-1")
	err := client.PatchTemplate(context.Background(), "abc123", "template1", models.PortfolioData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not authorized to update this template")
}

func TestNetworkErrorIsReturned(t *testing.T) {
	client := New("http://127.0.0.1:1", "token-1")
	_, err := client.CreateTemplate(context.Background(), "template1", models.PortfolioData{})
	assert.Error(t, err)
}
