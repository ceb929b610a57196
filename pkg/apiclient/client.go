// Package apiclient is a small HTTP client for the template API, used by
// the builder's remote auto-saver and by integration tooling.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// Client talks to one backend with one bearer token. The zero value is not
// usable; call New.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken replaces the bearer token after a login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

type apiEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out *apiEnvelope) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if resp.StatusCode >= 400 || !out.Success {
		if out.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, out.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return nil
}

// CreateTemplate saves a new template and returns its id.
func (c *Client) CreateTemplate(ctx context.Context, templateName string, data models.PortfolioData) (string, error) {
	body := map[string]interface{}{
		"templateName":  templateName,
		"title":         "My Portfolio",
		"portfolioData": data,
	}
	var out apiEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/templates", body, &out); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

// PatchTemplate sends a partial update carrying the latest document.
func (c *Client) PatchTemplate(ctx context.Context, id string, templateName string, data models.PortfolioData) error {
	body := map[string]interface{}{
		"templateName":  templateName,
		"portfolioData": data,
	}
	var out apiEnvelope
	return c.do(ctx, http.MethodPatch, "/api/templates/"+id, body, &out)
}
