// Package menuclient is a client for the menu API.
package menuclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idcard-hub/idcard-menu-services/models"
)

// Client calls the menu API with a bearer token.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewClient creates a new instance of Client. baseURL includes the API base
// path, e.g. https://menus.example.com/api.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListMenus fetches every menu. A response envelope is returned for any
// status that carries one, so callers can show its message.
func (c *Client) ListMenus(ctx context.Context) (*models.MenuResponse, error) {
	return c.get(ctx, c.BaseURL+"/menus")
}

// GetMenu fetches a single menu.
func (c *Client) GetMenu(ctx context.Context, menuID string) (*models.MenuResponse, error) {
	return c.get(ctx, c.BaseURL+"/menus/"+url.PathEscape(menuID))
}

func (c *Client) get(ctx context.Context, target string) (*models.MenuResponse, error) {
	respBody, statusCode, err := c.makeRequest(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}

	var resp models.MenuResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if statusCode >= http.StatusBadRequest {
			return nil, &HTTPError{
				Message: fmt.Sprintf("request failed, status: %d, response: %s", statusCode, strings.TrimSpace(string(respBody))),
				Status:  statusCode,
			}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// makeRequest performs an HTTP request and returns the body and status code.
func (c *Client) makeRequest(ctx context.Context, method, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
